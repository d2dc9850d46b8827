// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"net/netip"
	"sort"
)

// RouteClient identifies the subsystem that installed a route. A prefix may
// carry one entry per client; forwarding follows the entry with the best
// administrative distance.
type RouteClient uint8

const (
	ClientInterfaceRoute RouteClient = iota
	ClientStaticRoute
	ClientBgp
)

// AdminDistance ranks route entries; lower wins.
type AdminDistance uint8

const (
	AdminDirectlyConnected AdminDistance = 0
	AdminStaticRoute       AdminDistance = 1
	AdminEbgp              AdminDistance = 20
	AdminIbgp              AdminDistance = 200
	AdminMaxDistance       AdminDistance = 255
)

// RouteForwardAction decides what the data plane does with a matching packet.
type RouteForwardAction uint8

const (
	ForwardNextHops RouteForwardAction = iota
	ForwardDrop
	ForwardToCpu
)

// UcmpDefaultWeight is the next-hop weight used when the installer does not
// request unequal-cost distribution.
const UcmpDefaultWeight uint32 = 0

// NextHop is one resolved next hop: the neighbor address, the interface it
// was resolved over and its UCMP weight.
type NextHop struct {
	Addr      netip.Addr
	Interface InterfaceID
	Weight    uint32
}

// ResolvedNextHop builds a next hop pinned to an interface.
func ResolvedNextHop(addr netip.Addr, intf InterfaceID, weight uint32) NextHop {
	return NextHop{Addr: addr, Interface: intf, Weight: weight}
}

// RouteNextHopEntry is what one client programmed for a prefix: either a set
// of next hops or a terminal drop/to-CPU action, plus the distance used to
// arbitrate between clients.
type RouteNextHopEntry struct {
	Action   RouteForwardAction
	Distance AdminDistance
	NextHops []NextHop
}

// Equal compares action, distance and the full next-hop set.
func (e *RouteNextHopEntry) Equal(other *RouteNextHopEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Action != other.Action || e.Distance != other.Distance ||
		len(e.NextHops) != len(other.NextHops) {
		return false
	}
	for i := range e.NextHops {
		if e.NextHops[i] != other.NextHops[i] {
			return false
		}
	}
	return true
}

// Route is the state of one prefix within a route table.
type Route struct {
	nodeBase

	prefix  netip.Prefix
	entries map[RouteClient]*RouteNextHopEntry
}

// NewRoute creates a route with no client entries.
func NewRoute(prefix netip.Prefix) *Route {
	return &Route{
		prefix:  prefix,
		entries: map[RouteClient]*RouteNextHopEntry{},
	}
}

func (r *Route) Prefix() netip.Prefix { return r.prefix }

// EntryFor returns the entry installed by the given client, or nil.
func (r *Route) EntryFor(client RouteClient) *RouteNextHopEntry {
	return r.entries[client]
}

// Entries returns the per-client entry map.
func (r *Route) Entries() map[RouteClient]*RouteNextHopEntry {
	return r.entries
}

// BestEntry returns the entry with the lowest administrative distance,
// breaking ties on the lower client id.
func (r *Route) BestEntry() *RouteNextHopEntry {
	var best *RouteNextHopEntry
	var bestClient RouteClient
	for client, entry := range r.entries {
		if best == nil || entry.Distance < best.Distance ||
			(entry.Distance == best.Distance && client < bestClient) {
			best = entry
			bestClient = client
		}
	}
	return best
}

// Clone returns a copy with its own entry map so that the clone can be
// edited without touching the original.
func (r *Route) Clone() *Route {
	c := &Route{
		prefix:  r.prefix,
		entries: make(map[RouteClient]*RouteNextHopEntry, len(r.entries)),
	}
	c.bumpGeneration(r.nodeBase)
	for client, entry := range r.entries {
		c.entries[client] = entry
	}
	return c
}

func (r *Route) SetEntry(client RouteClient, entry *RouteNextHopEntry) {
	r.entries[client] = entry
}

func (r *Route) DelEntry(client RouteClient) {
	delete(r.entries, client)
}

// HasEntries reports whether any client still holds the route.
func (r *Route) HasEntries() bool { return len(r.entries) > 0 }

// Equal compares the prefix and every client entry.
func (r *Route) Equal(other *Route) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.prefix != other.prefix || len(r.entries) != len(other.entries) {
		return false
	}
	for client, entry := range r.entries {
		if !entry.Equal(other.entries[client]) {
			return false
		}
	}
	return true
}

// RouteTable holds every route of one virtual router.
type RouteTable struct {
	nodeBase

	id     RouterID
	routes map[netip.Prefix]*Route
}

// NewRouteTable creates an empty table for the router.
func NewRouteTable(id RouterID) *RouteTable {
	return &RouteTable{id: id, routes: map[netip.Prefix]*Route{}}
}

func (t *RouteTable) ID() RouterID { return t.id }

// Route returns the route for the prefix, or nil.
func (t *RouteTable) Route(prefix netip.Prefix) *Route {
	return t.routes[prefix]
}

// Routes returns the prefix-keyed route map.
func (t *RouteTable) Routes() map[netip.Prefix]*Route { return t.routes }

func (t *RouteTable) Size() int { return len(t.routes) }

// Prefixes returns the table's prefixes sorted by their string form, for
// deterministic iteration.
func (t *RouteTable) Prefixes() []netip.Prefix {
	out := make([]netip.Prefix, 0, len(t.routes))
	for p := range t.routes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// CloneWith returns a new table whose contents replace the old.
func (t *RouteTable) CloneWith(routes map[netip.Prefix]*Route) *RouteTable {
	c := &RouteTable{id: t.id, routes: routes}
	c.bumpGeneration(t.nodeBase)
	return c
}

// Equal compares the router id and every route.
func (t *RouteTable) Equal(other *RouteTable) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.id != other.id || len(t.routes) != len(other.routes) {
		return false
	}
	for prefix, route := range t.routes {
		if !route.Equal(other.routes[prefix]) {
			return false
		}
	}
	return true
}

// RouteTableMap is the per-router route table collection of a SwitchState.
// It is owned opaquely by the state; only the route-update engine builds
// new instances.
type RouteTableMap map[RouterID]*RouteTable

// Table returns the table for the router, or nil.
func (m RouteTableMap) Table(id RouterID) *RouteTable { return m[id] }

func (m RouteTableMap) Size() int { return len(m) }

// RouterIDs returns the router ids in ascending order.
func (m RouteTableMap) RouterIDs() []RouterID {
	out := make([]RouterID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares the two maps table by table.
func (m RouteTableMap) Equal(other RouteTableMap) bool {
	if len(m) != len(other) {
		return false
	}
	for id, table := range m {
		if !table.Equal(other[id]) {
			return false
		}
	}
	return true
}
