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

package routecalls

import (
	"net/netip"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// updater is the default in-memory route engine. It edits a clone-on-write
// view of the starting tables; untouched routes and tables keep their
// original nodes so the resulting map shares structure with its parent.
type updater struct {
	orig state.RouteTableMap
	ribs map[state.RouterID]*rib
	err  error
}

type rib struct {
	origTable *state.RouteTable
	routes    map[netip.Prefix]*ribRoute
	dirty     bool
}

type ribRoute struct {
	orig    *state.Route
	entries map[state.RouteClient]*state.RouteNextHopEntry
	dirty   bool
}

// NewUpdater opens an update batch over the given route tables.
func NewUpdater(tables state.RouteTableMap) Updater {
	u := &updater{
		orig: tables,
		ribs: make(map[state.RouterID]*rib, len(tables)),
	}
	for id, table := range tables {
		r := &rib{
			origTable: table,
			routes:    make(map[netip.Prefix]*ribRoute, table.Size()),
		}
		for prefix, route := range table.Routes() {
			r.routes[prefix] = &ribRoute{orig: route, entries: route.Entries()}
		}
		u.ribs[id] = r
	}
	return u
}

func (u *updater) getRib(router state.RouterID) *rib {
	r, ok := u.ribs[router]
	if !ok {
		r = &rib{routes: map[netip.Prefix]*ribRoute{}, dirty: true}
		u.ribs[router] = r
	}
	return r
}

func (u *updater) AddRoute(router state.RouterID, prefix netip.Prefix,
	client state.RouteClient, entry *state.RouteNextHopEntry) {

	r := u.getRib(router)
	route, ok := r.routes[prefix]
	if !ok {
		route = &ribRoute{entries: map[state.RouteClient]*state.RouteNextHopEntry{}, dirty: true}
		if r.origTable != nil {
			route.orig = r.origTable.Route(prefix)
		}
		r.routes[prefix] = route
		r.dirty = true
	}
	if old, ok := route.entries[client]; ok && old.Equal(entry) {
		return
	}
	route.mutable()[client] = entry
	route.dirty = true
	r.dirty = true
}

func (u *updater) DelRoute(router state.RouterID, prefix netip.Prefix,
	client state.RouteClient) {

	r, ok := u.ribs[router]
	if !ok {
		return
	}
	route, ok := r.routes[prefix]
	if !ok {
		return
	}
	if _, ok := route.entries[client]; !ok {
		return
	}
	delete(route.mutable(), client)
	route.dirty = true
	r.dirty = true
	if len(route.entries) == 0 {
		delete(r.routes, prefix)
	}
}

func (u *updater) AddLinkLocalRoutes(router state.RouterID) {
	u.AddRoute(router, LinkLocalPrefix, state.ClientInterfaceRoute,
		&state.RouteNextHopEntry{
			Action:   state.ForwardToCpu,
			Distance: state.AdminDirectlyConnected,
		})
}

func (u *updater) DelLinkLocalRoutes(router state.RouterID) {
	u.DelRoute(router, LinkLocalPrefix, state.ClientInterfaceRoute)
}

func (u *updater) UpdateStaticRoutes(cfg, prevCfg *model.SwitchConfig) error {
	if prevCfg != nil {
		for _, route := range prevCfg.StaticRoutesWithNhops {
			u.delStaticRoute(route.RouterID, route.Prefix)
		}
		for _, route := range prevCfg.StaticRoutesToNull {
			u.delStaticRoute(route.RouterID, route.Prefix)
		}
		for _, route := range prevCfg.StaticRoutesToCpu {
			u.delStaticRoute(route.RouterID, route.Prefix)
		}
	}
	if cfg == nil {
		return u.err
	}
	for _, route := range cfg.StaticRoutesWithNhops {
		nhops := make([]state.NextHop, 0, len(route.Nexthops))
		for _, nhop := range route.Nexthops {
			addr, err := netip.ParseAddr(nhop)
			if err != nil {
				return errors.Wrapf(err, "invalid static route next hop %q", nhop)
			}
			nhops = append(nhops, state.NextHop{Addr: addr, Weight: state.UcmpDefaultWeight})
		}
		u.addStaticRoute(route.RouterID, route.Prefix, &state.RouteNextHopEntry{
			Action:   state.ForwardNextHops,
			Distance: state.AdminMaxDistance,
			NextHops: nhops,
		})
	}
	for _, route := range cfg.StaticRoutesToNull {
		u.addStaticRoute(route.RouterID, route.Prefix, &state.RouteNextHopEntry{
			Action:   state.ForwardDrop,
			Distance: state.AdminMaxDistance,
		})
	}
	for _, route := range cfg.StaticRoutesToCpu {
		u.addStaticRoute(route.RouterID, route.Prefix, &state.RouteNextHopEntry{
			Action:   state.ForwardToCpu,
			Distance: state.AdminMaxDistance,
		})
	}
	return u.err
}

func (u *updater) addStaticRoute(router int, prefix string, entry *state.RouteNextHopEntry) {
	p, err := parsePrefix(prefix)
	if err != nil {
		u.fail(err)
		return
	}
	u.AddRoute(state.RouterID(router), p, state.ClientStaticRoute, entry)
}

func (u *updater) delStaticRoute(router int, prefix string) {
	p, err := parsePrefix(prefix)
	if err != nil {
		u.fail(err)
		return
	}
	u.DelRoute(state.RouterID(router), p, state.ClientStaticRoute)
}

func (u *updater) fail(err error) {
	if u.err == nil {
		u.err = err
	}
}

// Done rebuilds the table map from the accumulated edits. Comparison is
// structural, not op-based: a route that was withdrawn and re-installed
// identically keeps its original node, and a batch whose edits cancel out
// finalizes as a no-op.
func (u *updater) Done() (state.RouteTableMap, error) {
	if u.err != nil {
		return nil, u.err
	}
	changed := false
	newTables := make(state.RouteTableMap, len(u.ribs))
	for id, r := range u.ribs {
		if len(r.routes) == 0 {
			if r.origTable != nil {
				changed = true
			}
			continue
		}
		tableChanged := false
		routes := make(map[netip.Prefix]*state.Route, len(r.routes))
		for prefix, route := range r.routes {
			if !route.dirty && route.orig != nil {
				routes[prefix] = route.orig
				continue
			}
			n := state.NewRoute(prefix)
			for client, entry := range route.entries {
				n.SetEntry(client, entry)
			}
			if route.orig != nil && route.orig.Equal(n) {
				routes[prefix] = route.orig
				continue
			}
			routes[prefix] = n
			tableChanged = true
		}
		if !tableChanged && r.origTable != nil &&
			len(routes) == r.origTable.Size() {
			newTables[id] = r.origTable
			continue
		}
		changed = true
		if r.origTable != nil {
			newTables[id] = r.origTable.CloneWith(routes)
		} else {
			t := state.NewRouteTable(id)
			for prefix, route := range routes {
				t.Routes()[prefix] = route
			}
			newTables[id] = t
		}
	}
	if !changed {
		return nil, nil
	}
	return newTables, nil
}

// mutable detaches the entry map from the original route before the first
// write, so routes reachable from the starting tables are never edited.
func (r *ribRoute) mutable() map[state.RouteClient]*state.RouteNextHopEntry {
	if r.orig != nil && !r.dirty {
		detached := make(map[state.RouteClient]*state.RouteNextHopEntry, len(r.entries))
		for client, entry := range r.entries {
			detached[client] = entry
		}
		r.entries = detached
	}
	return r.entries
}

func parsePrefix(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, errors.Wrapf(err, "invalid route prefix %q", s)
	}
	return p.Masked(), nil
}
