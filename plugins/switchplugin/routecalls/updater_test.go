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

package routecalls_test

import (
	"net/netip"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/routecalls"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

func connectedEntry(nhop string, intf state.InterfaceID) *state.RouteNextHopEntry {
	return &state.RouteNextHopEntry{
		Action:   state.ForwardNextHops,
		Distance: state.AdminDirectlyConnected,
		NextHops: []state.NextHop{
			state.ResolvedNextHop(netip.MustParseAddr(nhop), intf, state.UcmpDefaultWeight),
		},
	}
}

func TestUpdaterAddAndDone(t *testing.T) {
	RegisterTestingT(t)

	updater := routecalls.NewUpdater(state.RouteTableMap{})
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	updater.AddRoute(0, prefix, state.ClientInterfaceRoute, connectedEntry("10.0.0.1", 100))
	updater.AddLinkLocalRoutes(0)

	tables, err := updater.Done()
	Expect(err).To(BeNil())
	Expect(tables).ToNot(BeNil())

	table := tables.Table(0)
	Expect(table.Size()).To(Equal(2))
	Expect(table.Route(prefix)).ToNot(BeNil())
	Expect(table.Route(routecalls.LinkLocalPrefix)).ToNot(BeNil())
}

func TestUpdaterNoopBatch(t *testing.T) {
	RegisterTestingT(t)

	updater := routecalls.NewUpdater(state.RouteTableMap{})
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	updater.AddRoute(0, prefix, state.ClientInterfaceRoute, connectedEntry("10.0.0.1", 100))
	tables, err := updater.Done()
	Expect(err).To(BeNil())

	// An empty batch over existing tables is a no-op.
	updater = routecalls.NewUpdater(tables)
	result, err := updater.Done()
	Expect(err).To(BeNil())
	Expect(result).To(BeNil())

	// So is a withdraw/re-install of an identical route.
	updater = routecalls.NewUpdater(tables)
	updater.DelRoute(0, prefix, state.ClientInterfaceRoute)
	updater.AddRoute(0, prefix, state.ClientInterfaceRoute, connectedEntry("10.0.0.1", 100))
	result, err = updater.Done()
	Expect(err).To(BeNil())
	Expect(result).To(BeNil())
}

func TestUpdaterSharesUntouchedRoutes(t *testing.T) {
	RegisterTestingT(t)

	updater := routecalls.NewUpdater(state.RouteTableMap{})
	keep := netip.MustParsePrefix("10.0.0.0/24")
	updater.AddRoute(0, keep, state.ClientInterfaceRoute, connectedEntry("10.0.0.1", 100))
	tables, err := updater.Done()
	Expect(err).To(BeNil())

	updater = routecalls.NewUpdater(tables)
	added := netip.MustParsePrefix("10.1.0.0/24")
	updater.AddRoute(0, added, state.ClientInterfaceRoute, connectedEntry("10.1.0.1", 101))
	next, err := updater.Done()
	Expect(err).To(BeNil())
	Expect(next).ToNot(BeNil())
	Expect(next.Table(0).Route(keep)).To(BeIdenticalTo(tables.Table(0).Route(keep)))
	Expect(tables.Table(0).Route(added)).To(BeNil())
}

func TestUpdaterDeletesEmptyTable(t *testing.T) {
	RegisterTestingT(t)

	updater := routecalls.NewUpdater(state.RouteTableMap{})
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	updater.AddRoute(0, prefix, state.ClientInterfaceRoute, connectedEntry("10.0.0.1", 100))
	tables, _ := updater.Done()

	updater = routecalls.NewUpdater(tables)
	updater.DelRoute(0, prefix, state.ClientInterfaceRoute)
	next, err := updater.Done()
	Expect(err).To(BeNil())
	Expect(next).ToNot(BeNil())
	Expect(next.Table(0)).To(BeNil())
}

func TestUpdaterKeepsOtherClients(t *testing.T) {
	RegisterTestingT(t)

	prefix := netip.MustParsePrefix("10.0.0.0/24")
	updater := routecalls.NewUpdater(state.RouteTableMap{})
	updater.AddRoute(0, prefix, state.ClientInterfaceRoute, connectedEntry("10.0.0.1", 100))
	updater.AddRoute(0, prefix, state.ClientStaticRoute, &state.RouteNextHopEntry{
		Action:   state.ForwardDrop,
		Distance: state.AdminMaxDistance,
	})
	tables, _ := updater.Done()

	updater = routecalls.NewUpdater(tables)
	updater.DelRoute(0, prefix, state.ClientStaticRoute)
	next, err := updater.Done()
	Expect(err).To(BeNil())

	route := next.Table(0).Route(prefix)
	Expect(route).ToNot(BeNil())
	Expect(route.EntryFor(state.ClientStaticRoute)).To(BeNil())
	Expect(route.EntryFor(state.ClientInterfaceRoute)).ToNot(BeNil())

	// The original route node was not touched.
	orig := tables.Table(0).Route(prefix)
	Expect(orig.EntryFor(state.ClientStaticRoute)).ToNot(BeNil())
}

func TestUpdaterStaticRoutes(t *testing.T) {
	RegisterTestingT(t)

	cfg := model.NewSwitchConfig()
	cfg.StaticRoutesWithNhops = []model.StaticRouteWithNextHops{{
		RouterID: 0, Prefix: "10.10.0.0/16", Nexthops: []string{"10.0.0.2"},
	}}
	cfg.StaticRoutesToNull = []model.StaticRouteNoNextHops{{
		RouterID: 0, Prefix: "192.0.2.0/24",
	}}

	updater := routecalls.NewUpdater(state.RouteTableMap{})
	Expect(updater.UpdateStaticRoutes(cfg, nil)).To(Succeed())
	tables, err := updater.Done()
	Expect(err).To(BeNil())

	table := tables.Table(0)
	Expect(table.Size()).To(Equal(2))
	Expect(table.Route(netip.MustParsePrefix("192.0.2.0/24")).
		EntryFor(state.ClientStaticRoute).Action).To(Equal(state.ForwardDrop))

	// Replacing the config withdraws routes no longer listed.
	next := model.NewSwitchConfig()
	next.StaticRoutesToNull = cfg.StaticRoutesToNull

	updater = routecalls.NewUpdater(tables)
	Expect(updater.UpdateStaticRoutes(next, cfg)).To(Succeed())
	pruned, err := updater.Done()
	Expect(err).To(BeNil())
	Expect(pruned.Table(0).Size()).To(Equal(1))
}

func TestUpdaterRejectsBadStaticRoute(t *testing.T) {
	RegisterTestingT(t)

	cfg := model.NewSwitchConfig()
	cfg.StaticRoutesWithNhops = []model.StaticRouteWithNextHops{{
		RouterID: 0, Prefix: "not-a-prefix", Nexthops: []string{"10.0.0.2"},
	}}

	updater := routecalls.NewUpdater(state.RouteTableMap{})
	Expect(updater.UpdateStaticRoutes(cfg, nil)).ToNot(Succeed())

	cfg.StaticRoutesWithNhops[0].Prefix = "10.10.0.0/16"
	cfg.StaticRoutesWithNhops[0].Nexthops = []string{"bogus"}
	updater = routecalls.NewUpdater(state.RouteTableMap{})
	Expect(updater.UpdateStaticRoutes(cfg, nil)).ToNot(Succeed())
}
