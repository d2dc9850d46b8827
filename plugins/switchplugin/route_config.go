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

package switchplugin

import (
	"net/netip"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// updateInterfaceRoutes synthesizes the connected routes from the interface
// route tables: install every network an interface now advertises, withdraw
// every network only the previous state advertised, and keep the per-router
// IPv6 link-local networks in step with the set of routers in use.
func (r *applier) updateInterfaceRoutes() (state.RouteTableMap, error) {
	updater := r.newRouteUpdater(r.orig.RouteTables())

	newToAddTables := map[state.RouterID]bool{}
	for routerID, table := range r.intfRouteTables {
		for prefix, entry := range table {
			nhop := state.ResolvedNextHop(entry.addr, entry.intf, state.UcmpDefaultWeight)
			updater.AddRoute(routerID, prefix, state.ClientInterfaceRoute,
				&state.RouteNextHopEntry{
					Action:   state.ForwardNextHops,
					Distance: state.AdminDirectlyConnected,
					NextHops: []state.NextHop{nhop},
				})
		}
		newToAddTables[routerID] = true
	}

	// Walk the previous interfaces and withdraw every connected network
	// that did not survive into the new tables.
	oldToDeleteTables := map[state.RouterID]bool{}
	for _, intfID := range r.orig.Interfaces().IDs() {
		intf := r.orig.Interfaces().Interface(intfID)
		routerID := intf.RouterID()
		newTable, routerSurvives := r.intfRouteTables[routerID]
		if !routerSurvives {
			// The router itself is gone; its link-local network goes too.
			oldToDeleteTables[routerID] = true
		}
		for addr, mask := range intf.Addresses() {
			prefix := netip.PrefixFrom(addr, int(mask)).Masked()
			found := false
			if routerSurvives {
				_, found = newTable[prefix]
			}
			if !found {
				updater.DelRoute(routerID, prefix, state.ClientInterfaceRoute)
			}
		}
	}

	for routerID := range oldToDeleteTables {
		updater.DelLinkLocalRoutes(routerID)
	}
	for routerID := range newToAddTables {
		updater.AddLinkLocalRoutes(routerID)
	}

	return updater.Done()
}

// updateStaticRoutes applies the config's static routes on top of the
// tables produced by the interface-route step.
func (r *applier) updateStaticRoutes(current state.RouteTableMap) (state.RouteTableMap, error) {
	updater := r.newRouteUpdater(current)
	if err := updater.UpdateStaticRoutes(r.cfg, r.prevCfg); err != nil {
		return nil, err
	}
	return updater.Done()
}
