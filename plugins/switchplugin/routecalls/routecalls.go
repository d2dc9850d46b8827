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

// Package routecalls is the contract between the configuration applier and
// the route-update engine. The applier batches route intents against an
// Updater and finalizes with Done, which either returns a fresh route table
// map or nil when nothing changed. The batching style fits synchronous and
// asynchronous engines alike.
package routecalls

import (
	"net/netip"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// LinkLocalPrefix is the IPv6 link-local network installed per router.
var LinkLocalPrefix = netip.PrefixFrom(
	netip.AddrFrom16([16]byte{0xfe, 0x80}), 64)

// Updater accumulates route changes against a starting route table map.
type Updater interface {
	// AddRoute installs or replaces the client's entry for the prefix.
	// The prefix must be in masked (network) form.
	AddRoute(router state.RouterID, prefix netip.Prefix,
		client state.RouteClient, entry *state.RouteNextHopEntry)

	// DelRoute removes the client's entry for the prefix. Deleting a route
	// that is not present is a no-op.
	DelRoute(router state.RouterID, prefix netip.Prefix, client state.RouteClient)

	// AddLinkLocalRoutes installs the IPv6 link-local network for a router.
	AddLinkLocalRoutes(router state.RouterID)

	// DelLinkLocalRoutes removes the IPv6 link-local network of a router.
	DelLinkLocalRoutes(router state.RouterID)

	// UpdateStaticRoutes diffs the static routes of the two configs:
	// entries present only in prevCfg are withdrawn, entries in cfg are
	// (re)installed.
	UpdateStaticRoutes(cfg, prevCfg *model.SwitchConfig) error

	// Done finalizes the batch. It returns a new route table map sharing
	// unchanged tables and routes with the starting map, or nil when the
	// batch was a no-op.
	Done() (state.RouteTableMap, error)
}

// UpdaterFactory opens a new update batch over the given tables.
type UpdaterFactory func(tables state.RouteTableMap) Updater
