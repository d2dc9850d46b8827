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
	"sort"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// vlanIpInfo remembers how one IP is advertised on a VLAN, so a second
// interface advertising the same IP can be checked for consistency.
type vlanIpInfo struct {
	mask uint8
	mac  state.Mac
	intf state.InterfaceID
}

// vlanIntfInfo is the per-VLAN interface index: the single virtual router
// of the VLAN, the interfaces attached to it in ascending id order, and
// every address answered on it.
type vlanIntfInfo struct {
	routerID   state.RouterID
	interfaces []state.InterfaceID
	addresses  map[netip.Addr]vlanIpInfo
}

// processVlanPorts builds the bidirectional port/VLAN membership indices
// from the config's vlanPorts list. The config carries this data as a flat
// list, but the state tree stores it on both the ports and the VLANs.
func (r *applier) processVlanPorts() error {
	for _, vp := range r.cfg.VlanPorts {
		portID := state.PortID(vp.LogicalPort)
		vlanID := state.VlanID(vp.VlanID)

		portEntry := r.portVlans[portID]
		if portEntry == nil {
			portEntry = state.VlanMembership{}
			r.portVlans[portID] = portEntry
		}
		if _, ok := portEntry[vlanID]; ok {
			return errors.Errorf("duplicate VlanPort for port %d, vlan %d",
				portID, vlanID)
		}
		portEntry[vlanID] = state.VlanInfo{Tagged: vp.EmitTags}

		vlanEntry := r.vlanPorts[vlanID]
		if vlanEntry == nil {
			vlanEntry = state.MemberPorts{}
			r.vlanPorts[vlanID] = vlanEntry
		}
		if _, ok := vlanEntry[portID]; ok {
			// Cannot happen once the first insert succeeded.
			return errors.Errorf("duplicate VlanPort for vlan %d, port %d",
				vlanID, portID)
		}
		vlanEntry[portID] = state.PortInfo{Tagged: vp.EmitTags}
	}
	return nil
}

// updateVlanInterfaces folds one processed interface into the per-VLAN
// index, enforcing the one-router-per-VLAN and address-consistency
// invariants and always adding the derived IPv6 link-local address.
func (r *applier) updateVlanInterfaces(intf *state.Interface) error {
	entry := r.vlanInterfaces[intf.VlanID()]
	if entry == nil {
		entry = &vlanIntfInfo{addresses: map[netip.Addr]vlanIpInfo{}}
		r.vlanInterfaces[intf.VlanID()] = entry
	}

	// Each VLAN can only be used with a single virtual router.
	if len(entry.interfaces) == 0 {
		entry.routerID = intf.RouterID()
	} else if intf.RouterID() != entry.routerID {
		return errors.Errorf(
			"VLAN %d configured in multiple different virtual routers: %d and %d",
			intf.VlanID(), entry.routerID, intf.RouterID())
	}

	idx := sort.Search(len(entry.interfaces), func(i int) bool {
		return entry.interfaces[i] >= intf.ID()
	})
	if idx < len(entry.interfaces) && entry.interfaces[idx] == intf.ID() {
		// Cannot happen: updateInterfaces visits each id once.
		return errors.Errorf("interface %d processed twice for VLAN %d",
			intf.ID(), intf.VlanID())
	}
	entry.interfaces = append(entry.interfaces, 0)
	copy(entry.interfaces[idx+1:], entry.interfaces[idx:])
	entry.interfaces[idx] = intf.ID()

	for addr, mask := range intf.Addresses() {
		info := vlanIpInfo{mask: mask, mac: intf.Mac(), intf: intf.ID()}
		old, ok := entry.addresses[addr]
		if !ok {
			entry.addresses[addr] = info
			continue
		}
		// Multiple interfaces on the same VLAN may share an IP as long as
		// they agree on the mask and MAC.
		if old.mask != info.mask {
			return errors.Errorf(
				"VLAN %d has IP %s configured multiple times with different masks (%d and %d)",
				intf.VlanID(), addr, old.mask, info.mask)
		}
		if old.mac != info.mac {
			return errors.Errorf(
				"VLAN %d has IP %s configured multiple times with different MACs (%s and %s)",
				intf.VlanID(), addr, old.mac, info.mac)
		}
	}

	// Also answer for the derived IPv6 link-local address.
	linkLocal := intf.Mac().LinkLocalAddr()
	if _, ok := entry.addresses[linkLocal]; !ok {
		entry.addresses[linkLocal] = vlanIpInfo{
			mask: state.LinkLocalMask,
			mac:  intf.Mac(),
			intf: intf.ID(),
		}
	}
	return nil
}

func sortedVlanIDs(m map[state.VlanID]*vlanIntfInfo) []state.VlanID {
	out := make([]state.VlanID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
