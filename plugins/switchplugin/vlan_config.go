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
	"maps"
	"net/netip"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// updateVlans diffs the configured VLANs against the previous state,
// refreshing port membership from the vlanPorts index and the derived
// neighbor and DHCP tables from the interface index.
func (r *applier) updateVlans() (state.VlanMap, error) {
	origVlans := r.orig.Vlans()
	newVlans := state.VlanMap{}
	changed := false

	numExistingProcessed := 0
	for i := range r.cfg.Vlans {
		vlanCfg := &r.cfg.Vlans[i]
		id := state.VlanID(vlanCfg.ID)
		origVlan := origVlans.Vlan(id)

		var newVlan *state.Vlan
		var err error
		if origVlan != nil {
			newVlan, err = r.updateVlan(origVlan, vlanCfg)
			numExistingProcessed++
		} else {
			newVlan, err = r.createVlan(vlanCfg)
		}
		if err != nil {
			return nil, err
		}

		ch, err := putNode(newVlans, id, origVlan, newVlan)
		if err != nil {
			return nil, err
		}
		changed = changed || ch
	}

	if numExistingProcessed != origVlans.Size() {
		// Some existing VLANs were removed.
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return newVlans, nil
}

func (r *applier) createVlan(vlanCfg *model.Vlan) (*state.Vlan, error) {
	id := state.VlanID(vlanCfg.ID)
	vlan := state.NewVlan(id, vlanCfg.Name, r.vlanPorts[id])
	if _, err := r.updateNeighborResponseTables(vlan, vlanCfg); err != nil {
		return nil, err
	}
	if _, err := r.updateDhcpOverrides(vlan, vlanCfg); err != nil {
		return nil, err
	}
	dhcpV4Relay, dhcpV6Relay, err := parseDhcpRelays(vlanCfg)
	if err != nil {
		return nil, err
	}
	vlan.SetDhcpV4Relay(dhcpV4Relay)
	vlan.SetDhcpV6Relay(dhcpV6Relay)
	vlan.SetInterfaceID(r.resolveVlanInterface(vlanCfg))
	return vlan, nil
}

func (r *applier) updateVlan(orig *state.Vlan, vlanCfg *model.Vlan) (*state.Vlan, error) {
	id := state.VlanID(vlanCfg.ID)
	ports := r.vlanPorts[id]
	if ports == nil {
		ports = state.MemberPorts{}
	}

	newVlan := orig.Clone()
	neighborsChanged, err := r.updateNeighborResponseTables(newVlan, vlanCfg)
	if err != nil {
		return nil, err
	}
	overridesChanged, err := r.updateDhcpOverrides(newVlan, vlanCfg)
	if err != nil {
		return nil, err
	}
	dhcpV4Relay, dhcpV6Relay, err := parseDhcpRelays(vlanCfg)
	if err != nil {
		return nil, err
	}
	newIntfID := r.resolveVlanInterface(vlanCfg)

	if orig.Name() == vlanCfg.Name &&
		orig.InterfaceID() == newIntfID &&
		maps.Equal(orig.Ports(), ports) &&
		orig.DhcpV4Relay() == dhcpV4Relay &&
		orig.DhcpV6Relay() == dhcpV6Relay &&
		!neighborsChanged && !overridesChanged {
		return nil, nil
	}

	newVlan.SetName(vlanCfg.Name)
	newVlan.SetInterfaceID(newIntfID)
	newVlan.SetPorts(ports)
	newVlan.SetDhcpV4Relay(dhcpV4Relay)
	newVlan.SetDhcpV6Relay(dhcpV6Relay)
	return newVlan, nil
}

// resolveVlanInterface picks the VLAN's interface id: the explicit config
// value when present, otherwise the lowest interface attached to the VLAN,
// otherwise zero.
func (r *applier) resolveVlanInterface(vlanCfg *model.Vlan) state.InterfaceID {
	if vlanCfg.IntfID != nil {
		return state.InterfaceID(*vlanCfg.IntfID)
	}
	if entry := r.vlanInterfaces[state.VlanID(vlanCfg.ID)]; entry != nil &&
		len(entry.interfaces) > 0 {
		return entry.interfaces[0]
	}
	return 0
}

// updateNeighborResponseTables rebuilds the VLAN's ARP and NDP proxy tables
// from the interface index and swaps them into the (cloned) vlan if they
// differ. It reports whether either table changed.
func (r *applier) updateNeighborResponseTables(vlan *state.Vlan,
	vlanCfg *model.Vlan) (bool, error) {

	arpTable := state.ArpResponseTable{}
	ndpTable := state.NdpResponseTable{}

	if entry := r.vlanInterfaces[state.VlanID(vlanCfg.ID)]; entry != nil {
		for addr, info := range entry.addresses {
			responseEntry := state.NeighborResponseEntry{
				Mac:       info.mac,
				Interface: info.intf,
			}
			if addr.Is4() {
				arpTable[addr] = responseEntry
			} else {
				ndpTable[addr] = responseEntry
			}
		}
	}

	changed := false
	if !maps.Equal(vlan.ArpResponseTable(), arpTable) {
		vlan.SetArpResponseTable(arpTable)
		changed = true
	}
	if !maps.Equal(vlan.NdpResponseTable(), ndpTable) {
		vlan.SetNdpResponseTable(ndpTable)
		changed = true
	}
	return changed, nil
}

// updateDhcpOverrides rebuilds the per-client DHCP relay override maps from
// the config and swaps them into the (cloned) vlan if they differ.
func (r *applier) updateDhcpOverrides(vlan *state.Vlan, vlanCfg *model.Vlan) (bool, error) {
	newV4 := state.DhcpOverrideMap{}
	for macStr, ipStr := range vlanCfg.DhcpRelayOverridesV4 {
		mac, err := state.ParseMac(macStr)
		if err != nil {
			return false, errors.Wrap(err,
				"invalid MAC address in DHCPv4 relay override map")
		}
		addr, err := netip.ParseAddr(ipStr)
		if err != nil || !addr.Is4() {
			return false, errors.Errorf(
				"invalid IPv4 address in DHCPv4 relay override map: %s", ipStr)
		}
		newV4[mac] = addr
	}

	newV6 := state.DhcpOverrideMap{}
	for macStr, ipStr := range vlanCfg.DhcpRelayOverridesV6 {
		mac, err := state.ParseMac(macStr)
		if err != nil {
			return false, errors.Wrap(err,
				"invalid MAC address in DHCPv6 relay override map")
		}
		addr, err := netip.ParseAddr(ipStr)
		if err != nil || !addr.Is6() {
			return false, errors.Errorf(
				"invalid IPv6 address in DHCPv6 relay override map: %s", ipStr)
		}
		newV6[mac] = addr
	}

	changed := false
	if !maps.Equal(vlan.DhcpV4Overrides(), newV4) {
		vlan.SetDhcpV4Overrides(newV4)
		changed = true
	}
	if !maps.Equal(vlan.DhcpV6Overrides(), newV6) {
		vlan.SetDhcpV6Overrides(newV6)
		changed = true
	}
	return changed, nil
}

func parseDhcpRelays(vlanCfg *model.Vlan) (netip.Addr, netip.Addr, error) {
	dhcpV4Relay := netip.IPv4Unspecified()
	if vlanCfg.DhcpRelayAddressV4 != nil {
		addr, err := netip.ParseAddr(*vlanCfg.DhcpRelayAddressV4)
		if err != nil || !addr.Is4() {
			return netip.Addr{}, netip.Addr{}, errors.Errorf(
				"invalid DHCPv4 relay address %q on VLAN %d",
				*vlanCfg.DhcpRelayAddressV4, vlanCfg.ID)
		}
		dhcpV4Relay = addr
	}
	dhcpV6Relay := netip.IPv6Unspecified()
	if vlanCfg.DhcpRelayAddressV6 != nil {
		addr, err := netip.ParseAddr(*vlanCfg.DhcpRelayAddressV6)
		if err != nil || !addr.Is6() {
			return netip.Addr{}, netip.Addr{}, errors.Errorf(
				"invalid DHCPv6 relay address %q on VLAN %d",
				*vlanCfg.DhcpRelayAddressV6, vlanCfg.ID)
		}
		dhcpV6Relay = addr
	}
	return dhcpV4Relay, dhcpV6Relay, nil
}
