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
	"maps"
	"net/netip"
)

// PortInfo describes the membership of one port in a VLAN.
type PortInfo struct {
	Tagged bool
}

// MemberPorts maps the ports of a VLAN onto their tagging mode.
type MemberPorts map[PortID]PortInfo

// NeighborResponseEntry is the answer the switch gives for one IP when it
// proxies ARP or NDP on a VLAN.
type NeighborResponseEntry struct {
	Mac       Mac
	Interface InterfaceID
}

// ArpResponseTable holds the IPv4 addresses answered on a VLAN.
type ArpResponseTable map[netip.Addr]NeighborResponseEntry

// NdpResponseTable holds the IPv6 addresses answered on a VLAN, including
// the link-local address derived from the interface MAC.
type NdpResponseTable map[netip.Addr]NeighborResponseEntry

// DhcpOverrideMap maps a client MAC onto the relay used instead of the
// VLAN-wide DHCP relay address.
type DhcpOverrideMap map[Mac]netip.Addr

// Vlan is the state of one layer-2 broadcast domain.
type Vlan struct {
	nodeBase

	id     VlanID
	name   string
	intfID InterfaceID

	ports MemberPorts

	arpResponseTable ArpResponseTable
	ndpResponseTable NdpResponseTable

	dhcpV4Relay     netip.Addr
	dhcpV6Relay     netip.Addr
	dhcpV4Overrides DhcpOverrideMap
	dhcpV6Overrides DhcpOverrideMap
}

// NewVlan creates a VLAN with the given member ports and otherwise empty
// derived tables.
func NewVlan(id VlanID, name string, ports MemberPorts) *Vlan {
	if ports == nil {
		ports = MemberPorts{}
	}
	return &Vlan{
		id:               id,
		name:             name,
		ports:            ports,
		arpResponseTable: ArpResponseTable{},
		ndpResponseTable: NdpResponseTable{},
		dhcpV4Relay:      netip.IPv4Unspecified(),
		dhcpV6Relay:      netip.IPv6Unspecified(),
		dhcpV4Overrides:  DhcpOverrideMap{},
		dhcpV6Overrides:  DhcpOverrideMap{},
	}
}

func (v *Vlan) ID() VlanID                          { return v.id }
func (v *Vlan) Name() string                        { return v.name }
func (v *Vlan) InterfaceID() InterfaceID            { return v.intfID }
func (v *Vlan) Ports() MemberPorts                  { return v.ports }
func (v *Vlan) ArpResponseTable() ArpResponseTable  { return v.arpResponseTable }
func (v *Vlan) NdpResponseTable() NdpResponseTable  { return v.ndpResponseTable }
func (v *Vlan) DhcpV4Relay() netip.Addr             { return v.dhcpV4Relay }
func (v *Vlan) DhcpV6Relay() netip.Addr             { return v.dhcpV6Relay }
func (v *Vlan) DhcpV4Overrides() DhcpOverrideMap    { return v.dhcpV4Overrides }
func (v *Vlan) DhcpV6Overrides() DhcpOverrideMap    { return v.dhcpV6Overrides }

// Clone returns a field-equal copy sharing all child maps; setters replace
// the maps wholesale.
func (v *Vlan) Clone() *Vlan {
	c := *v
	c.bumpGeneration(v.nodeBase)
	return &c
}

func (v *Vlan) SetName(n string)                       { v.name = n }
func (v *Vlan) SetInterfaceID(id InterfaceID)          { v.intfID = id }
func (v *Vlan) SetPorts(p MemberPorts)                 { v.ports = p }
func (v *Vlan) SetArpResponseTable(t ArpResponseTable) { v.arpResponseTable = t }
func (v *Vlan) SetNdpResponseTable(t NdpResponseTable) { v.ndpResponseTable = t }
func (v *Vlan) SetDhcpV4Relay(a netip.Addr)            { v.dhcpV4Relay = a }
func (v *Vlan) SetDhcpV6Relay(a netip.Addr)            { v.dhcpV6Relay = a }
func (v *Vlan) SetDhcpV4Overrides(m DhcpOverrideMap)   { v.dhcpV4Overrides = m }
func (v *Vlan) SetDhcpV6Overrides(m DhcpOverrideMap)   { v.dhcpV6Overrides = m }

// Equal compares every field of the two VLANs.
func (v *Vlan) Equal(other *Vlan) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.id == other.id &&
		v.name == other.name &&
		v.intfID == other.intfID &&
		maps.Equal(v.ports, other.ports) &&
		maps.Equal(v.arpResponseTable, other.arpResponseTable) &&
		maps.Equal(v.ndpResponseTable, other.ndpResponseTable) &&
		v.dhcpV4Relay == other.dhcpV4Relay &&
		v.dhcpV6Relay == other.dhcpV6Relay &&
		maps.Equal(v.dhcpV4Overrides, other.dhcpV4Overrides) &&
		maps.Equal(v.dhcpV6Overrides, other.dhcpV6Overrides)
}
