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

// DefaultMtu is used when neither the config nor the platform supplies one.
const DefaultMtu = 1500

// Addresses maps every address of an interface onto its prefix length.
// The IPv6 link-local address derived from the interface MAC is always
// present with a /64.
type Addresses map[netip.Addr]uint8

// NdpConfig carries the router-advertisement parameters of an interface.
type NdpConfig struct {
	RouterAdvertisementSeconds     int
	CurHopLimit                    int
	RouterLifetimeSeconds          int
	PrefixValidLifetimeSeconds     int
	PrefixPreferredLifetimeSeconds int
}

// Interface is the state of one routed interface: a layer-3 attachment to a
// VLAN within a virtual router.
type Interface struct {
	nodeBase

	id                  InterfaceID
	routerID            RouterID
	vlanID              VlanID
	name                string
	mac                 Mac
	mtu                 int
	isVirtual           bool
	isStateSyncDisabled bool
	addresses           Addresses
	ndp                 NdpConfig
}

// NewInterface creates an interface with an empty address map.
func NewInterface(id InterfaceID, routerID RouterID, vlanID VlanID,
	name string, mac Mac, mtu int, isVirtual, isStateSyncDisabled bool) *Interface {

	return &Interface{
		id:                  id,
		routerID:            routerID,
		vlanID:              vlanID,
		name:                name,
		mac:                 mac,
		mtu:                 mtu,
		isVirtual:           isVirtual,
		isStateSyncDisabled: isStateSyncDisabled,
		addresses:           Addresses{},
	}
}

func (i *Interface) ID() InterfaceID           { return i.id }
func (i *Interface) RouterID() RouterID        { return i.routerID }
func (i *Interface) VlanID() VlanID            { return i.vlanID }
func (i *Interface) Name() string              { return i.name }
func (i *Interface) Mac() Mac                  { return i.mac }
func (i *Interface) Mtu() int                  { return i.mtu }
func (i *Interface) IsVirtual() bool           { return i.isVirtual }
func (i *Interface) IsStateSyncDisabled() bool { return i.isStateSyncDisabled }
func (i *Interface) Addresses() Addresses      { return i.addresses }
func (i *Interface) NdpConfig() NdpConfig      { return i.ndp }

// Clone returns a field-equal copy sharing the address map; SetAddresses
// replaces it wholesale.
func (i *Interface) Clone() *Interface {
	c := *i
	c.bumpGeneration(i.nodeBase)
	return &c
}

func (i *Interface) SetRouterID(r RouterID)          { i.routerID = r }
func (i *Interface) SetVlanID(v VlanID)              { i.vlanID = v }
func (i *Interface) SetName(n string)                { i.name = n }
func (i *Interface) SetMac(m Mac)                    { i.mac = m }
func (i *Interface) SetMtu(m int)                    { i.mtu = m }
func (i *Interface) SetIsVirtual(v bool)             { i.isVirtual = v }
func (i *Interface) SetIsStateSyncDisabled(d bool)   { i.isStateSyncDisabled = d }
func (i *Interface) SetAddresses(a Addresses)        { i.addresses = a }
func (i *Interface) SetNdpConfig(n NdpConfig)        { i.ndp = n }

// Equal compares every field of the two interfaces.
func (i *Interface) Equal(other *Interface) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.id == other.id &&
		i.routerID == other.routerID &&
		i.vlanID == other.vlanID &&
		i.name == other.name &&
		i.mac == other.mac &&
		i.mtu == other.mtu &&
		i.isVirtual == other.isVirtual &&
		i.isStateSyncDisabled == other.isStateSyncDisabled &&
		maps.Equal(i.addresses, other.addresses) &&
		i.ndp == other.ndp
}
