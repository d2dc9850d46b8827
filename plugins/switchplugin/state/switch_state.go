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
	"time"
)

// SwitchState is the root of the immutable state tree. Clone shares every
// child collection with the original; the Reset* methods swap a collection
// in wholesale, so an unchanged family stays the same object across states.
type SwitchState struct {
	nodeBase

	ports           PortMap
	vlans           VlanMap
	interfaces      InterfaceMap
	acls            *AclMap
	aggregatePorts  AggregatePortMap
	sflowCollectors SflowCollectorMap
	routeTables     RouteTableMap
	loadBalancers   LoadBalancerMap
	controlPlane    *ControlPlane

	defaultVlan        VlanID
	arpAgerInterval    time.Duration
	arpTimeout         time.Duration
	ndpTimeout         time.Duration
	maxNeighborProbes  uint32
	staleEntryInterval time.Duration

	dhcpV4RelaySrc netip.Addr
	dhcpV6RelaySrc netip.Addr
	dhcpV4ReplySrc netip.Addr
	dhcpV6ReplySrc netip.Addr
}

// NewSwitchState creates an empty state with the neighbor-management
// defaults the daemon boots with.
func NewSwitchState() *SwitchState {
	return &SwitchState{
		ports:              PortMap{},
		vlans:              VlanMap{},
		interfaces:         InterfaceMap{},
		acls:               NewAclMap(),
		aggregatePorts:     AggregatePortMap{},
		sflowCollectors:    SflowCollectorMap{},
		routeTables:        RouteTableMap{},
		loadBalancers:      LoadBalancerMap{},
		controlPlane:       NewControlPlane(),
		arpAgerInterval:    5 * time.Second,
		arpTimeout:         60 * time.Second,
		ndpTimeout:         60 * time.Second,
		maxNeighborProbes:  300,
		staleEntryInterval: 10 * time.Second,
		dhcpV4RelaySrc:     netip.IPv4Unspecified(),
		dhcpV6RelaySrc:     netip.IPv6Unspecified(),
		dhcpV4ReplySrc:     netip.IPv4Unspecified(),
		dhcpV6ReplySrc:     netip.IPv6Unspecified(),
	}
}

func (s *SwitchState) Ports() PortMap                     { return s.ports }
func (s *SwitchState) Vlans() VlanMap                     { return s.vlans }
func (s *SwitchState) Interfaces() InterfaceMap           { return s.interfaces }
func (s *SwitchState) Acls() *AclMap                      { return s.acls }
func (s *SwitchState) AggregatePorts() AggregatePortMap   { return s.aggregatePorts }
func (s *SwitchState) SflowCollectors() SflowCollectorMap { return s.sflowCollectors }
func (s *SwitchState) RouteTables() RouteTableMap         { return s.routeTables }
func (s *SwitchState) LoadBalancers() LoadBalancerMap     { return s.loadBalancers }
func (s *SwitchState) ControlPlane() *ControlPlane        { return s.controlPlane }

func (s *SwitchState) DefaultVlan() VlanID                { return s.defaultVlan }
func (s *SwitchState) ArpAgerInterval() time.Duration     { return s.arpAgerInterval }
func (s *SwitchState) ArpTimeout() time.Duration          { return s.arpTimeout }
func (s *SwitchState) NdpTimeout() time.Duration          { return s.ndpTimeout }
func (s *SwitchState) MaxNeighborProbes() uint32          { return s.maxNeighborProbes }
func (s *SwitchState) StaleEntryInterval() time.Duration  { return s.staleEntryInterval }
func (s *SwitchState) DhcpV4RelaySrc() netip.Addr         { return s.dhcpV4RelaySrc }
func (s *SwitchState) DhcpV6RelaySrc() netip.Addr         { return s.dhcpV6RelaySrc }
func (s *SwitchState) DhcpV4ReplySrc() netip.Addr         { return s.dhcpV4ReplySrc }
func (s *SwitchState) DhcpV6ReplySrc() netip.Addr         { return s.dhcpV6ReplySrc }

// Clone returns a copy sharing all child collections until one is swapped
// with a Reset* call.
func (s *SwitchState) Clone() *SwitchState {
	c := *s
	c.bumpGeneration(s.nodeBase)
	return &c
}

func (s *SwitchState) ResetPorts(m PortMap)                      { s.ports = m }
func (s *SwitchState) ResetVlans(m VlanMap)                      { s.vlans = m }
func (s *SwitchState) ResetInterfaces(m InterfaceMap)            { s.interfaces = m }
func (s *SwitchState) ResetAcls(m *AclMap)                       { s.acls = m }
func (s *SwitchState) ResetAggregatePorts(m AggregatePortMap)    { s.aggregatePorts = m }
func (s *SwitchState) ResetSflowCollectors(m SflowCollectorMap)  { s.sflowCollectors = m }
func (s *SwitchState) ResetRouteTables(m RouteTableMap)          { s.routeTables = m }
func (s *SwitchState) ResetLoadBalancers(m LoadBalancerMap)      { s.loadBalancers = m }
func (s *SwitchState) ResetControlPlane(c *ControlPlane)         { s.controlPlane = c }

func (s *SwitchState) SetDefaultVlan(v VlanID)                  { s.defaultVlan = v }
func (s *SwitchState) SetArpAgerInterval(d time.Duration)       { s.arpAgerInterval = d }
func (s *SwitchState) SetArpTimeout(d time.Duration)            { s.arpTimeout = d }
func (s *SwitchState) SetNdpTimeout(d time.Duration)            { s.ndpTimeout = d }
func (s *SwitchState) SetMaxNeighborProbes(n uint32)            { s.maxNeighborProbes = n }
func (s *SwitchState) SetStaleEntryInterval(d time.Duration)    { s.staleEntryInterval = d }
func (s *SwitchState) SetDhcpV4RelaySrc(a netip.Addr)           { s.dhcpV4RelaySrc = a }
func (s *SwitchState) SetDhcpV6RelaySrc(a netip.Addr)           { s.dhcpV6RelaySrc = a }
func (s *SwitchState) SetDhcpV4ReplySrc(a netip.Addr)           { s.dhcpV4ReplySrc = a }
func (s *SwitchState) SetDhcpV6ReplySrc(a netip.Addr)           { s.dhcpV6ReplySrc = a }

// Equal compares every field of the two states, including all children.
func (s *SwitchState) Equal(other *SwitchState) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ports.Equal(other.ports) &&
		s.vlans.Equal(other.vlans) &&
		s.interfaces.Equal(other.interfaces) &&
		s.acls.Equal(other.acls) &&
		s.aggregatePorts.Equal(other.aggregatePorts) &&
		s.sflowCollectors.Equal(other.sflowCollectors) &&
		s.routeTables.Equal(other.routeTables) &&
		s.loadBalancers.Equal(other.loadBalancers) &&
		s.controlPlane.Equal(other.controlPlane) &&
		s.defaultVlan == other.defaultVlan &&
		s.arpAgerInterval == other.arpAgerInterval &&
		s.arpTimeout == other.arpTimeout &&
		s.ndpTimeout == other.ndpTimeout &&
		s.maxNeighborProbes == other.maxNeighborProbes &&
		s.staleEntryInterval == other.staleEntryInterval &&
		s.dhcpV4RelaySrc == other.dhcpV4RelaySrc &&
		s.dhcpV6RelaySrc == other.dhcpV6RelaySrc &&
		s.dhcpV4ReplySrc == other.dhcpV4ReplySrc &&
		s.dhcpV6ReplySrc == other.dhcpV6ReplySrc
}
