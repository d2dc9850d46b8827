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

import "maps"

// PortAdminState is the administratively requested state of a port.
type PortAdminState uint8

const (
	PortDisabled PortAdminState = iota
	PortEnabled
)

// PortFec is the forward error correction mode of a port.
type PortFec uint8

const (
	FecOff PortFec = iota
	FecOn
)

// PortPause is the flow-control pause configuration of a port.
type PortPause struct {
	Tx bool
	Rx bool
}

// VlanInfo describes how a port participates in one VLAN.
type VlanInfo struct {
	// Tagged is true when frames on this VLAN leave the port 802.1Q-tagged.
	Tagged bool
}

// VlanMembership maps every VLAN a port belongs to onto its tagging mode.
type VlanMembership map[VlanID]VlanInfo

// Port is the state of one physical port. The set of ports is fixed when the
// agent boots; configuration can reshape a port but never add or remove one.
type Port struct {
	nodeBase

	id               PortID
	name             string
	description      string
	adminState       PortAdminState
	ingressVlan      VlanID
	speedMbps        int
	pause            PortPause
	sflowIngressRate int64
	sflowEgressRate  int64
	fec              PortFec
	vlans            VlanMembership
	queues           []*PortQueue
}

// NewPort creates a disabled port with the given number of default queues.
func NewPort(id PortID, queueCount int) *Port {
	p := &Port{
		id:    id,
		vlans: VlanMembership{},
	}
	for i := 0; i < queueCount; i++ {
		p.queues = append(p.queues, NewPortQueue(uint8(i)))
	}
	return p
}

func (p *Port) ID() PortID                 { return p.id }
func (p *Port) Name() string               { return p.name }
func (p *Port) Description() string        { return p.description }
func (p *Port) AdminState() PortAdminState { return p.adminState }
func (p *Port) IngressVlan() VlanID        { return p.ingressVlan }
func (p *Port) SpeedMbps() int             { return p.speedMbps }
func (p *Port) Pause() PortPause           { return p.pause }
func (p *Port) SflowIngressRate() int64    { return p.sflowIngressRate }
func (p *Port) SflowEgressRate() int64     { return p.sflowEgressRate }
func (p *Port) Fec() PortFec               { return p.fec }
func (p *Port) Vlans() VlanMembership      { return p.vlans }
func (p *Port) Queues() []*PortQueue       { return p.queues }

// Clone returns a field-equal copy sharing the vlans map and queue slice;
// setters replace those members wholesale rather than mutating them.
func (p *Port) Clone() *Port {
	c := *p
	c.bumpGeneration(p.nodeBase)
	return &c
}

func (p *Port) SetName(n string)                 { p.name = n }
func (p *Port) SetDescription(d string)          { p.description = d }
func (p *Port) SetAdminState(s PortAdminState)   { p.adminState = s }
func (p *Port) SetIngressVlan(v VlanID)          { p.ingressVlan = v }
func (p *Port) SetSpeedMbps(s int)               { p.speedMbps = s }
func (p *Port) SetPause(pa PortPause)            { p.pause = pa }
func (p *Port) SetSflowIngressRate(r int64)      { p.sflowIngressRate = r }
func (p *Port) SetSflowEgressRate(r int64)       { p.sflowEgressRate = r }
func (p *Port) SetFec(f PortFec)                 { p.fec = f }
func (p *Port) SetVlans(v VlanMembership)        { p.vlans = v }
func (p *Port) ResetQueues(queues []*PortQueue)  { p.queues = queues }

// Equal compares every field of the two ports.
func (p *Port) Equal(other *Port) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.id == other.id &&
		p.name == other.name &&
		p.description == other.description &&
		p.adminState == other.adminState &&
		p.ingressVlan == other.ingressVlan &&
		p.speedMbps == other.speedMbps &&
		p.pause == other.pause &&
		p.sflowIngressRate == other.sflowIngressRate &&
		p.sflowEgressRate == other.sflowEgressRate &&
		p.fec == other.fec &&
		maps.Equal(p.vlans, other.vlans) &&
		queuesEqual(p.queues, other.queues)
}
