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

import "net/netip"

// AclActionType decides what happens to a matching packet.
type AclActionType uint8

const (
	AclPermit AclActionType = iota
	AclDeny
)

// IpFragMatch matches the fragmentation status of a packet.
type IpFragMatch uint8

const (
	FragMatchAny IpFragMatch = iota
	FragMatchNotFragmented
	FragMatchFirstFragment
	FragMatchNotFirstFragment
)

// IpType restricts an ACL to one address family or ethertype class.
type IpType uint8

const (
	IpTypeAny IpType = iota
	IpTypeIp4
	IpTypeIp6
	IpTypeNonIp
)

// AclL4PortRange is an inclusive L4 port interval.
type AclL4PortRange struct {
	Min int
	Max int
}

// AclPktLenRange is an inclusive packet-length interval.
type AclPktLenRange struct {
	Min int
	Max int
}

// AclTtl matches (ttl & Mask) == (Value & Mask).
type AclTtl struct {
	Value int
	Mask  int
}

// MatchAction is the extra action attached to ACLs synthesized from traffic
// policies: steer to a queue and/or count matching packets.
type MatchAction struct {
	SendToQueue   *int
	PacketCounter *string
}

func (a *MatchAction) equal(b *MatchAction) bool {
	if a == nil || b == nil {
		return a == b
	}
	return eqPtr(a.SendToQueue, b.SendToQueue) &&
		eqPtr(a.PacketCounter, b.PacketCounter)
}

// AclEntry is one access-control rule. Entries are identified by name;
// priority is assigned by the applier and ordering in the AclMap follows it.
type AclEntry struct {
	nodeBase

	priority   int
	name       string
	actionType AclActionType
	aclAction  *MatchAction

	srcIp          netip.Prefix
	dstIp          netip.Prefix
	proto          *int
	tcpFlagsBitMap *int
	srcPort        *int
	dstPort        *int
	srcL4PortRange *AclL4PortRange
	dstL4PortRange *AclL4PortRange
	pktLenRange    *AclPktLenRange
	ipFrag         *IpFragMatch
	icmpType       *int
	icmpCode       *int
	dscp           *int
	dstMac         *Mac
	ipType         *IpType
	ttl            *AclTtl
}

// NewAclEntry creates an entry with the given priority and name and no
// match fields set.
func NewAclEntry(priority int, name string) *AclEntry {
	return &AclEntry{priority: priority, name: name}
}

func (e *AclEntry) ID() string                      { return e.name }
func (e *AclEntry) Priority() int                   { return e.priority }
func (e *AclEntry) Name() string                    { return e.name }
func (e *AclEntry) ActionType() AclActionType       { return e.actionType }
func (e *AclEntry) AclAction() *MatchAction         { return e.aclAction }
func (e *AclEntry) SrcIp() netip.Prefix             { return e.srcIp }
func (e *AclEntry) DstIp() netip.Prefix             { return e.dstIp }
func (e *AclEntry) Proto() *int                     { return e.proto }
func (e *AclEntry) TcpFlagsBitMap() *int            { return e.tcpFlagsBitMap }
func (e *AclEntry) SrcPort() *int                   { return e.srcPort }
func (e *AclEntry) DstPort() *int                   { return e.dstPort }
func (e *AclEntry) SrcL4PortRange() *AclL4PortRange { return e.srcL4PortRange }
func (e *AclEntry) DstL4PortRange() *AclL4PortRange { return e.dstL4PortRange }
func (e *AclEntry) PktLenRange() *AclPktLenRange    { return e.pktLenRange }
func (e *AclEntry) IpFrag() *IpFragMatch            { return e.ipFrag }
func (e *AclEntry) IcmpType() *int                  { return e.icmpType }
func (e *AclEntry) IcmpCode() *int                  { return e.icmpCode }
func (e *AclEntry) Dscp() *int                      { return e.dscp }
func (e *AclEntry) DstMac() *Mac                    { return e.dstMac }
func (e *AclEntry) IpType() *IpType                 { return e.ipType }
func (e *AclEntry) Ttl() *AclTtl                    { return e.ttl }

// Clone returns a field-equal copy of the entry.
func (e *AclEntry) Clone() *AclEntry {
	c := *e
	c.bumpGeneration(e.nodeBase)
	return &c
}

func (e *AclEntry) SetActionType(t AclActionType)       { e.actionType = t }
func (e *AclEntry) SetAclAction(a *MatchAction)         { e.aclAction = a }
func (e *AclEntry) SetSrcIp(p netip.Prefix)             { e.srcIp = p }
func (e *AclEntry) SetDstIp(p netip.Prefix)             { e.dstIp = p }
func (e *AclEntry) SetProto(v int)                      { e.proto = &v }
func (e *AclEntry) SetTcpFlagsBitMap(v int)             { e.tcpFlagsBitMap = &v }
func (e *AclEntry) SetSrcPort(v int)                    { e.srcPort = &v }
func (e *AclEntry) SetDstPort(v int)                    { e.dstPort = &v }
func (e *AclEntry) SetSrcL4PortRange(r AclL4PortRange)  { e.srcL4PortRange = &r }
func (e *AclEntry) SetDstL4PortRange(r AclL4PortRange)  { e.dstL4PortRange = &r }
func (e *AclEntry) SetPktLenRange(r AclPktLenRange)     { e.pktLenRange = &r }
func (e *AclEntry) SetIpFrag(f IpFragMatch)             { e.ipFrag = &f }
func (e *AclEntry) SetIcmpType(v int)                   { e.icmpType = &v }
func (e *AclEntry) SetIcmpCode(v int)                   { e.icmpCode = &v }
func (e *AclEntry) SetDscp(v int)                       { e.dscp = &v }
func (e *AclEntry) SetDstMac(m Mac)                     { e.dstMac = &m }
func (e *AclEntry) SetIpType(t IpType)                  { e.ipType = &t }
func (e *AclEntry) SetTtl(t AclTtl)                     { e.ttl = &t }

// Equal compares every field of the two entries, including priority and the
// attached match action.
func (e *AclEntry) Equal(other *AclEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.priority == other.priority &&
		e.name == other.name &&
		e.actionType == other.actionType &&
		e.aclAction.equal(other.aclAction) &&
		e.srcIp == other.srcIp &&
		e.dstIp == other.dstIp &&
		eqPtr(e.proto, other.proto) &&
		eqPtr(e.tcpFlagsBitMap, other.tcpFlagsBitMap) &&
		eqPtr(e.srcPort, other.srcPort) &&
		eqPtr(e.dstPort, other.dstPort) &&
		eqPtr(e.srcL4PortRange, other.srcL4PortRange) &&
		eqPtr(e.dstL4PortRange, other.dstL4PortRange) &&
		eqPtr(e.pktLenRange, other.pktLenRange) &&
		eqPtr(e.ipFrag, other.ipFrag) &&
		eqPtr(e.icmpType, other.icmpType) &&
		eqPtr(e.icmpCode, other.icmpCode) &&
		eqPtr(e.dscp, other.dscp) &&
		eqPtr(e.dstMac, other.dstMac) &&
		eqPtr(e.ipType, other.ipType) &&
		eqPtr(e.ttl, other.ttl)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
