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

// Package model defines the declarative switch configuration document.
// The document is plain data; all semantic interpretation happens in the
// applier. Optional fields are pointers so that "absent" and "zero" can be
// told apart.
package model

// SwitchConfig is the top-level configuration document.
type SwitchConfig struct {
	Version int `json:"version,omitempty"`

	Ports          []Port          `json:"ports,omitempty"`
	Vlans          []Vlan          `json:"vlans,omitempty"`
	VlanPorts      []VlanPort      `json:"vlanPorts,omitempty"`
	Interfaces     []Interface     `json:"interfaces,omitempty"`
	Acls           []AclEntry      `json:"acls,omitempty"`
	AggregatePorts []AggregatePort `json:"aggregatePorts,omitempty"`
	SflowCollectors []SflowCollector `json:"sFlowCollectors,omitempty"`
	LoadBalancers  []LoadBalancer  `json:"loadBalancers,omitempty"`

	GlobalEgressTrafficPolicy *TrafficPolicy `json:"globalEgressTrafficPolicy,omitempty"`

	StaticRoutesWithNhops []StaticRouteWithNextHops `json:"staticRoutesWithNhops,omitempty"`
	StaticRoutesToNull    []StaticRouteNoNextHops   `json:"staticRoutesToNull,omitempty"`
	StaticRoutesToCpu     []StaticRouteNoNextHops   `json:"staticRoutesToCPU,omitempty"`

	Lacp *Lacp `json:"lacp,omitempty"`

	DefaultVlan            int     `json:"defaultVlan"`
	ArpAgerInterval        int     `json:"arpAgerInterval"`
	ArpTimeoutSeconds      int     `json:"arpTimeout"`
	MaxNeighborProbes      int     `json:"maxNeighborProbes"`
	StaleEntryInterval     int     `json:"staleEntryInterval"`
	DhcpRelaySrcOverrideV4 *string `json:"dhcpRelaySrcOverrideV4,omitempty"`
	DhcpRelaySrcOverrideV6 *string `json:"dhcpRelaySrcOverrideV6,omitempty"`
	DhcpReplySrcOverrideV4 *string `json:"dhcpReplySrcOverrideV4,omitempty"`
	DhcpReplySrcOverrideV6 *string `json:"dhcpReplySrcOverrideV6,omitempty"`
}

// NewSwitchConfig returns a config with the scalar defaults applied. The
// loader unmarshals on top of it, so an omitted scalar keeps its default.
func NewSwitchConfig() *SwitchConfig {
	return &SwitchConfig{
		ArpAgerInterval:    5,
		ArpTimeoutSeconds:  60,
		MaxNeighborProbes:  300,
		StaleEntryInterval: 10,
	}
}

// Port configures one physical port, identified by its logical id.
type Port struct {
	LogicalID        int        `json:"logicalID"`
	State            string     `json:"state,omitempty"`
	Name             string     `json:"name,omitempty"`
	Description      string     `json:"description,omitempty"`
	IngressVlan      int        `json:"ingressVlan"`
	SpeedMbps        int        `json:"speed,omitempty"`
	PauseTx          bool       `json:"pauseTx,omitempty"`
	PauseRx          bool       `json:"pauseRx,omitempty"`
	SflowIngressRate int64      `json:"sFlowIngressRate,omitempty"`
	SflowEgressRate  int64      `json:"sFlowEgressRate,omitempty"`
	Fec              string     `json:"fec,omitempty"`
	Queues           []PortQueue `json:"queues,omitempty"`

	EgressTrafficPolicy *TrafficPolicy `json:"egressTrafficPolicy,omitempty"`
}

// PortQueue configures one egress queue of a port.
type PortQueue struct {
	ID            int      `json:"id"`
	StreamType    string   `json:"streamType,omitempty"`
	Scheduling    string   `json:"scheduling,omitempty"`
	Weight        *int     `json:"weight,omitempty"`
	ReservedBytes *int     `json:"reservedBytes,omitempty"`
	ScalingFactor *int     `json:"scalingFactor,omitempty"`
	Aqm           *QueueAqm `json:"aqm,omitempty"`
}

// QueueAqm configures active queue management on a queue. Detection must be
// present; an AQM block without it is rejected by the applier.
type QueueAqm struct {
	Detection *LinearDetection `json:"detection,omitempty"`
	EarlyDrop bool             `json:"earlyDrop,omitempty"`
	Ecn       bool             `json:"ecn,omitempty"`
}

// LinearDetection is the linear congestion-detection profile of an AQM block.
type LinearDetection struct {
	MinThresholdBytes int `json:"minimumLength"`
	MaxThresholdBytes int `json:"maximumLength"`
}

// Vlan configures one layer-2 broadcast domain.
type Vlan struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`

	IntfID *int `json:"intfID,omitempty"`

	DhcpRelayAddressV4   *string           `json:"dhcpRelayAddressV4,omitempty"`
	DhcpRelayAddressV6   *string           `json:"dhcpRelayAddressV6,omitempty"`
	DhcpRelayOverridesV4 map[string]string `json:"dhcpRelayOverridesV4,omitempty"`
	DhcpRelayOverridesV6 map[string]string `json:"dhcpRelayOverridesV6,omitempty"`
}

// VlanPort attaches one port to one VLAN.
type VlanPort struct {
	LogicalPort int  `json:"logicalPort"`
	VlanID      int  `json:"vlanID"`
	EmitTags    bool `json:"emitTags,omitempty"`
}

// Interface configures one routed interface.
type Interface struct {
	IntfID              int      `json:"intfID"`
	RouterID            int      `json:"routerID"`
	VlanID              int      `json:"vlanID"`
	Name                *string  `json:"name,omitempty"`
	Mac                 *string  `json:"mac,omitempty"`
	Mtu                 *int     `json:"mtu,omitempty"`
	IsVirtual           bool     `json:"isVirtual,omitempty"`
	IsStateSyncDisabled bool     `json:"isStateSyncDisabled,omitempty"`
	IPAddresses         []string `json:"ipAddresses,omitempty"`
	Ndp                 *NdpConfig `json:"ndp,omitempty"`
}

// NdpConfig carries the router-advertisement parameters of an interface.
type NdpConfig struct {
	RouterAdvertisementSeconds     int `json:"routerAdvertisementSeconds,omitempty"`
	CurHopLimit                    int `json:"curHopLimit,omitempty"`
	RouterLifetimeSeconds          int `json:"routerLifetime,omitempty"`
	PrefixValidLifetimeSeconds     int `json:"prefixValidLifetimeSeconds,omitempty"`
	PrefixPreferredLifetimeSeconds int `json:"prefixPreferredLifetimeSeconds,omitempty"`
}

// AclEntry configures one access-control rule. The priority of an entry is
// assigned by the applier (DENY entries in document order, PERMIT entries in
// traffic-policy order); there is no priority field.
type AclEntry struct {
	Name       string `json:"name"`
	ActionType string `json:"actionType,omitempty"`

	SrcIp          *string       `json:"srcIp,omitempty"`
	DstIp          *string       `json:"dstIp,omitempty"`
	Proto          *int          `json:"proto,omitempty"`
	TcpFlagsBitMap *int          `json:"tcpFlagsBitMap,omitempty"`
	SrcPort        *int          `json:"srcPort,omitempty"`
	DstPort        *int          `json:"dstPort,omitempty"`
	SrcL4PortRange *L4PortRange  `json:"srcL4PortRange,omitempty"`
	DstL4PortRange *L4PortRange  `json:"dstL4PortRange,omitempty"`
	PktLenRange    *PktLenRange  `json:"pktLenRange,omitempty"`
	IpFrag         *string       `json:"ipFrag,omitempty"`
	IcmpType       *int          `json:"icmpType,omitempty"`
	IcmpCode       *int          `json:"icmpCode,omitempty"`
	Dscp           *int          `json:"dscp,omitempty"`
	DstMac         *string       `json:"dstMac,omitempty"`
	IpType         *string       `json:"ipType,omitempty"`
	Ttl            *Ttl          `json:"ttl,omitempty"`
}

// L4PortRange is an inclusive L4 port interval.
type L4PortRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PktLenRange is an inclusive packet-length interval.
type PktLenRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Ttl matches (ttl & Mask) == (Value & Mask).
type Ttl struct {
	Value int `json:"value"`
	Mask  int `json:"mask"`
}

// TrafficPolicy maps named ACL matchers onto extra actions.
type TrafficPolicy struct {
	MatchToAction []MatchToAction `json:"matchToAction,omitempty"`
}

// MatchToAction references an ACL by name and attaches an action to it.
type MatchToAction struct {
	Matcher string       `json:"matcher"`
	Action  MatchAction  `json:"action"`
}

// MatchAction is the action side of a traffic-policy entry.
type MatchAction struct {
	SendToQueue   *int    `json:"sendToQueue,omitempty"`
	PacketCounter *string `json:"packetCounter,omitempty"`
}

// AggregatePort configures one link aggregation group.
type AggregatePort struct {
	Key         int    `json:"key"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	MemberPorts     []AggregatePortMember `json:"memberPorts,omitempty"`
	MinimumCapacity *MinimumCapacity      `json:"minimumCapacity,omitempty"`
}

// AggregatePortMember is one physical member of an aggregate port.
type AggregatePortMember struct {
	MemberPortID int    `json:"memberPortID"`
	Priority     int    `json:"priority,omitempty"`
	Rate         string `json:"rate,omitempty"`
	Activity     string `json:"activity,omitempty"`
}

// MinimumCapacity expresses the minimum link count of an aggregate either
// as an absolute count or as a fraction of its members. At most one of the
// two fields may be set.
type MinimumCapacity struct {
	LinkCount      *int     `json:"linkCount,omitempty"`
	LinkPercentage *float64 `json:"linkPercentage,omitempty"`
}

// Lacp carries the system-wide LACP actor parameters.
type Lacp struct {
	SystemID       string `json:"systemID"`
	SystemPriority int    `json:"systemPriority"`
}

// SflowCollector configures one sampled-flow collector endpoint.
type SflowCollector struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

// LoadBalancer configures one hashing unit.
type LoadBalancer struct {
	ID              string   `json:"id"`
	Algorithm       string   `json:"algorithm,omitempty"`
	Seed            *uint32  `json:"seed,omitempty"`
	IPv4Fields      []string `json:"ipv4Fields,omitempty"`
	IPv6Fields      []string `json:"ipv6Fields,omitempty"`
	TransportFields []string `json:"transportFields,omitempty"`
}

// StaticRouteWithNextHops is a static route forwarding to explicit next hops.
type StaticRouteWithNextHops struct {
	RouterID int      `json:"routerID"`
	Prefix   string   `json:"prefix"`
	Nexthops []string `json:"nexthops"`
}

// StaticRouteNoNextHops is a static route terminated in the switch: dropped
// or punted to the CPU depending on which list it appears in.
type StaticRouteNoNextHops struct {
	RouterID int    `json:"routerID"`
	Prefix   string `json:"prefix"`
}
