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

import "sort"

// LoadBalancerID names one of the hashing units of the switch.
type LoadBalancerID uint8

const (
	LoadBalancerEcmp LoadBalancerID = iota
	LoadBalancerAggregatePort
)

// LoadBalancerAlgorithm selects the hash function of a load balancer.
type LoadBalancerAlgorithm uint8

const (
	AlgorithmCrc LoadBalancerAlgorithm = iota
	AlgorithmXor
	AlgorithmRandom
)

// HashField is one packet field folded into a load-balancer hash.
type HashField uint16

const (
	FieldSourceAddress HashField = 1 << iota
	FieldDestinationAddress
	FieldFlowLabel
	FieldSourcePort
	FieldDestinationPort
)

// HashFields is a bitset of HashField values.
type HashFields uint16

func (f HashFields) Has(field HashField) bool { return uint16(f)&uint16(field) != 0 }

// LoadBalancer is the state of one hashing unit. The applier treats this
// family opaquely; an external applier produces new maps.
type LoadBalancer struct {
	nodeBase

	id              LoadBalancerID
	algorithm       LoadBalancerAlgorithm
	seed            uint32
	ipv4Fields      HashFields
	ipv6Fields      HashFields
	transportFields HashFields
}

// NewLoadBalancer creates a fully specified load balancer.
func NewLoadBalancer(id LoadBalancerID, algorithm LoadBalancerAlgorithm,
	seed uint32, ipv4, ipv6, transport HashFields) *LoadBalancer {

	return &LoadBalancer{
		id:              id,
		algorithm:       algorithm,
		seed:            seed,
		ipv4Fields:      ipv4,
		ipv6Fields:      ipv6,
		transportFields: transport,
	}
}

func (l *LoadBalancer) ID() LoadBalancerID               { return l.id }
func (l *LoadBalancer) Algorithm() LoadBalancerAlgorithm { return l.algorithm }
func (l *LoadBalancer) Seed() uint32                     { return l.seed }
func (l *LoadBalancer) IPv4Fields() HashFields           { return l.ipv4Fields }
func (l *LoadBalancer) IPv6Fields() HashFields           { return l.ipv6Fields }
func (l *LoadBalancer) TransportFields() HashFields      { return l.transportFields }

// Clone returns a field-equal copy of the load balancer.
func (l *LoadBalancer) Clone() *LoadBalancer {
	c := *l
	c.bumpGeneration(l.nodeBase)
	return &c
}

// Equal compares every field of the two load balancers.
func (l *LoadBalancer) Equal(other *LoadBalancer) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.id == other.id &&
		l.algorithm == other.algorithm &&
		l.seed == other.seed &&
		l.ipv4Fields == other.ipv4Fields &&
		l.ipv6Fields == other.ipv6Fields &&
		l.transportFields == other.transportFields
}

// LoadBalancerMap is the id-keyed load balancer collection of a SwitchState.
type LoadBalancerMap map[LoadBalancerID]*LoadBalancer

// LoadBalancer returns the load balancer with the id, or nil.
func (m LoadBalancerMap) LoadBalancer(id LoadBalancerID) *LoadBalancer { return m[id] }

func (m LoadBalancerMap) Size() int { return len(m) }

// IDs returns the load balancer ids in ascending order.
func (m LoadBalancerMap) IDs() []LoadBalancerID {
	out := make([]LoadBalancerID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares the two maps entry by entry.
func (m LoadBalancerMap) Equal(other LoadBalancerMap) bool {
	if len(m) != len(other) {
		return false
	}
	for id, lb := range m {
		if !lb.Equal(other[id]) {
			return false
		}
	}
	return true
}
