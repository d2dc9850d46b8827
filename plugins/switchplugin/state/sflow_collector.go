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
	"fmt"
	"net/netip"
)

// SflowCollector is one remote UDP endpoint receiving sampled-flow records.
// The identity of a collector is the fully qualified "ip:port" string, so
// changing the address creates a new collector rather than updating one.
type SflowCollector struct {
	nodeBase

	id      string
	address netip.Addr
	port    uint16
}

// NewSflowCollector creates a collector; the identity string is derived
// from the expanded address form so that equivalent IPv6 spellings collide.
func NewSflowCollector(address netip.Addr, port uint16) *SflowCollector {
	return &SflowCollector{
		id:      fmt.Sprintf("%s:%d", address.StringExpanded(), port),
		address: address,
		port:    port,
	}
}

func (c *SflowCollector) ID() string         { return c.id }
func (c *SflowCollector) Address() netip.Addr { return c.address }
func (c *SflowCollector) Port() uint16        { return c.port }

// Clone returns a field-equal copy of the collector.
func (c *SflowCollector) Clone() *SflowCollector {
	n := *c
	n.bumpGeneration(c.nodeBase)
	return &n
}

// Equal compares every field of the two collectors.
func (c *SflowCollector) Equal(other *SflowCollector) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.id == other.id &&
		c.address == other.address &&
		c.port == other.port
}
