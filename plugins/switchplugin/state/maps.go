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

// PortMap is the id-keyed port collection of a SwitchState.
type PortMap map[PortID]*Port

// Port returns the port with the id, or nil.
func (m PortMap) Port(id PortID) *Port { return m[id] }

func (m PortMap) Size() int { return len(m) }

// IDs returns the port ids in ascending order.
func (m PortMap) IDs() []PortID {
	out := make([]PortID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares the two maps port by port.
func (m PortMap) Equal(other PortMap) bool {
	if len(m) != len(other) {
		return false
	}
	for id, p := range m {
		if !p.Equal(other[id]) {
			return false
		}
	}
	return true
}

// VlanMap is the id-keyed VLAN collection of a SwitchState.
type VlanMap map[VlanID]*Vlan

// Vlan returns the VLAN with the id, or nil.
func (m VlanMap) Vlan(id VlanID) *Vlan { return m[id] }

func (m VlanMap) Size() int { return len(m) }

// IDs returns the VLAN ids in ascending order.
func (m VlanMap) IDs() []VlanID {
	out := make([]VlanID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares the two maps VLAN by VLAN.
func (m VlanMap) Equal(other VlanMap) bool {
	if len(m) != len(other) {
		return false
	}
	for id, v := range m {
		if !v.Equal(other[id]) {
			return false
		}
	}
	return true
}

// InterfaceMap is the id-keyed interface collection of a SwitchState.
type InterfaceMap map[InterfaceID]*Interface

// Interface returns the interface with the id, or nil.
func (m InterfaceMap) Interface(id InterfaceID) *Interface { return m[id] }

func (m InterfaceMap) Size() int { return len(m) }

// IDs returns the interface ids in ascending order.
func (m InterfaceMap) IDs() []InterfaceID {
	out := make([]InterfaceID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares the two maps interface by interface.
func (m InterfaceMap) Equal(other InterfaceMap) bool {
	if len(m) != len(other) {
		return false
	}
	for id, i := range m {
		if !i.Equal(other[id]) {
			return false
		}
	}
	return true
}

// AggregatePortMap is the id-keyed aggregate port collection of a SwitchState.
type AggregatePortMap map[AggregatePortID]*AggregatePort

// AggregatePort returns the aggregate port with the id, or nil.
func (m AggregatePortMap) AggregatePort(id AggregatePortID) *AggregatePort { return m[id] }

func (m AggregatePortMap) Size() int { return len(m) }

// IDs returns the aggregate port ids in ascending order.
func (m AggregatePortMap) IDs() []AggregatePortID {
	out := make([]AggregatePortID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares the two maps entry by entry.
func (m AggregatePortMap) Equal(other AggregatePortMap) bool {
	if len(m) != len(other) {
		return false
	}
	for id, a := range m {
		if !a.Equal(other[id]) {
			return false
		}
	}
	return true
}

// SflowCollectorMap is the "ip:port"-keyed collector collection of a
// SwitchState.
type SflowCollectorMap map[string]*SflowCollector

// Collector returns the collector with the id, or nil.
func (m SflowCollectorMap) Collector(id string) *SflowCollector { return m[id] }

func (m SflowCollectorMap) Size() int { return len(m) }

// IDs returns the collector ids in lexical order.
func (m SflowCollectorMap) IDs() []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal compares the two maps collector by collector.
func (m SflowCollectorMap) Equal(other SflowCollectorMap) bool {
	if len(m) != len(other) {
		return false
	}
	for id, c := range m {
		if !c.Equal(other[id]) {
			return false
		}
	}
	return true
}
