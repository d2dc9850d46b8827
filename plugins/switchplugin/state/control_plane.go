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

// ControlPlane is the state of the CPU port: its queues and the mapping of
// trap reasons onto them. Queue provisioning is not driven from config yet;
// the applier keeps the node as is.
type ControlPlane struct {
	nodeBase

	queues []*PortQueue
}

// NewControlPlane creates a control plane with no queues configured.
func NewControlPlane() *ControlPlane {
	return &ControlPlane{}
}

func (c *ControlPlane) Queues() []*PortQueue { return c.queues }

// Clone returns a field-equal copy sharing the queue slice.
func (c *ControlPlane) Clone() *ControlPlane {
	n := *c
	n.bumpGeneration(c.nodeBase)
	return &n
}

func (c *ControlPlane) ResetQueues(queues []*PortQueue) { c.queues = queues }

// Equal compares every field of the two control planes.
func (c *ControlPlane) Equal(other *ControlPlane) bool {
	if c == nil || other == nil {
		return c == other
	}
	return queuesEqual(c.queues, other.queues)
}
