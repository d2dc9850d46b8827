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

// Package platform abstracts the hardware-specific facts the applier needs:
// the chassis MAC, per-port queue counts and the defaults applied to ports
// the config does not mention.
package platform

import (
	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// Platform provides the hardware facts of one switch model.
type Platform interface {
	// LocalMac returns the chassis MAC, used as the default interface MAC
	// and the default LACP system id.
	LocalMac() state.Mac

	// QueueCount returns the number of egress queues of the port. The count
	// is fixed in hardware; config may only reshape existing queues.
	QueueCount(port state.PortID) int

	// DefaultPortConfig returns the config applied to a port the document
	// does not mention. The returned config must leave the port disabled.
	DefaultPortConfig(port state.PortID) *model.Port

	// DefaultMtu returns the interface MTU used when the config omits one.
	DefaultMtu() int
}

// Default is a software platform with uniform queue counts, suitable for
// tests and for running the agent against a simulated data plane.
type Default struct {
	mac        state.Mac
	queueCount int
	mtu        int
}

// NewDefault creates a platform with the given chassis MAC and a uniform
// per-port queue count.
func NewDefault(mac state.Mac, queueCount int) *Default {
	return &Default{mac: mac, queueCount: queueCount, mtu: state.DefaultMtu}
}

func (d *Default) LocalMac() state.Mac { return d.mac }

func (d *Default) QueueCount(state.PortID) int { return d.queueCount }

func (d *Default) DefaultPortConfig(port state.PortID) *model.Port {
	return &model.Port{
		LogicalID: int(port),
		State:     "DISABLED",
	}
}

func (d *Default) DefaultMtu() int { return d.mtu }
