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

package switchplugin

import (
	"maps"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// updatePorts walks the configured ports and resets every port the config
// does not mention to the platform default. Ports are fixed at boot: config
// for an unknown port is an error, and the result always holds every port.
func (r *applier) updatePorts() (state.PortMap, error) {
	origPorts := r.orig.Ports()
	newPorts := state.PortMap{}
	changed := false

	for i := range r.cfg.Ports {
		portCfg := &r.cfg.Ports[i]
		id := state.PortID(portCfg.LogicalID)
		origPort := origPorts.Port(id)
		if origPort == nil {
			return nil, errors.Errorf("config listed for non-existent port %d", id)
		}
		newPort, err := r.updatePort(origPort, portCfg)
		if err != nil {
			return nil, err
		}
		ch, err := putNode(newPorts, id, origPort, newPort)
		if err != nil {
			return nil, err
		}
		changed = changed || ch
	}

	// Ports without a config are reset to the platform default state.
	for _, id := range origPorts.IDs() {
		if _, ok := newPorts[id]; ok {
			continue
		}
		origPort := origPorts.Port(id)
		newPort, err := r.updatePort(origPort, r.plat.DefaultPortConfig(id))
		if err != nil {
			return nil, err
		}
		ch, err := putNode(newPorts, id, origPort, newPort)
		if err != nil {
			return nil, err
		}
		changed = changed || ch
	}

	if !changed {
		return nil, nil
	}
	return newPorts, nil
}

// updatePort returns a reshaped clone of the port, or nil when the config
// leaves every field as is.
func (r *applier) updatePort(orig *state.Port, portCfg *model.Port) (*state.Port, error) {
	adminState, err := parsePortState(portCfg.State)
	if err != nil {
		return nil, err
	}
	fec, err := parseFec(portCfg.Fec)
	if err != nil {
		return nil, err
	}
	vlans := r.portVlans[orig.ID()]
	if vlans == nil {
		vlans = state.VlanMembership{}
	}
	pause := state.PortPause{Tx: portCfg.PauseTx, Rx: portCfg.PauseRx}

	queues, err := r.updatePortQueues(orig, portCfg)
	if err != nil {
		return nil, err
	}
	queuesUnchanged := len(queues) == len(orig.Queues())
	for i := 0; i < len(queues) && queuesUnchanged; i++ {
		if !queues[i].Equal(orig.Queues()[i]) {
			queuesUnchanged = false
		}
	}

	if adminState == orig.AdminState() &&
		state.VlanID(portCfg.IngressVlan) == orig.IngressVlan() &&
		portCfg.SpeedMbps == orig.SpeedMbps() &&
		pause == orig.Pause() &&
		portCfg.SflowIngressRate == orig.SflowIngressRate() &&
		portCfg.SflowEgressRate == orig.SflowEgressRate() &&
		portCfg.Name == orig.Name() &&
		portCfg.Description == orig.Description() &&
		maps.Equal(vlans, orig.Vlans()) &&
		fec == orig.Fec() &&
		queuesUnchanged {
		return nil, nil
	}

	newPort := orig.Clone()
	newPort.SetAdminState(adminState)
	newPort.SetIngressVlan(state.VlanID(portCfg.IngressVlan))
	newPort.SetVlans(vlans)
	newPort.SetSpeedMbps(portCfg.SpeedMbps)
	newPort.SetPause(pause)
	newPort.SetSflowIngressRate(portCfg.SflowIngressRate)
	newPort.SetSflowEgressRate(portCfg.SflowEgressRate)
	newPort.SetName(portCfg.Name)
	newPort.SetDescription(portCfg.Description)
	newPort.SetFec(fec)
	newPort.ResetQueues(queues)
	return newPort, nil
}

// updatePortQueues rewrites the full queue list of a port: each hardware
// queue either takes its configured shape or falls back to a default queue.
// The queue count is fixed by the platform.
func (r *applier) updatePortQueues(orig *state.Port, portCfg *model.Port) ([]*state.PortQueue, error) {
	origQueues := orig.Queues()

	cfgQueues := make(map[int]*model.PortQueue, len(portCfg.Queues))
	for i := range portCfg.Queues {
		cfgQueues[portCfg.Queues[i].ID] = &portCfg.Queues[i]
	}

	newQueues := make([]*state.PortQueue, 0, len(origQueues))
	for i := range origQueues {
		if queueCfg, ok := cfgQueues[i]; ok {
			q, err := r.updatePortQueue(origQueues[i], queueCfg)
			if err != nil {
				return nil, err
			}
			newQueues = append(newQueues, q)
			delete(cfgQueues, i)
		} else {
			newQueues = append(newQueues, state.NewPortQueue(uint8(i)))
		}
	}

	if len(cfgQueues) > 0 {
		return nil, errors.Errorf(
			"port queue config listed for invalid queues, maximum number of queues on this platform is %d",
			len(origQueues))
	}
	return newQueues, nil
}

// updatePortQueue returns the original queue when the config matches it, or
// a reshaped clone. Unspecified optional fields keep their hardware values.
func (r *applier) updatePortQueue(orig *state.PortQueue, queueCfg *model.PortQueue) (*state.PortQueue, error) {
	streamType, err := parseStreamType(queueCfg.StreamType)
	if err != nil {
		return nil, err
	}
	scheduling, err := parseScheduling(queueCfg.Scheduling)
	if err != nil {
		return nil, err
	}
	aqm, err := parseAqm(queueCfg.Aqm)
	if err != nil {
		return nil, err
	}

	if orig.StreamType() == streamType &&
		orig.Scheduling() == scheduling &&
		eqOptional(orig.Weight(), queueCfg.Weight) &&
		eqOptional(orig.ReservedBytes(), queueCfg.ReservedBytes) &&
		eqOptional(orig.ScalingFactor(), queueCfg.ScalingFactor) &&
		(queueCfg.Aqm == nil || aqmEqual(orig.Aqm(), aqm)) {
		return orig, nil
	}

	newQueue := orig.Clone()
	newQueue.SetStreamType(streamType)
	newQueue.SetScheduling(scheduling)
	if queueCfg.Weight != nil {
		newQueue.SetWeight(*queueCfg.Weight)
	}
	if queueCfg.ReservedBytes != nil {
		newQueue.SetReservedBytes(*queueCfg.ReservedBytes)
	}
	if queueCfg.ScalingFactor != nil {
		newQueue.SetScalingFactor(*queueCfg.ScalingFactor)
	}
	if aqm != nil {
		newQueue.SetAqm(aqm)
	}
	return newQueue, nil
}

func parseAqm(aqmCfg *model.QueueAqm) (*state.QueueAqm, error) {
	if aqmCfg == nil {
		return nil, nil
	}
	if aqmCfg.Detection == nil {
		return nil, errors.New(
			"active queue management must specify a congestion detection method")
	}
	return &state.QueueAqm{
		Detection: &state.AqmLinearDetection{
			MinThresholdBytes: aqmCfg.Detection.MinThresholdBytes,
			MaxThresholdBytes: aqmCfg.Detection.MaxThresholdBytes,
		},
		EarlyDrop: aqmCfg.EarlyDrop,
		Ecn:       aqmCfg.Ecn,
	}, nil
}

func aqmEqual(a, b *state.QueueAqm) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.EarlyDrop != b.EarlyDrop || a.Ecn != b.Ecn {
		return false
	}
	if a.Detection == nil || b.Detection == nil {
		return a.Detection == b.Detection
	}
	return *a.Detection == *b.Detection
}

// eqOptional compares a stored optional field with its configured value;
// an unset config field matches any stored value because it is retained.
func eqOptional(stored, cfgValue *int) bool {
	if cfgValue == nil {
		return true
	}
	return stored != nil && *stored == *cfgValue
}
