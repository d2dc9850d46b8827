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
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// updateAggregatePorts diffs the configured link aggregation groups against
// the previous state.
func (r *applier) updateAggregatePorts() (state.AggregatePortMap, error) {
	origAggPorts := r.orig.AggregatePorts()
	newAggPorts := state.AggregatePortMap{}
	changed := false

	numExistingProcessed := 0
	for i := range r.cfg.AggregatePorts {
		aggCfg := &r.cfg.AggregatePorts[i]
		id := state.AggregatePortID(aggCfg.Key)
		origAggPort := origAggPorts.AggregatePort(id)

		var newAggPort *state.AggregatePort
		var err error
		if origAggPort != nil {
			newAggPort, err = r.updateAggPort(origAggPort, aggCfg)
			numExistingProcessed++
		} else {
			newAggPort, err = r.createAggPort(aggCfg)
		}
		if err != nil {
			return nil, err
		}

		ch, err := putNode(newAggPorts, id, origAggPort, newAggPort)
		if err != nil {
			return nil, err
		}
		changed = changed || ch
	}

	if numExistingProcessed != origAggPorts.Size() {
		// Some existing aggregate ports were removed.
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return newAggPorts, nil
}

func (r *applier) updateAggPort(orig *state.AggregatePort,
	aggCfg *model.AggregatePort) (*state.AggregatePort, error) {

	subports, err := r.getSubportsSorted(aggCfg)
	if err != nil {
		return nil, err
	}
	systemID, systemPriority, err := r.getSystemLacpConfig()
	if err != nil {
		return nil, err
	}
	minLinkCount, err := computeMinimumLinkCount(aggCfg)
	if err != nil {
		return nil, err
	}

	if orig.Name() == aggCfg.Name &&
		orig.Description() == aggCfg.Description &&
		orig.SystemPriority() == systemPriority &&
		orig.SystemID() == systemID &&
		orig.MinLinkCount() == minLinkCount &&
		state.SubportsEqual(orig.Subports(), subports) {
		return nil, nil
	}

	newAggPort := orig.Clone()
	newAggPort.SetName(aggCfg.Name)
	newAggPort.SetDescription(aggCfg.Description)
	newAggPort.SetSystemPriority(systemPriority)
	newAggPort.SetSystemID(systemID)
	newAggPort.SetMinLinkCount(minLinkCount)
	newAggPort.SetSubports(subports)
	return newAggPort, nil
}

func (r *applier) createAggPort(aggCfg *model.AggregatePort) (*state.AggregatePort, error) {
	subports, err := r.getSubportsSorted(aggCfg)
	if err != nil {
		return nil, err
	}
	systemID, systemPriority, err := r.getSystemLacpConfig()
	if err != nil {
		return nil, err
	}
	minLinkCount, err := computeMinimumLinkCount(aggCfg)
	if err != nil {
		return nil, err
	}
	return state.NewAggregatePort(
		state.AggregatePortID(aggCfg.Key),
		aggCfg.Name,
		aggCfg.Description,
		systemPriority,
		systemID,
		minLinkCount,
		subports,
	), nil
}

func (r *applier) getSubportsSorted(aggCfg *model.AggregatePort) ([]state.Subport, error) {
	subports := make([]state.Subport, len(aggCfg.MemberPorts))
	for i, member := range aggCfg.MemberPorts {
		if member.Priority < 0 || member.Priority >= 1<<16 {
			return nil, errors.Errorf(
				"member port %d has priority outside of [0, 2^16)", i)
		}
		if r.orig.Ports().Port(state.PortID(member.MemberPortID)) == nil {
			return nil, errors.Errorf(
				"aggregate port %d references non-existent port %d",
				aggCfg.Key, member.MemberPortID)
		}
		rate, err := parseLacpRate(member.Rate)
		if err != nil {
			return nil, err
		}
		activity, err := parseLacpActivity(member.Activity)
		if err != nil {
			return nil, err
		}
		subports[i] = state.Subport{
			PortID:   state.PortID(member.MemberPortID),
			Priority: uint16(member.Priority),
			Rate:     rate,
			Activity: activity,
		}
	}
	sort.Slice(subports, func(i, j int) bool {
		return subports[i].Less(subports[j])
	})
	return subports, nil
}

// getSystemLacpConfig resolves the LACP actor parameters: the config's lacp
// block when present, otherwise the chassis MAC with the default priority.
// The default system id cannot be a compile-time constant since it derives
// from the CPU MAC, so it is resolved here.
func (r *applier) getSystemLacpConfig() (state.Mac, uint16, error) {
	if r.cfg.Lacp != nil {
		systemID, err := state.ParseMac(r.cfg.Lacp.SystemID)
		if err != nil {
			return state.Mac{}, 0, err
		}
		return systemID, uint16(r.cfg.Lacp.SystemPriority), nil
	}
	return r.plat.LocalMac(), state.DefaultSystemPriority, nil
}

// computeMinimumLinkCount resolves the minimum capacity of an aggregate:
// an absolute link count, a fraction of the member count rounded up (but
// at least one when there are members), or the default of one.
func computeMinimumLinkCount(aggCfg *model.AggregatePort) (uint8, error) {
	capacity := aggCfg.MinimumCapacity
	if capacity == nil {
		return 1, nil
	}
	if capacity.LinkCount != nil && capacity.LinkPercentage != nil {
		return 0, errors.Errorf(
			"aggregate port %d specifies both a link count and a link percentage",
			aggCfg.Key)
	}
	if capacity.LinkCount != nil {
		if *capacity.LinkCount < 1 {
			return 0, errors.Errorf(
				"aggregate port %d has a minimum link count below 1", aggCfg.Key)
		}
		return uint8(*capacity.LinkCount), nil
	}
	if capacity.LinkPercentage != nil {
		p := *capacity.LinkPercentage
		if p <= 0 || p > 1 {
			return 0, errors.Errorf(
				"aggregate port %d has a link percentage outside of (0, 1]", aggCfg.Key)
		}
		minLinkCount := uint8(math.Ceil(p * float64(len(aggCfg.MemberPorts))))
		if len(aggCfg.MemberPorts) != 0 && minLinkCount < 1 {
			minLinkCount = 1
		}
		return minLinkCount, nil
	}
	return 1, nil
}
