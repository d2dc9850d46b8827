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
	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/platform"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// LoadBalancerApplier updates the hashing-unit family. The orchestrator
// treats the family opaquely and only swaps in whatever map the applier
// returns; nil means unchanged.
type LoadBalancerApplier interface {
	UpdateLoadBalancers(orig state.LoadBalancerMap, cfgs []model.LoadBalancer,
		plat platform.Platform) (state.LoadBalancerMap, error)
}

// defaultLoadBalancerApplier realizes the config's loadBalancers list with
// the same diff discipline as the in-tree families.
type defaultLoadBalancerApplier struct{}

func (defaultLoadBalancerApplier) UpdateLoadBalancers(orig state.LoadBalancerMap,
	cfgs []model.LoadBalancer, plat platform.Platform) (state.LoadBalancerMap, error) {

	newLoadBalancers := state.LoadBalancerMap{}
	changed := false

	numExistingProcessed := 0
	for i := range cfgs {
		lbCfg := &cfgs[i]
		lb, err := parseLoadBalancer(lbCfg, plat)
		if err != nil {
			return nil, err
		}

		origLb := orig.LoadBalancer(lb.ID())
		var newLb *state.LoadBalancer
		if origLb != nil {
			numExistingProcessed++
			if !origLb.Equal(lb) {
				newLb = lb
			}
		} else {
			newLb = lb
		}

		ch, err := putNode(newLoadBalancers, lb.ID(), origLb, newLb)
		if err != nil {
			return nil, err
		}
		changed = changed || ch
	}

	if numExistingProcessed != orig.Size() {
		// Some existing load balancers were removed.
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return newLoadBalancers, nil
}

func parseLoadBalancer(lbCfg *model.LoadBalancer, plat platform.Platform) (*state.LoadBalancer, error) {
	var id state.LoadBalancerID
	switch lbCfg.ID {
	case "ECMP":
		id = state.LoadBalancerEcmp
	case "AGGREGATE_PORT":
		id = state.LoadBalancerAggregatePort
	default:
		return nil, errors.Errorf("unknown load balancer %q", lbCfg.ID)
	}

	var algorithm state.LoadBalancerAlgorithm
	switch lbCfg.Algorithm {
	case "", "CRC":
		algorithm = state.AlgorithmCrc
	case "XOR":
		algorithm = state.AlgorithmXor
	case "RANDOM":
		algorithm = state.AlgorithmRandom
	default:
		return nil, errors.Errorf("unknown hash algorithm %q", lbCfg.Algorithm)
	}

	seed := defaultSeed(plat.LocalMac(), id)
	if lbCfg.Seed != nil {
		seed = *lbCfg.Seed
	}

	ipv4Fields, err := parseHashFields(lbCfg.IPv4Fields)
	if err != nil {
		return nil, err
	}
	ipv6Fields, err := parseHashFields(lbCfg.IPv6Fields)
	if err != nil {
		return nil, err
	}
	transportFields, err := parseHashFields(lbCfg.TransportFields)
	if err != nil {
		return nil, err
	}

	return state.NewLoadBalancer(id, algorithm, seed,
		ipv4Fields, ipv6Fields, transportFields), nil
}

func parseHashFields(names []string) (state.HashFields, error) {
	var fields state.HashFields
	for _, name := range names {
		switch name {
		case "SOURCE_ADDRESS":
			fields |= state.HashFields(state.FieldSourceAddress)
		case "DESTINATION_ADDRESS":
			fields |= state.HashFields(state.FieldDestinationAddress)
		case "FLOW_LABEL":
			fields |= state.HashFields(state.FieldFlowLabel)
		case "SOURCE_PORT":
			fields |= state.HashFields(state.FieldSourcePort)
		case "DESTINATION_PORT":
			fields |= state.HashFields(state.FieldDestinationPort)
		default:
			return 0, errors.Errorf("unknown hash field %q", name)
		}
	}
	return fields, nil
}

// defaultSeed derives a stable per-unit seed from the chassis MAC, so two
// hashing units never start from the same seed and a reboot does not
// reshuffle flows.
func defaultSeed(mac state.Mac, id state.LoadBalancerID) uint32 {
	var seed uint32
	for _, b := range mac {
		seed = seed<<5 + seed + uint32(b)
	}
	return seed + uint32(id)
}
