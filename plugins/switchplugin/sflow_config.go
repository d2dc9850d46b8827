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
	"net/netip"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// updateSflowCollectors diffs the configured collectors against the
// previous state. A collector's identity is its "ip:port" string, so any
// address or port change shows up as a delete plus a create.
func (r *applier) updateSflowCollectors() (state.SflowCollectorMap, error) {
	origCollectors := r.orig.SflowCollectors()
	newCollectors := state.SflowCollectorMap{}
	changed := false

	numExistingProcessed := 0
	for _, collectorCfg := range r.cfg.SflowCollectors {
		addr, err := netip.ParseAddr(collectorCfg.IP)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid sFlow collector address %q",
				collectorCfg.IP)
		}
		if collectorCfg.Port < 0 || collectorCfg.Port > 65535 {
			return nil, errors.Errorf("invalid sFlow collector port %d",
				collectorCfg.Port)
		}
		collector := state.NewSflowCollector(addr, uint16(collectorCfg.Port))

		origCollector := origCollectors.Collector(collector.ID())
		var newCollector *state.SflowCollector
		if origCollector != nil {
			// Same identity means same endpoint; keep the original node.
			numExistingProcessed++
		} else {
			newCollector = collector
		}

		if _, ok := newCollectors[collector.ID()]; ok {
			return nil, errors.Errorf("duplicate sFlow collector %s", collector.ID())
		}
		if newCollector != nil {
			newCollectors[collector.ID()] = newCollector
			changed = true
		} else {
			newCollectors[collector.ID()] = origCollector
		}
	}

	if numExistingProcessed != origCollectors.Size() {
		// Some existing collectors were removed.
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return newCollectors, nil
}
