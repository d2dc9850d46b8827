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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

const (
	// Registry path for switch metrics
	registryPath = "/switch"

	familyLabel = "family"
)

type switchMetrics struct {
	applies       prometheus.Counter
	applyFailures prometheus.Counter
	noopApplies   prometheus.Counter
	entityCounts  *prometheus.GaugeVec
}

func (p *Plugin) registerMetrics() error {
	p.metrics.applies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "switch_config_applies_total",
		Help: "Number of attempted config applies.",
	})
	p.metrics.applyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "switch_config_apply_failures_total",
		Help: "Number of config applies rejected with an error.",
	})
	p.metrics.noopApplies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "switch_config_noop_applies_total",
		Help: "Number of config applies that resulted in no state change.",
	})
	p.metrics.entityCounts = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "switch_state_entities",
		Help: "Number of entities per family in the published state.",
	}, []string{familyLabel})

	if p.Prometheus == nil {
		return nil
	}
	if err := p.Prometheus.NewRegistry(registryPath, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}); err != nil {
		return err
	}
	for _, collector := range []prometheus.Collector{
		p.metrics.applies,
		p.metrics.applyFailures,
		p.metrics.noopApplies,
		p.metrics.entityCounts,
	} {
		if err := p.Prometheus.Register(registryPath, collector); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plugin) updateEntityGauges(s *state.SwitchState) {
	p.metrics.entityCounts.WithLabelValues("ports").Set(float64(s.Ports().Size()))
	p.metrics.entityCounts.WithLabelValues("vlans").Set(float64(s.Vlans().Size()))
	p.metrics.entityCounts.WithLabelValues("interfaces").Set(float64(s.Interfaces().Size()))
	p.metrics.entityCounts.WithLabelValues("acls").Set(float64(s.Acls().Size()))
	p.metrics.entityCounts.WithLabelValues("aggregate_ports").Set(float64(s.AggregatePorts().Size()))
	p.metrics.entityCounts.WithLabelValues("sflow_collectors").Set(float64(s.SflowCollectors().Size()))
	p.metrics.entityCounts.WithLabelValues("route_tables").Set(float64(s.RouteTables().Size()))
}
