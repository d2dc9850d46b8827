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

// Package app assembles the switch agent from its plugins.
package app

import (
	"go.ligato.io/cn-infra/v2/health/statuscheck"
	"go.ligato.io/cn-infra/v2/rpc/prometheus"
	"go.ligato.io/cn-infra/v2/rpc/rest"

	"github.com/opennetsys/switch-agent/plugins/switchplugin"
)

// SwitchAgent is the default collection of plugins making up the agent.
type SwitchAgent struct {
	StatusCheck *statuscheck.Plugin
	REST        *rest.Plugin
	Prometheus  *prometheus.Plugin

	Switch *switchplugin.Plugin
}

// New creates the agent with the default plugin set: the switch plugin plus
// the HTTP endpoint serving health and metrics.
func New() *SwitchAgent {
	return &SwitchAgent{
		StatusCheck: &statuscheck.DefaultPlugin,
		REST:        &rest.DefaultPlugin,
		Prometheus:  &prometheus.DefaultPlugin,
		Switch:      &switchplugin.DefaultPlugin,
	}
}

// Init is a no-op; the composed plugins initialize themselves.
func (SwitchAgent) Init() error {
	return nil
}

// AfterInit is a no-op.
func (SwitchAgent) AfterInit() error {
	return nil
}

// Close is a no-op.
func (SwitchAgent) Close() error {
	return nil
}

// String returns the agent name.
func (SwitchAgent) String() string {
	return "SwitchAgent"
}
