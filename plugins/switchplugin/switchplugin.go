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

// Package switchplugin realizes declarative switch configuration documents
// as immutable switch-state trees. The plugin loads the document from disk,
// runs the applier against the currently published state and publishes the
// result; the applier itself is a pure function usable without the plugin.
package switchplugin

import (
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.ligato.io/cn-infra/v2/health/statuscheck"
	"go.ligato.io/cn-infra/v2/infra"
	prom "go.ligato.io/cn-infra/v2/rpc/prometheus"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/platform"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// Plugin loads, applies and republishes switch configuration.
type Plugin struct {
	Deps

	conf     *Config
	applier  *Applier
	platform platform.Platform

	current atomic.Pointer[state.SwitchState]

	// mu serializes applies; appliedCfg/appliedRaw describe the document
	// that produced the published state.
	mu         sync.Mutex
	appliedCfg *model.SwitchConfig
	appliedRaw string

	metrics switchMetrics

	watcher *fsnotify.Watcher
	quit    chan struct{}
	wg      sync.WaitGroup
}

// Deps lists dependencies of the switch plugin.
type Deps struct {
	infra.PluginDeps
	StatusCheck statuscheck.PluginStatusWriter
	Prometheus  prom.API
}

// Init loads the plugin config, builds the boot state from the platform
// facts and applies the configured document.
func (p *Plugin) Init() error {
	if p.conf == nil {
		conf, err := p.loadConfig()
		if err != nil {
			return err
		}
		p.conf = conf
	}

	mac, err := state.ParseMac(p.conf.LocalMac)
	if err != nil {
		return errors.Wrap(err, "invalid local-mac in plugin config")
	}
	if p.platform == nil {
		p.platform = platform.NewDefault(mac, p.conf.QueueCount)
	}
	p.applier = NewApplier(p.Log)

	p.current.Store(p.bootState())

	if err := p.registerMetrics(); err != nil {
		return err
	}

	if p.conf.ConfigFile != "" {
		if err := p.loadAndApply(); err != nil {
			// A broken document at boot is not fatal: the agent comes up
			// on the boot state and reports unhealthy until a good
			// document arrives.
			p.Log.Errorf("applying %s failed: %v", p.conf.ConfigFile, err)
		}
		if p.conf.WatchConfig {
			if err := p.startWatcher(); err != nil {
				return err
			}
		}
	}
	return nil
}

// AfterInit registers with the health service.
func (p *Plugin) AfterInit() error {
	if p.StatusCheck != nil {
		p.StatusCheck.Register(p.PluginName, nil)
	}
	return nil
}

// Close stops the config watcher.
func (p *Plugin) Close() error {
	if p.watcher != nil {
		close(p.quit)
		err := p.watcher.Close()
		p.wg.Wait()
		return err
	}
	return nil
}

// CurrentState returns the most recently published switch state. The state
// is immutable; readers may hold it for as long as they like.
func (p *Plugin) CurrentState() *state.SwitchState {
	return p.current.Load()
}

// AppliedConfig returns the document that produced the published state and
// its raw text.
func (p *Plugin) AppliedConfig() (*model.SwitchConfig, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.appliedCfg, p.appliedRaw
}

// bootState creates the initial state: every front-panel port present,
// disabled, with its hardware queues.
func (p *Plugin) bootState() *state.SwitchState {
	boot := state.NewSwitchState()
	for id := 1; id <= p.conf.PortCount; id++ {
		portID := state.PortID(id)
		boot.Ports()[portID] = state.NewPort(portID, p.platform.QueueCount(portID))
	}
	return boot
}

// loadAndApply reads the config document, applies it on top of the current
// state and publishes the result.
func (p *Plugin) loadAndApply() error {
	cfg, raw, err := model.Load(p.conf.ConfigFile)
	if err != nil {
		p.reportApplyResult(err)
		return err
	}
	return p.Apply(cfg, raw)
}

// Apply runs the applier with the given document and publishes the new
// state. Unchanged applies leave the published state untouched.
func (p *Plugin) Apply(cfg *model.SwitchConfig, raw string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.current.Load()
	newState, err := p.applier.Apply(prev, cfg, p.platform, p.appliedCfg)
	p.metrics.applies.Inc()
	if err != nil {
		p.metrics.applyFailures.Inc()
		p.reportApplyResult(err)
		return err
	}

	if newState == nil {
		p.Log.Debug("config apply resulted in no state change")
		p.metrics.noopApplies.Inc()
	} else {
		p.current.Store(newState)
		p.updateEntityGauges(newState)
		p.Log.Infof("published new switch state: %d vlans, %d interfaces, %d acls",
			newState.Vlans().Size(), newState.Interfaces().Size(),
			newState.Acls().Size())
	}
	p.appliedCfg = cfg
	p.appliedRaw = raw
	p.reportApplyResult(nil)
	return nil
}

func (p *Plugin) reportApplyResult(err error) {
	if p.StatusCheck == nil {
		return
	}
	if err != nil {
		p.StatusCheck.ReportStateChange(p.PluginName, statuscheck.Error, err)
	} else {
		p.StatusCheck.ReportStateChange(p.PluginName, statuscheck.OK, nil)
	}
}

func (p *Plugin) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "starting config watcher")
	}
	if err := watcher.Add(p.conf.ConfigFile); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "watching %s", p.conf.ConfigFile)
	}
	p.watcher = watcher
	p.quit = make(chan struct{})

	p.wg.Add(1)
	go p.watchConfig()
	return nil
}

func (p *Plugin) watchConfig() {
	defer p.wg.Done()
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.Log.Debugf("config file event: %v", event)
			if err := p.loadAndApply(); err != nil {
				p.Log.Errorf("re-applying %s failed: %v", p.conf.ConfigFile, err)
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.Log.Warnf("config watcher: %v", err)
		case <-p.quit:
			return
		}
	}
}
