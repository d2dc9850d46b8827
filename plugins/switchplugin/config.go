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

// Config holds the switchplugin configuration (switchplugin.conf).
type Config struct {
	// ConfigFile is the path to the switch configuration document. Empty
	// means the agent starts on the boot state and waits for Apply calls.
	ConfigFile string `json:"config-file"`

	// WatchConfig re-applies the document whenever the file changes.
	WatchConfig bool `json:"watch-config"`

	// PortCount is the number of front-panel ports of the switch.
	PortCount int `json:"port-count"`

	// QueueCount is the number of hardware egress queues per port.
	QueueCount int `json:"queue-count"`

	// LocalMac is the chassis MAC address.
	LocalMac string `json:"local-mac"`
}

func defaultConfig() *Config {
	return &Config{
		WatchConfig: true,
		PortCount:   32,
		QueueCount:  8,
		LocalMac:    "02:00:00:00:00:01",
	}
}

// loadConfig returns the plugin config merged from the defaults and the
// plugin's .conf file, if one is present.
func (p *Plugin) loadConfig() (*Config, error) {
	conf := defaultConfig()
	found, err := p.Cfg.LoadValue(conf)
	if err != nil {
		return nil, err
	}
	if !found {
		p.Log.Debug("switchplugin config not found, using defaults")
	}
	return conf, nil
}
