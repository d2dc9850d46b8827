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

package model_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
)

const sampleConfig = `{
  "defaultVlan": 1,
  "vlans": [
    {"id": 1, "name": "default"},
    {"id": 10, "name": "storage", "dhcpRelayAddressV4": "192.0.2.1"}
  ],
  "vlanPorts": [
    {"logicalPort": 1, "vlanID": 10, "emitTags": true}
  ],
  "interfaces": [
    {"intfID": 100, "routerID": 0, "vlanID": 10,
     "ipAddresses": ["10.0.0.1/24", "2001:db8::1/64"], "mtu": 9000}
  ],
  "acls": [
    {"name": "drop-telnet", "actionType": "DENY", "dstL4PortRange": {"min": 23, "max": 23}}
  ],
  "arpTimeout": 120
}`

func TestParseJsonDocument(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := model.Parse([]byte(sampleConfig))
	Expect(err).To(BeNil())

	Expect(cfg.DefaultVlan).To(Equal(1))
	Expect(cfg.Vlans).To(HaveLen(2))
	Expect(*cfg.Vlans[1].DhcpRelayAddressV4).To(Equal("192.0.2.1"))
	Expect(cfg.VlanPorts[0].EmitTags).To(BeTrue())
	Expect(*cfg.Interfaces[0].Mtu).To(Equal(9000))
	Expect(cfg.Interfaces[0].Name).To(BeNil())
	Expect(cfg.Acls[0].DstL4PortRange.Min).To(Equal(23))

	// Omitted scalars keep their defaults; present ones override.
	Expect(cfg.ArpTimeoutSeconds).To(Equal(120))
	Expect(cfg.ArpAgerInterval).To(Equal(5))
	Expect(cfg.MaxNeighborProbes).To(Equal(300))
	Expect(cfg.StaleEntryInterval).To(Equal(10))
}

func TestParseYamlDocument(t *testing.T) {
	RegisterTestingT(t)

	doc := `
defaultVlan: 1
vlans:
  - id: 1
    name: default
sFlowCollectors:
  - ip: 192.0.2.10
    port: 6343
`
	cfg, err := model.Parse([]byte(doc))
	Expect(err).To(BeNil())
	Expect(cfg.Vlans).To(HaveLen(1))
	Expect(cfg.SflowCollectors[0].Port).To(Equal(6343))
}

func TestLoadReturnsRawText(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "switch.json")
	Expect(os.WriteFile(path, []byte(sampleConfig), 0o644)).To(Succeed())

	cfg, raw, err := model.Load(path)
	Expect(err).To(BeNil())
	Expect(raw).To(Equal(sampleConfig))
	Expect(cfg.Vlans).To(HaveLen(2))

	_, _, err = model.Load(filepath.Join(t.TempDir(), "missing.json"))
	Expect(err).ToNot(BeNil())
}

func TestParseRejectsGarbage(t *testing.T) {
	RegisterTestingT(t)

	_, err := model.Parse([]byte(`{"vlans": "nope"}`))
	Expect(err).ToNot(BeNil())
}
