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

package switchplugin_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

func TestAclDenyBeforePolicyPermits(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Acls = []model.AclEntry{
		{Name: "p1", ActionType: "PERMIT", DstIp: strPtr("10.0.0.0/24")},
		{Name: "d1", ActionType: "DENY", SrcIp: strPtr("192.0.2.0/24")},
	}
	cfg.GlobalEgressTrafficPolicy = &model.TrafficPolicy{
		MatchToAction: []model.MatchToAction{{
			Matcher: "p1",
			Action:  model.MatchAction{SendToQueue: intPtr(3)},
		}},
	}

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	entries := newState.Acls().Entries()
	Expect(entries).To(HaveLen(2))

	Expect(entries[0].Name()).To(Equal("d1"))
	Expect(entries[0].Priority()).To(Equal(100000))
	Expect(entries[0].ActionType()).To(Equal(state.AclDeny))
	Expect(entries[0].AclAction()).To(BeNil())

	Expect(entries[1].Name()).To(Equal("system:p1"))
	Expect(entries[1].Priority()).To(Equal(100001))
	Expect(entries[1].ActionType()).To(Equal(state.AclPermit))
	Expect(entries[1].AclAction()).ToNot(BeNil())
	Expect(*entries[1].AclAction().SendToQueue).To(Equal(3))
}

func TestAclPermitWithoutPolicyIsDropped(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Acls = []model.AclEntry{
		{Name: "p1", ActionType: "PERMIT"},
	}

	// A PERMIT entry enters the state only through a traffic policy.
	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(newState).To(BeNil())
}

func TestAclUnknownMatcher(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.GlobalEgressTrafficPolicy = &model.TrafficPolicy{
		MatchToAction: []model.MatchToAction{{Matcher: "ghost"}},
	}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("no acl named ghost"))
}

func TestAclPortPolicy(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Acls = []model.AclEntry{{Name: "p1", ActionType: "PERMIT"}}
	cfg.Ports = []model.Port{{
		LogicalID: 2,
		EgressTrafficPolicy: &model.TrafficPolicy{
			MatchToAction: []model.MatchToAction{{
				Matcher: "p1",
				Action:  model.MatchAction{PacketCounter: strPtr("p1-hits")},
			}},
		},
	}}

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	entries := newState.Acls().Entries()
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].Name()).To(Equal("system:port2:p1"))
	Expect(*entries[0].DstPort()).To(Equal(2))
	Expect(*entries[0].AclAction().PacketCounter).To(Equal("p1-hits"))
}

func TestAclPortPolicyMismatch(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Acls = []model.AclEntry{{
		Name:       "p1",
		ActionType: "PERMIT",
		DstPort:    intPtr(3),
	}}
	cfg.Ports = []model.Port{{
		LogicalID: 2,
		EgressTrafficPolicy: &model.TrafficPolicy{
			MatchToAction: []model.MatchToAction{{Matcher: "p1"}},
		},
	}}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("dstPort is set to 3 but set on port 2"))
}

func TestAclValidation(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	tests := []struct {
		name   string
		acl    model.AclEntry
		errMsg string
	}{
		{
			name: "l4 range min over 65535",
			acl: model.AclEntry{Name: "d", ActionType: "DENY",
				SrcL4PortRange: &model.L4PortRange{Min: 70000, Max: 70001}},
			errMsg: "min value larger than 65535",
		},
		{
			name: "l4 range min over max",
			acl: model.AclEntry{Name: "d", ActionType: "DENY",
				DstL4PortRange: &model.L4PortRange{Min: 200, Max: 100}},
			errMsg: "min value larger than its max value",
		},
		{
			name: "packet length min over max",
			acl: model.AclEntry{Name: "d", ActionType: "DENY",
				PktLenRange: &model.PktLenRange{Min: 1000, Max: 100}},
			errMsg: "packet length",
		},
		{
			name:   "icmp code without type",
			acl:    model.AclEntry{Name: "d", ActionType: "DENY", IcmpCode: intPtr(1)},
			errMsg: "icmp type must be set",
		},
		{
			name: "icmp type out of range",
			acl: model.AclEntry{Name: "d", ActionType: "DENY",
				Proto: intPtr(1), IcmpType: intPtr(300)},
			errMsg: "icmp type value must be between",
		},
		{
			name: "icmp type without icmp proto",
			acl: model.AclEntry{Name: "d", ActionType: "DENY",
				Proto: intPtr(6), IcmpType: intPtr(8)},
			errMsg: "proto must be either icmp or icmpv6",
		},
		{
			name: "ttl value out of range",
			acl: model.AclEntry{Name: "d", ActionType: "DENY",
				Ttl: &model.Ttl{Value: 300, Mask: 255}},
			errMsg: "ttl value is larger than 255",
		},
		{
			name: "ttl mask negative",
			acl: model.AclEntry{Name: "d", ActionType: "DENY",
				Ttl: &model.Ttl{Value: 128, Mask: -1}},
			errMsg: "ttl mask is less than 0",
		},
	}

	for _, test := range tests {
		cfg := model.NewSwitchConfig()
		cfg.Acls = []model.AclEntry{test.acl}
		_, err := applier.Apply(boot, cfg, plat, nil)
		Expect(err).ToNot(BeNil(), test.name)
		Expect(err.Error()).To(ContainSubstring(test.errMsg), test.name)
	}
}

func TestAclIcmpv6Accepted(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Acls = []model.AclEntry{{
		Name:       "nd-ra",
		ActionType: "DENY",
		Proto:      intPtr(58),
		IcmpType:   intPtr(134),
		IcmpCode:   intPtr(0),
	}}

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	entry := newState.Acls().Entry("nd-ra")
	Expect(entry).ToNot(BeNil())
	Expect(*entry.IcmpType()).To(Equal(134))
}

func TestAclSharingAcrossApplies(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Acls = []model.AclEntry{{Name: "d1", ActionType: "DENY"}}

	first, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	// Adding a second DENY below d1 keeps the d1 node shared.
	next := model.NewSwitchConfig()
	next.Acls = []model.AclEntry{
		{Name: "d1", ActionType: "DENY"},
		{Name: "d2", ActionType: "DENY", SrcIp: strPtr("198.51.100.0/24")},
	}
	second, err := applier.Apply(first, next, plat, cfg)
	Expect(err).To(BeNil())
	Expect(second.Acls().Size()).To(Equal(2))
	Expect(second.Acls().Entry("d1")).To(BeIdenticalTo(first.Acls().Entry("d1")))
}
