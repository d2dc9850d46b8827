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
	"net/netip"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.ligato.io/cn-infra/v2/logging/logrus"

	"github.com/opennetsys/switch-agent/plugins/switchplugin"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/platform"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

const (
	testChassisMac = "02:01:02:03:04:05"
	testQueueCount = 4
	testPortCount  = 4
)

func testSetup(t *testing.T) (*switchplugin.Applier, platform.Platform, *state.SwitchState) {
	t.Helper()
	mac, err := state.ParseMac(testChassisMac)
	if err != nil {
		t.Fatal(err)
	}
	plat := platform.NewDefault(mac, testQueueCount)
	boot := state.NewSwitchState()
	for id := state.PortID(1); id <= testPortCount; id++ {
		boot.Ports()[id] = state.NewPort(id, testQueueCount)
	}
	return switchplugin.NewApplier(logrus.DefaultLogger()), plat, boot
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// vlan10Config attaches port 1 to VLAN 10 and interface 100 (router 0,
// 10.0.0.1/24) to it.
func vlan10Config() *model.SwitchConfig {
	cfg := model.NewSwitchConfig()
	cfg.Vlans = []model.Vlan{{ID: 10, Name: "ten"}}
	cfg.VlanPorts = []model.VlanPort{{LogicalPort: 1, VlanID: 10}}
	cfg.Interfaces = []model.Interface{{
		IntfID:      100,
		RouterID:    0,
		VlanID:      10,
		IPAddresses: []string{"10.0.0.1/24"},
	}}
	return cfg
}

func TestApplyEmptyConfigToEmptyState(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	newState, err := applier.Apply(boot, model.NewSwitchConfig(), plat, nil)
	Expect(err).To(BeNil())
	Expect(newState).To(BeNil())
}

func TestApplyDoesNotMutatePrev(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	snapshot := boot.Clone()
	cfg := vlan10Config()

	first, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(first).ToNot(BeNil())
	Expect(boot.Equal(snapshot)).To(BeTrue())

	// A second run over the same inputs gives an equal result.
	second, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(second.Equal(first)).To(BeTrue())
}

func TestApplyIsIdempotent(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(newState).ToNot(BeNil())

	again, err := applier.Apply(newState, cfg, plat, cfg)
	Expect(err).To(BeNil())
	Expect(again).To(BeNil())
}

func TestApplyVlanAndInterface(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	newState, err := applier.Apply(boot, vlan10Config(), plat, nil)
	Expect(err).To(BeNil())
	Expect(newState).ToNot(BeNil())

	Expect(newState.Vlans().Size()).To(Equal(1))
	Expect(newState.Interfaces().Size()).To(Equal(1))

	intf := newState.Interfaces().Interface(100)
	Expect(intf).ToNot(BeNil())
	Expect(intf.Name()).To(Equal("Interface 100"))
	Expect(intf.Mac()).To(Equal(plat.LocalMac()))
	Expect(intf.Mtu()).To(Equal(state.DefaultMtu))
	Expect(intf.Addresses()).To(HaveKeyWithValue(
		netip.MustParseAddr("10.0.0.1"), uint8(24)))
	Expect(intf.Addresses()).To(HaveKeyWithValue(
		plat.LocalMac().LinkLocalAddr(), state.LinkLocalMask))

	vlan := newState.Vlans().Vlan(10)
	Expect(vlan).ToNot(BeNil())
	Expect(vlan.InterfaceID()).To(BeEquivalentTo(100))
	Expect(vlan.Ports()).To(HaveKey(state.PortID(1)))
	Expect(vlan.ArpResponseTable()).To(HaveKeyWithValue(
		netip.MustParseAddr("10.0.0.1"),
		state.NeighborResponseEntry{Mac: plat.LocalMac(), Interface: 100}))
	Expect(vlan.NdpResponseTable()).To(HaveKey(plat.LocalMac().LinkLocalAddr()))

	// Port 1 carries the VLAN membership now.
	Expect(newState.Ports().Port(1).Vlans()).To(HaveKey(state.VlanID(10)))

	// Interface route plus the router's link-local network.
	table := newState.RouteTables().Table(0)
	Expect(table).ToNot(BeNil())
	connected := table.Route(netip.MustParsePrefix("10.0.0.0/24"))
	Expect(connected).ToNot(BeNil())
	entry := connected.EntryFor(state.ClientInterfaceRoute)
	Expect(entry).ToNot(BeNil())
	Expect(entry.Distance).To(Equal(state.AdminDirectlyConnected))
	Expect(entry.NextHops).To(ConsistOf(state.ResolvedNextHop(
		netip.MustParseAddr("10.0.0.1"), 100, state.UcmpDefaultWeight)))

	linkLocal := table.Route(netip.MustParsePrefix("fe80::/64"))
	Expect(linkLocal).ToNot(BeNil())
	Expect(linkLocal.EntryFor(state.ClientInterfaceRoute).Action).
		To(Equal(state.ForwardToCpu))
}

func TestApplySharesUntouchedSubtrees(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	first, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	// Only add an sFlow collector; every other family input is unchanged.
	next := vlan10Config()
	next.SflowCollectors = []model.SflowCollector{{IP: "192.0.2.10", Port: 6343}}

	second, err := applier.Apply(first, next, plat, cfg)
	Expect(err).To(BeNil())
	Expect(second).ToNot(BeNil())

	Expect(second.Vlans().Vlan(10)).To(BeIdenticalTo(first.Vlans().Vlan(10)))
	Expect(second.Interfaces().Interface(100)).To(
		BeIdenticalTo(first.Interfaces().Interface(100)))
	Expect(second.Ports().Port(1)).To(BeIdenticalTo(first.Ports().Port(1)))
	Expect(second.RouteTables().Table(0)).To(
		BeIdenticalTo(first.RouteTables().Table(0)))
	Expect(second.SflowCollectors().Size()).To(Equal(1))
}

func TestApplyVlanMultiRouter(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.Interfaces = append(cfg.Interfaces, model.Interface{
		IntfID:      101,
		RouterID:    1,
		VlanID:      10,
		IPAddresses: []string{"10.0.1.1/24"},
	})

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("multiple different virtual routers"))
	Expect(boot.Vlans().Size()).To(Equal(0))
}

func TestApplyInterfaceWithoutVlan(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.Vlans = nil

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("non-existent VLAN 10"))
}

func TestApplyRemovingReferencedVlanFails(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	withVlan, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	next := vlan10Config()
	next.Vlans = nil

	_, err = applier.Apply(withVlan, next, plat, cfg)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("non-existent VLAN 10"))
}

func TestApplyVlanMultiInterface(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.Interfaces = append(cfg.Interfaces, model.Interface{
		IntfID:      101,
		RouterID:    0,
		VlanID:      10,
		IPAddresses: []string{"10.0.1.1/24"},
	})

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("refers to 2 interfaces"))

	// The same shape on the default VLAN is allowed.
	cfg.DefaultVlan = 10
	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(newState.DefaultVlan()).To(BeEquivalentTo(10))
}

func TestApplySharedVlanIpMustAgree(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	// Same IP, same MAC, same mask on the default VLAN: the VLAN
	// consistency check accepts this.
	cfg := vlan10Config()
	cfg.DefaultVlan = 10
	cfg.Interfaces = append(cfg.Interfaces, model.Interface{
		IntfID:      101,
		RouterID:    0,
		VlanID:      10,
		IPAddresses: []string{"10.0.0.1/24"},
	})
	_, err := applier.Apply(boot, cfg, plat, nil)
	// The shared address also means a shared network, which both
	// interfaces claim; interface routes reject that.
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("duplicate network address"))

	// A different mask on the shared IP fails the VLAN consistency check.
	cfg.Interfaces[1].IPAddresses = []string{"10.0.0.1/25"}
	_, err = applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("different masks"))
}

func TestApplyDuplicateVlanPort(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.VlanPorts = []model.VlanPort{
		{LogicalPort: 1, VlanID: 10},
		{LogicalPort: 1, VlanID: 10, EmitTags: true},
	}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("duplicate VlanPort"))
}

func TestApplyDuplicateInterfaceAddress(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.Interfaces[0].IPAddresses = []string{"10.0.0.1/24", "10.0.0.1/24"}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("duplicate network IP address"))
}

func TestApplyDuplicateNetworkAcrossInterfaces(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.Vlans = append(cfg.Vlans, model.Vlan{ID: 20, Name: "twenty"})
	cfg.Interfaces = append(cfg.Interfaces, model.Interface{
		IntfID:      101,
		RouterID:    0,
		VlanID:      20,
		IPAddresses: []string{"10.0.0.2/24"},
	})

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("duplicate network address"))
}

func TestApplyUnknownPort(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Ports = []model.Port{{LogicalID: 99, State: "ENABLED"}}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("non-existent port 99"))
}

func TestApplyUnlistedPortResetsToDefault(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Ports = []model.Port{{LogicalID: 1, State: "ENABLED", Name: "uplink"}}

	enabled, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(enabled.Ports().Port(1).AdminState()).To(Equal(state.PortEnabled))

	// Dropping the port from the config disables it again.
	next, err := applier.Apply(enabled, model.NewSwitchConfig(), plat, cfg)
	Expect(err).To(BeNil())
	Expect(next).ToNot(BeNil())
	Expect(next.Ports().Port(1).AdminState()).To(Equal(state.PortDisabled))
	Expect(next.Ports().Port(1).Name()).To(Equal(""))
	Expect(next.Ports().Size()).To(Equal(testPortCount))
}

func TestApplyPortQueues(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Ports = []model.Port{{
		LogicalID: 1,
		Queues: []model.PortQueue{{
			ID:         2,
			Scheduling: "STRICT_PRIORITY",
			Weight:     intPtr(10),
			Aqm: &model.QueueAqm{
				Detection: &model.LinearDetection{MinThresholdBytes: 1000, MaxThresholdBytes: 2000},
				Ecn:       true,
			},
		}},
	}}

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	queues := newState.Ports().Port(1).Queues()
	Expect(queues).To(HaveLen(testQueueCount))
	Expect(queues[2].Scheduling()).To(Equal(state.SchedulingStrictPriority))
	Expect(*queues[2].Weight()).To(Equal(10))
	Expect(queues[2].Aqm().Ecn).To(BeTrue())
	// Unconfigured queues stay at their defaults.
	Expect(queues[0].Equal(state.NewPortQueue(0))).To(BeTrue())
}

func TestApplyInvalidQueueId(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Ports = []model.Port{{
		LogicalID: 1,
		Queues:    []model.PortQueue{{ID: testQueueCount}},
	}}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("invalid queues"))
}

func TestApplyAqmWithoutDetection(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.Ports = []model.Port{{
		LogicalID: 1,
		Queues:    []model.PortQueue{{ID: 0, Aqm: &model.QueueAqm{Ecn: true}}},
	}}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("congestion detection"))
}

func TestApplyDhcpOverrides(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.Vlans[0].DhcpRelayAddressV4 = strPtr("192.0.2.1")
	cfg.Vlans[0].DhcpRelayOverridesV4 = map[string]string{
		"02:aa:bb:cc:dd:ee": "192.0.2.2",
	}
	cfg.Vlans[0].DhcpRelayOverridesV6 = map[string]string{
		"02:aa:bb:cc:dd:ee": "2001:db8::2",
	}

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	vlan := newState.Vlans().Vlan(10)
	Expect(vlan.DhcpV4Relay()).To(Equal(netip.MustParseAddr("192.0.2.1")))
	Expect(vlan.DhcpV6Relay()).To(Equal(netip.IPv6Unspecified()))

	mac, _ := state.ParseMac("02:aa:bb:cc:dd:ee")
	Expect(vlan.DhcpV4Overrides()).To(HaveKeyWithValue(mac,
		netip.MustParseAddr("192.0.2.2")))
	Expect(vlan.DhcpV6Overrides()).To(HaveKeyWithValue(mac,
		netip.MustParseAddr("2001:db8::2")))
}

func TestApplyBadDhcpOverride(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.Vlans[0].DhcpRelayOverridesV4 = map[string]string{
		"02:aa:bb:cc:dd:ee": "2001:db8::2",
	}
	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("IPv4 address in DHCPv4 relay override map"))

	cfg = vlan10Config()
	cfg.Vlans[0].DhcpRelayOverridesV6 = map[string]string{
		"02:aa:bb:cc:dd:ee": "192.0.2.2",
	}
	_, err = applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("IPv6 address in DHCPv6 relay override map"))
}

func TestApplyScalars(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.ArpTimeoutSeconds = 120
	cfg.ArpAgerInterval = 7
	cfg.MaxNeighborProbes = 5
	cfg.StaleEntryInterval = 30
	cfg.DhcpRelaySrcOverrideV4 = strPtr("192.0.2.254")

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(newState.ArpTimeout()).To(Equal(120 * time.Second))
	// The NDP timeout follows the ARP timeout.
	Expect(newState.NdpTimeout()).To(Equal(120 * time.Second))
	Expect(newState.ArpAgerInterval()).To(Equal(7 * time.Second))
	Expect(newState.MaxNeighborProbes()).To(BeEquivalentTo(5))
	Expect(newState.StaleEntryInterval()).To(Equal(30 * time.Second))
	Expect(newState.DhcpV4RelaySrc()).To(Equal(netip.MustParseAddr("192.0.2.254")))
}

func TestApplyMissingDefaultVlan(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.DefaultVlan = 42

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("default VLAN 42 does not exist"))
}

func TestApplySflowCollectors(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.SflowCollectors = []model.SflowCollector{{IP: "192.0.2.10", Port: 6343}}

	first, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(first.SflowCollectors().Size()).To(Equal(1))
	Expect(first.SflowCollectors().Collector("192.0.2.10:6343")).ToNot(BeNil())

	// A port change is an identity change: delete plus create.
	next := model.NewSwitchConfig()
	next.SflowCollectors = []model.SflowCollector{{IP: "192.0.2.10", Port: 6344}}
	second, err := applier.Apply(first, next, plat, cfg)
	Expect(err).To(BeNil())
	Expect(second.SflowCollectors().Size()).To(Equal(1))
	Expect(second.SflowCollectors().Collector("192.0.2.10:6344")).ToNot(BeNil())
	Expect(second.SflowCollectors().Collector("192.0.2.10:6343")).To(BeNil())
}

func TestApplyStaticRoutes(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	cfg.StaticRoutesWithNhops = []model.StaticRouteWithNextHops{{
		RouterID: 0, Prefix: "10.10.0.0/16", Nexthops: []string{"10.0.0.2"},
	}}
	cfg.StaticRoutesToNull = []model.StaticRouteNoNextHops{{
		RouterID: 0, Prefix: "192.0.2.0/24",
	}}
	cfg.StaticRoutesToCpu = []model.StaticRouteNoNextHops{{
		RouterID: 0, Prefix: "198.51.100.0/24",
	}}

	withRoutes, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	table := withRoutes.RouteTables().Table(0)
	nhopRoute := table.Route(netip.MustParsePrefix("10.10.0.0/16"))
	Expect(nhopRoute).ToNot(BeNil())
	Expect(nhopRoute.EntryFor(state.ClientStaticRoute).NextHops).To(HaveLen(1))

	Expect(table.Route(netip.MustParsePrefix("192.0.2.0/24")).
		EntryFor(state.ClientStaticRoute).Action).To(Equal(state.ForwardDrop))
	Expect(table.Route(netip.MustParsePrefix("198.51.100.0/24")).
		EntryFor(state.ClientStaticRoute).Action).To(Equal(state.ForwardToCpu))

	// Dropping a static route from the config withdraws it.
	next := vlan10Config()
	next.StaticRoutesToNull = cfg.StaticRoutesToNull
	next.StaticRoutesToCpu = cfg.StaticRoutesToCpu

	pruned, err := applier.Apply(withRoutes, next, plat, cfg)
	Expect(err).To(BeNil())
	Expect(pruned).ToNot(BeNil())
	Expect(pruned.RouteTables().Table(0).
		Route(netip.MustParsePrefix("10.10.0.0/16"))).To(BeNil())
}

func TestApplyRemovedInterfaceWithdrawsRoutes(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := vlan10Config()
	withIntf, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())
	Expect(withIntf.RouteTables().Table(0)).ToNot(BeNil())

	empty := model.NewSwitchConfig()
	without, err := applier.Apply(withIntf, empty, plat, cfg)
	Expect(err).To(BeNil())
	Expect(without).ToNot(BeNil())
	Expect(without.Interfaces().Size()).To(Equal(0))
	Expect(without.RouteTables().Table(0)).To(BeNil())
}

func TestApplyAggregatePort(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	half := 0.5
	cfg := model.NewSwitchConfig()
	cfg.AggregatePorts = []model.AggregatePort{{
		Key:  1,
		Name: "po1",
		MemberPorts: []model.AggregatePortMember{
			{MemberPortID: 4, Priority: 1},
			{MemberPortID: 2, Priority: 1},
			{MemberPortID: 3, Priority: 1},
			{MemberPortID: 1, Priority: 1},
		},
		MinimumCapacity: &model.MinimumCapacity{LinkPercentage: &half},
	}}

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	agg := newState.AggregatePorts().AggregatePort(1)
	Expect(agg).ToNot(BeNil())
	Expect(agg.MinLinkCount()).To(BeEquivalentTo(2))
	// Subports sort by port id.
	Expect(agg.Subports()[0].PortID).To(BeEquivalentTo(1))
	Expect(agg.Subports()[3].PortID).To(BeEquivalentTo(4))
	// No lacp block in the config: actor parameters fall back to the
	// chassis MAC and the default priority.
	Expect(agg.SystemID()).To(Equal(plat.LocalMac()))
	Expect(agg.SystemPriority()).To(Equal(state.DefaultSystemPriority))
}

func TestApplySubportUnknownPort(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.AggregatePorts = []model.AggregatePort{{
		Key:         1,
		MemberPorts: []model.AggregatePortMember{{MemberPortID: 99}},
	}}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("non-existent port 99"))
}

func TestApplySubportPriorityRange(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.AggregatePorts = []model.AggregatePort{{
		Key:         1,
		MemberPorts: []model.AggregatePortMember{{MemberPortID: 1, Priority: 1 << 16}},
	}}

	_, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(ContainSubstring("priority outside of [0, 2^16)"))
}

func TestApplyLoadBalancers(t *testing.T) {
	RegisterTestingT(t)
	applier, plat, boot := testSetup(t)

	cfg := model.NewSwitchConfig()
	cfg.LoadBalancers = []model.LoadBalancer{{
		ID:              "ECMP",
		Algorithm:       "CRC",
		IPv4Fields:      []string{"SOURCE_ADDRESS", "DESTINATION_ADDRESS"},
		TransportFields: []string{"SOURCE_PORT", "DESTINATION_PORT"},
	}}

	newState, err := applier.Apply(boot, cfg, plat, nil)
	Expect(err).To(BeNil())

	lb := newState.LoadBalancers().LoadBalancer(state.LoadBalancerEcmp)
	Expect(lb).ToNot(BeNil())
	Expect(lb.IPv4Fields().Has(state.FieldSourceAddress)).To(BeTrue())
	Expect(lb.IPv4Fields().Has(state.FieldFlowLabel)).To(BeFalse())

	// Same config again: no change.
	again, err := applier.Apply(newState, cfg, plat, cfg)
	Expect(err).To(BeNil())
	Expect(again).To(BeNil())
}
