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
	"time"

	"github.com/pkg/errors"
	"go.ligato.io/cn-infra/v2/logging"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/platform"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/routecalls"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// Applier turns configuration documents into new immutable switch states.
// The zero dependencies are filled in by NewApplier; tests may inject their
// own route-updater factory or load-balancer applier.
type Applier struct {
	Log             logging.Logger
	NewRouteUpdater routecalls.UpdaterFactory
	LoadBalancers   LoadBalancerApplier
}

// NewApplier creates an applier with the default route engine and
// load-balancer applier.
func NewApplier(log logging.Logger) *Applier {
	return &Applier{
		Log:             log,
		NewRouteUpdater: routecalls.NewUpdater,
		LoadBalancers:   &defaultLoadBalancerApplier{},
	}
}

// Apply produces a new switch state realizing cfg on top of prev, or nil
// when the config changes nothing. prev is never mutated; on error no state
// is returned and prev remains authoritative. prevCfg is the document that
// produced prev (nil for a boot-time apply) and is consulted only for the
// static-route diff.
func (a *Applier) Apply(prev *state.SwitchState, cfg *model.SwitchConfig,
	plat platform.Platform, prevCfg *model.SwitchConfig) (*state.SwitchState, error) {

	if prevCfg == nil {
		prevCfg = model.NewSwitchConfig()
	}
	run := &applier{
		log:             a.Log,
		orig:            prev,
		cfg:             cfg,
		prevCfg:         prevCfg,
		plat:            plat,
		newRouteUpdater: a.NewRouteUpdater,
		loadBalancers:   a.LoadBalancers,
		portVlans:       map[state.PortID]state.VlanMembership{},
		vlanPorts:       map[state.VlanID]state.MemberPorts{},
		vlanInterfaces:  map[state.VlanID]*vlanIntfInfo{},
		intfRouteTables: map[state.RouterID]map[netip.Prefix]intfAddress{},
	}
	return run.run()
}

// applier carries the shared indices of one apply run. It is a bundle of
// by-reference state for the per-family helpers, built up front and consumed
// in a fixed order.
type applier struct {
	log             logging.Logger
	orig            *state.SwitchState
	cfg             *model.SwitchConfig
	prevCfg         *model.SwitchConfig
	plat            platform.Platform
	newRouteUpdater routecalls.UpdaterFactory
	loadBalancers   LoadBalancerApplier

	portVlans       map[state.PortID]state.VlanMembership
	vlanPorts       map[state.VlanID]state.MemberPorts
	vlanInterfaces  map[state.VlanID]*vlanIntfInfo
	intfRouteTables map[state.RouterID]map[netip.Prefix]intfAddress
}

// intfAddress remembers which interface advertises a network and with which
// host address, for interface-route synthesis.
type intfAddress struct {
	intf state.InterfaceID
	addr netip.Addr
}

func (r *applier) run() (*state.SwitchState, error) {
	newState := r.orig.Clone()
	changed := false

	if cp := r.updateControlPlane(); cp != nil {
		newState.ResetControlPlane(cp)
		changed = true
	}

	if err := r.processVlanPorts(); err != nil {
		return nil, err
	}

	newAcls, err := r.updateAcls()
	if err != nil {
		return nil, err
	}
	if newAcls != nil {
		newState.ResetAcls(newAcls)
		changed = true
	}

	newPorts, err := r.updatePorts()
	if err != nil {
		return nil, err
	}
	if newPorts != nil {
		newState.ResetPorts(newPorts)
		changed = true
	}

	newAggPorts, err := r.updateAggregatePorts()
	if err != nil {
		return nil, err
	}
	if newAggPorts != nil {
		newState.ResetAggregatePorts(newAggPorts)
		changed = true
	}

	newIntfs, err := r.updateInterfaces()
	if err != nil {
		return nil, err
	}
	if newIntfs != nil {
		newState.ResetInterfaces(newIntfs)
		changed = true
	}

	// updateInterfaces populates vlanInterfaces, so VLANs must come after.
	newVlans, err := r.updateVlans()
	if err != nil {
		return nil, err
	}
	if newVlans != nil {
		newState.ResetVlans(newVlans)
		changed = true
	}

	// updateInterfaces populates intfRouteTables, so routes come after too.
	newTables, err := r.updateInterfaceRoutes()
	if err != nil {
		return nil, err
	}
	if newTables != nil {
		newState.ResetRouteTables(newTables)
		changed = true
	}
	newerTables, err := r.updateStaticRoutes(newState.RouteTables())
	if err != nil {
		return nil, err
	}
	if newerTables != nil {
		newState.ResetRouteTables(newerTables)
		changed = true
	}

	dfltVlan := state.VlanID(r.cfg.DefaultVlan)
	if r.orig.DefaultVlan() != dfltVlan {
		if newState.Vlans().Vlan(dfltVlan) == nil {
			return nil, errors.Errorf("default VLAN %d does not exist", dfltVlan)
		}
		newState.SetDefaultVlan(dfltVlan)
		changed = true
	}

	// Every interface must refer to a VLAN that made it into the new state,
	// and a non-default VLAN carries at most one interface.
	if err := r.validateVlanInterfaces(newState); err != nil {
		return nil, err
	}

	if scalarsChanged, err := r.applyScalars(newState); err != nil {
		return nil, err
	} else if scalarsChanged {
		changed = true
	}

	newCollectors, err := r.updateSflowCollectors()
	if err != nil {
		return nil, err
	}
	if newCollectors != nil {
		newState.ResetSflowCollectors(newCollectors)
		changed = true
	}

	newLoadBalancers, err := r.loadBalancers.UpdateLoadBalancers(
		r.orig.LoadBalancers(), r.cfg.LoadBalancers, r.plat)
	if err != nil {
		return nil, err
	}
	if newLoadBalancers != nil {
		newState.ResetLoadBalancers(newLoadBalancers)
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return newState, nil
}

// updateControlPlane is an extension point: CPU queue provisioning is not
// driven from the config document yet.
func (r *applier) updateControlPlane() *state.ControlPlane {
	return nil
}

func (r *applier) validateVlanInterfaces(newState *state.SwitchState) error {
	newVlans := newState.Vlans()
	for _, vid := range sortedVlanIDs(r.vlanInterfaces) {
		entry := r.vlanInterfaces[vid]
		if newVlans.Vlan(vid) == nil {
			return errors.Errorf("interface %d refers to non-existent VLAN %d",
				entry.interfaces[0], vid)
		}
		if len(entry.interfaces) > 1 && vid != newState.DefaultVlan() {
			return errors.Errorf("VLAN %d refers to %d interfaces",
				vid, len(entry.interfaces))
		}
	}
	return nil
}

func (r *applier) applyScalars(newState *state.SwitchState) (bool, error) {
	changed := false

	arpAgerInterval := time.Duration(r.cfg.ArpAgerInterval) * time.Second
	if r.orig.ArpAgerInterval() != arpAgerInterval {
		newState.SetArpAgerInterval(arpAgerInterval)
		changed = true
	}

	arpTimeout := time.Duration(r.cfg.ArpTimeoutSeconds) * time.Second
	if r.orig.ArpTimeout() != arpTimeout {
		newState.SetArpTimeout(arpTimeout)
		// TODO: add an ndpTimeout field to the config document; NDP reuses
		// the ARP timeout until then.
		newState.SetNdpTimeout(arpTimeout)
		changed = true
	}

	maxNeighborProbes := uint32(r.cfg.MaxNeighborProbes)
	if r.orig.MaxNeighborProbes() != maxNeighborProbes {
		newState.SetMaxNeighborProbes(maxNeighborProbes)
		changed = true
	}

	type dhcpSrc struct {
		field string
		cfg   *string
		v4    bool
		old   netip.Addr
		set   func(netip.Addr)
	}
	for _, src := range []dhcpSrc{
		{"dhcpRelaySrcOverrideV4", r.cfg.DhcpRelaySrcOverrideV4, true,
			r.orig.DhcpV4RelaySrc(), newState.SetDhcpV4RelaySrc},
		{"dhcpRelaySrcOverrideV6", r.cfg.DhcpRelaySrcOverrideV6, false,
			r.orig.DhcpV6RelaySrc(), newState.SetDhcpV6RelaySrc},
		{"dhcpReplySrcOverrideV4", r.cfg.DhcpReplySrcOverrideV4, true,
			r.orig.DhcpV4ReplySrc(), newState.SetDhcpV4ReplySrc},
		{"dhcpReplySrcOverrideV6", r.cfg.DhcpReplySrcOverrideV6, false,
			r.orig.DhcpV6ReplySrc(), newState.SetDhcpV6ReplySrc},
	} {
		addr, err := parseOptionalAddr(src.cfg, src.v4, src.field)
		if err != nil {
			return false, err
		}
		if src.old != addr {
			src.set(addr)
			changed = true
		}
	}

	staleEntryInterval := time.Duration(r.cfg.StaleEntryInterval) * time.Second
	if r.orig.StaleEntryInterval() != staleEntryInterval {
		newState.SetStaleEntryInterval(staleEntryInterval)
		changed = true
	}

	return changed, nil
}

func parseOptionalAddr(s *string, v4 bool, field string) (netip.Addr, error) {
	if s == nil {
		if v4 {
			return netip.IPv4Unspecified(), nil
		}
		return netip.IPv6Unspecified(), nil
	}
	addr, err := netip.ParseAddr(*s)
	if err != nil {
		return netip.Addr{}, errors.Wrapf(err, "invalid address in %s", field)
	}
	if v4 != addr.Is4() {
		return netip.Addr{}, errors.Errorf(
			"address %s in %s has the wrong family", *s, field)
	}
	return addr, nil
}

// putNode inserts either the updated node (marking change) or the original
// into the new collection; a second insert for the same id is a config bug.
func putNode[ID comparable, N any](m map[ID]*N, id ID, origNode, newNode *N) (bool, error) {
	if _, ok := m[id]; ok {
		return false, errors.Errorf("duplicate entry %v", id)
	}
	if newNode != nil {
		m[id] = newNode
		return true, nil
	}
	m[id] = origNode
	return false, nil
}
