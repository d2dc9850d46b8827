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
	"fmt"
	"maps"
	"net/netip"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// updateInterfaces diffs the configured interfaces against the previous
// state. As a side effect it fills the per-VLAN interface index and the
// interface route tables, which the VLAN and route steps consume.
func (r *applier) updateInterfaces() (state.InterfaceMap, error) {
	origIntfs := r.orig.Interfaces()
	newIntfs := state.InterfaceMap{}
	changed := false

	numExistingProcessed := 0
	for i := range r.cfg.Interfaces {
		intfCfg := &r.cfg.Interfaces[i]
		id := state.InterfaceID(intfCfg.IntfID)
		origIntf := origIntfs.Interface(id)

		newAddrs, err := r.getInterfaceAddresses(intfCfg)
		if err != nil {
			return nil, err
		}

		var newIntf *state.Interface
		if origIntf != nil {
			newIntf, err = r.updateInterface(origIntf, intfCfg, newAddrs)
			numExistingProcessed++
		} else {
			newIntf, err = r.createInterface(intfCfg, newAddrs)
		}
		if err != nil {
			return nil, err
		}

		processed := newIntf
		if processed == nil {
			processed = origIntf
		}
		if err := r.updateVlanInterfaces(processed); err != nil {
			return nil, err
		}

		ch, err := putNode(newIntfs, id, origIntf, newIntf)
		if err != nil {
			return nil, err
		}
		changed = changed || ch
	}

	if numExistingProcessed != origIntfs.Size() {
		// Some existing interfaces were removed.
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return newIntfs, nil
}

func (r *applier) createInterface(intfCfg *model.Interface,
	addrs state.Addresses) (*state.Interface, error) {

	mac, err := r.getInterfaceMac(intfCfg)
	if err != nil {
		return nil, err
	}
	intf := state.NewInterface(
		state.InterfaceID(intfCfg.IntfID),
		state.RouterID(intfCfg.RouterID),
		state.VlanID(intfCfg.VlanID),
		getInterfaceName(intfCfg),
		mac,
		r.getInterfaceMtu(intfCfg),
		intfCfg.IsVirtual,
		intfCfg.IsStateSyncDisabled,
	)
	intf.SetAddresses(addrs)
	if intfCfg.Ndp != nil {
		intf.SetNdpConfig(ndpFromConfig(intfCfg.Ndp))
	}
	return intf, nil
}

func (r *applier) updateInterface(orig *state.Interface, intfCfg *model.Interface,
	addrs state.Addresses) (*state.Interface, error) {

	mac, err := r.getInterfaceMac(intfCfg)
	if err != nil {
		return nil, err
	}
	name := getInterfaceName(intfCfg)
	mtu := r.getInterfaceMtu(intfCfg)
	var ndp state.NdpConfig
	if intfCfg.Ndp != nil {
		ndp = ndpFromConfig(intfCfg.Ndp)
	}

	if orig.RouterID() == state.RouterID(intfCfg.RouterID) &&
		orig.VlanID() == state.VlanID(intfCfg.VlanID) &&
		orig.Name() == name &&
		orig.Mac() == mac &&
		maps.Equal(orig.Addresses(), addrs) &&
		orig.NdpConfig() == ndp &&
		orig.Mtu() == mtu &&
		orig.IsVirtual() == intfCfg.IsVirtual &&
		orig.IsStateSyncDisabled() == intfCfg.IsStateSyncDisabled {
		return nil, nil
	}

	newIntf := orig.Clone()
	newIntf.SetRouterID(state.RouterID(intfCfg.RouterID))
	newIntf.SetVlanID(state.VlanID(intfCfg.VlanID))
	newIntf.SetName(name)
	newIntf.SetMac(mac)
	newIntf.SetAddresses(addrs)
	newIntf.SetNdpConfig(ndp)
	newIntf.SetMtu(mtu)
	newIntf.SetIsVirtual(intfCfg.IsVirtual)
	newIntf.SetIsStateSyncDisabled(intfCfg.IsStateSyncDisabled)
	return newIntf, nil
}

func getInterfaceName(intfCfg *model.Interface) string {
	if intfCfg.Name != nil {
		return *intfCfg.Name
	}
	return fmt.Sprintf("Interface %d", intfCfg.IntfID)
}

func (r *applier) getInterfaceMac(intfCfg *model.Interface) (state.Mac, error) {
	if intfCfg.Mac != nil {
		return state.ParseMac(*intfCfg.Mac)
	}
	return r.plat.LocalMac(), nil
}

func (r *applier) getInterfaceMtu(intfCfg *model.Interface) int {
	if intfCfg.Mtu != nil {
		return *intfCfg.Mtu
	}
	return r.plat.DefaultMtu()
}

func ndpFromConfig(ndpCfg *model.NdpConfig) state.NdpConfig {
	return state.NdpConfig{
		RouterAdvertisementSeconds:     ndpCfg.RouterAdvertisementSeconds,
		CurHopLimit:                    ndpCfg.CurHopLimit,
		RouterLifetimeSeconds:          ndpCfg.RouterLifetimeSeconds,
		PrefixValidLifetimeSeconds:     ndpCfg.PrefixValidLifetimeSeconds,
		PrefixPreferredLifetimeSeconds: ndpCfg.PrefixPreferredLifetimeSeconds,
	}
}

// getInterfaceAddresses resolves the interface's address map: the derived
// IPv6 link-local /64 plus every explicit config address. Every address
// except IPv6 link-locals is also recorded in the per-router interface route
// tables.
func (r *applier) getInterfaceAddresses(intfCfg *model.Interface) (state.Addresses, error) {
	addrs := state.Addresses{}

	mac, err := r.getInterfaceMac(intfCfg)
	if err != nil {
		return nil, err
	}
	addrs[mac.LinkLocalAddr()] = state.LinkLocalMask

	routerID := state.RouterID(intfCfg.RouterID)
	intfID := state.InterfaceID(intfCfg.IntfID)

	for _, addrCfg := range intfCfg.IPAddresses {
		prefix, err := netip.ParsePrefix(addrCfg)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid address %q on interface %d",
				addrCfg, intfID)
		}
		addr := prefix.Addr()
		if _, ok := addrs[addr]; ok {
			return nil, errors.Errorf(
				"duplicate network IP address %s in interface %d", addrCfg, intfID)
		}
		addrs[addr] = uint8(prefix.Bits())

		// IPv6 link-local networks never become interface routes. IPv4
		// link-locals still do; they are used for link-local routing.
		if addr.Is6() && addr.IsLinkLocalUnicast() {
			continue
		}

		table := r.intfRouteTables[routerID]
		if table == nil {
			table = map[netip.Prefix]intfAddress{}
			r.intfRouteTables[routerID] = table
		}
		network := prefix.Masked()
		if existing, ok := table[network]; ok {
			if existing.intf != intfID {
				return nil, errors.Errorf(
					"duplicate network address %s of interface %d as interface %d in VRF %d",
					addrCfg, intfID, existing.intf, routerID)
			}
			// The same interface may list a network more than once; keep
			// the last host address so that repeated FIB syncs stay stable.
		}
		table[network] = intfAddress{intf: intfID, addr: addr}
	}

	return addrs, nil
}
