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

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/model"
	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// aclStartPriority is where applier-assigned ACL priorities begin. Needed
// until CPU-policing entries move out of code and into config.
const aclStartPriority = 100000

const (
	protoIcmp   = 1
	protoIcmpv6 = 58

	maxL4Port   = 65535
	maxIcmpType = 255
	maxIcmpCode = 255
)

// updateAcls rebuilds the ordered ACL list. DENY entries come first so they
// always beat the PERMIT entries synthesized from traffic policies; both
// groups take ascending applier-assigned priorities. PERMIT entries enter
// the list only when a traffic policy references them by name.
func (r *applier) updateAcls() (*state.AclMap, error) {
	var entries []*state.AclEntry
	changed := false
	numExistingProcessed := 0
	priority := aclStartPriority

	// DENY entries first: highest priority.
	for i := range r.cfg.Acls {
		aclCfg := r.cfg.Acls[i]
		actionType, err := parseAclActionType(aclCfg.ActionType)
		if err != nil {
			return nil, err
		}
		if actionType != state.AclDeny {
			continue
		}
		acl, err := r.updateAcl(aclCfg, priority, &numExistingProcessed, &changed, nil)
		if err != nil {
			return nil, err
		}
		priority++
		entries = append(entries, acl)
	}

	aclByName := make(map[string]*model.AclEntry, len(r.cfg.Acls))
	for i := range r.cfg.Acls {
		aclByName[r.cfg.Acls[i].Name] = &r.cfg.Acls[i]
	}

	// addToAcls synthesizes entries from a traffic policy; dstPort < 0
	// means no port pinning (the global policy).
	addToAcls := func(policy *model.TrafficPolicy, prefix string, dstPort int) error {
		for _, mta := range policy.MatchToAction {
			aclCfgRef, ok := aclByName[mta.Matcher]
			if !ok {
				return errors.Errorf("invalid config: no acl named %s found",
					mta.Matcher)
			}

			aclCfg := *aclCfgRef
			if dstPort >= 0 && aclCfg.DstPort != nil && *aclCfg.DstPort != dstPort {
				return errors.Errorf(
					"invalid port traffic policy acl: %s - dstPort is set to %d but set on port %d",
					aclCfg.Name, *aclCfg.DstPort, dstPort)
			}

			actionType, err := parseAclActionType(aclCfg.ActionType)
			if err != nil {
				return err
			}
			// DENY entries were already emitted in the first pass.
			if actionType == state.AclDeny {
				continue
			}

			aclCfg.Name = "system:" + prefix + mta.Matcher
			if dstPort >= 0 {
				pinned := dstPort
				aclCfg.DstPort = &pinned
			}

			matchAction := &state.MatchAction{}
			if mta.Action.SendToQueue != nil {
				queue := *mta.Action.SendToQueue
				matchAction.SendToQueue = &queue
			}
			if mta.Action.PacketCounter != nil {
				counter := *mta.Action.PacketCounter
				matchAction.PacketCounter = &counter
			}

			acl, err := r.updateAcl(aclCfg, priority, &numExistingProcessed,
				&changed, matchAction)
			if err != nil {
				return err
			}
			priority++
			entries = append(entries, acl)
		}
		return nil
	}

	if r.cfg.GlobalEgressTrafficPolicy != nil {
		if err := addToAcls(r.cfg.GlobalEgressTrafficPolicy, "", -1); err != nil {
			return nil, err
		}
	}
	for i := range r.cfg.Ports {
		portCfg := &r.cfg.Ports[i]
		if portCfg.EgressTrafficPolicy == nil {
			continue
		}
		prefix := fmt.Sprintf("port%d:", portCfg.LogicalID)
		if err := addToAcls(portCfg.EgressTrafficPolicy, prefix,
			portCfg.LogicalID); err != nil {
			return nil, err
		}
	}

	if numExistingProcessed != r.orig.Acls().Size() {
		// Some existing ACLs were removed.
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return r.orig.Acls().CloneWith(entries)
}

// updateAcl classifies one entry: reuse the previous node when the rebuilt
// entry matches it field for field, otherwise emit the rebuilt one.
func (r *applier) updateAcl(aclCfg model.AclEntry, priority int,
	numExistingProcessed *int, changed *bool,
	action *state.MatchAction) (*state.AclEntry, error) {

	origAcl := r.orig.Acls().Entry(aclCfg.Name)
	newAcl, err := r.createAcl(&aclCfg, priority, action)
	if err != nil {
		return nil, err
	}
	if origAcl != nil {
		*numExistingProcessed++
		if origAcl.Equal(newAcl) {
			return origAcl, nil
		}
	}
	*changed = true
	return newAcl, nil
}

func (r *applier) createAcl(aclCfg *model.AclEntry, priority int,
	action *state.MatchAction) (*state.AclEntry, error) {

	if err := checkAcl(aclCfg); err != nil {
		return nil, err
	}
	actionType, err := parseAclActionType(aclCfg.ActionType)
	if err != nil {
		return nil, err
	}

	newAcl := state.NewAclEntry(priority, aclCfg.Name)
	newAcl.SetActionType(actionType)
	if action != nil {
		newAcl.SetAclAction(action)
	}
	if aclCfg.SrcIp != nil {
		prefix, err := parseCidr(*aclCfg.SrcIp)
		if err != nil {
			return nil, err
		}
		newAcl.SetSrcIp(prefix)
	}
	if aclCfg.DstIp != nil {
		prefix, err := parseCidr(*aclCfg.DstIp)
		if err != nil {
			return nil, err
		}
		newAcl.SetDstIp(prefix)
	}
	if aclCfg.Proto != nil {
		newAcl.SetProto(*aclCfg.Proto)
	}
	if aclCfg.TcpFlagsBitMap != nil {
		newAcl.SetTcpFlagsBitMap(*aclCfg.TcpFlagsBitMap)
	}
	if aclCfg.SrcPort != nil {
		newAcl.SetSrcPort(*aclCfg.SrcPort)
	}
	if aclCfg.DstPort != nil {
		newAcl.SetDstPort(*aclCfg.DstPort)
	}
	if aclCfg.SrcL4PortRange != nil {
		newAcl.SetSrcL4PortRange(state.AclL4PortRange{
			Min: aclCfg.SrcL4PortRange.Min,
			Max: aclCfg.SrcL4PortRange.Max,
		})
	}
	if aclCfg.DstL4PortRange != nil {
		newAcl.SetDstL4PortRange(state.AclL4PortRange{
			Min: aclCfg.DstL4PortRange.Min,
			Max: aclCfg.DstL4PortRange.Max,
		})
	}
	if aclCfg.PktLenRange != nil {
		newAcl.SetPktLenRange(state.AclPktLenRange{
			Min: aclCfg.PktLenRange.Min,
			Max: aclCfg.PktLenRange.Max,
		})
	}
	if aclCfg.IpFrag != nil {
		ipFrag, err := parseIpFrag(*aclCfg.IpFrag)
		if err != nil {
			return nil, err
		}
		newAcl.SetIpFrag(ipFrag)
	}
	if aclCfg.IcmpType != nil {
		newAcl.SetIcmpType(*aclCfg.IcmpType)
	}
	if aclCfg.IcmpCode != nil {
		newAcl.SetIcmpCode(*aclCfg.IcmpCode)
	}
	if aclCfg.Dscp != nil {
		newAcl.SetDscp(*aclCfg.Dscp)
	}
	if aclCfg.DstMac != nil {
		mac, err := state.ParseMac(*aclCfg.DstMac)
		if err != nil {
			return nil, err
		}
		newAcl.SetDstMac(mac)
	}
	if aclCfg.IpType != nil {
		ipType, err := parseIpType(*aclCfg.IpType)
		if err != nil {
			return nil, err
		}
		newAcl.SetIpType(ipType)
	}
	if aclCfg.Ttl != nil {
		newAcl.SetTtl(state.AclTtl{Value: aclCfg.Ttl.Value, Mask: aclCfg.Ttl.Mask})
	}
	return newAcl, nil
}

// checkAcl rejects match-field combinations the hardware cannot express.
func checkAcl(aclCfg *model.AclEntry) error {
	if aclCfg.SrcL4PortRange != nil {
		if aclCfg.SrcL4PortRange.Min > maxL4Port {
			return errors.New("src's L4 port range has a min value larger than 65535")
		}
		if aclCfg.SrcL4PortRange.Max > maxL4Port {
			return errors.New("src's L4 port range has a max value larger than 65535")
		}
		if aclCfg.SrcL4PortRange.Min > aclCfg.SrcL4PortRange.Max {
			return errors.New("src's L4 port range has a min value larger than its max value")
		}
	}
	if aclCfg.DstL4PortRange != nil {
		if aclCfg.DstL4PortRange.Min > maxL4Port {
			return errors.New("dst's L4 port range has a min value larger than 65535")
		}
		if aclCfg.DstL4PortRange.Max > maxL4Port {
			return errors.New("dst's L4 port range has a max value larger than 65535")
		}
		if aclCfg.DstL4PortRange.Min > aclCfg.DstL4PortRange.Max {
			return errors.New("dst's L4 port range has a min value larger than its max value")
		}
	}
	if aclCfg.PktLenRange != nil &&
		aclCfg.PktLenRange.Min > aclCfg.PktLenRange.Max {
		return errors.New("the min. packet length cannot exceed the max. packet length")
	}
	if aclCfg.IcmpCode != nil && aclCfg.IcmpType == nil {
		return errors.New("icmp type must be set when icmp code is set")
	}
	if aclCfg.IcmpType != nil &&
		(*aclCfg.IcmpType < 0 || *aclCfg.IcmpType > maxIcmpType) {
		return errors.Errorf("icmp type value must be between 0 and %d", maxIcmpType)
	}
	if aclCfg.IcmpCode != nil &&
		(*aclCfg.IcmpCode < 0 || *aclCfg.IcmpCode > maxIcmpCode) {
		return errors.Errorf("icmp code value must be between 0 and %d", maxIcmpCode)
	}
	if aclCfg.IcmpType != nil &&
		(aclCfg.Proto == nil ||
			(*aclCfg.Proto != protoIcmp && *aclCfg.Proto != protoIcmpv6)) {
		return errors.New("proto must be either icmp or icmpv6 if icmp type is set")
	}
	if aclCfg.Ttl != nil {
		if aclCfg.Ttl.Value > 255 {
			return errors.New("ttl value is larger than 255")
		}
		if aclCfg.Ttl.Value < 0 {
			return errors.New("ttl value is less than 0")
		}
		if aclCfg.Ttl.Mask > 255 {
			return errors.New("ttl mask is larger than 255")
		}
		if aclCfg.Ttl.Mask < 0 {
			return errors.New("ttl mask is less than 0")
		}
	}
	return nil
}
