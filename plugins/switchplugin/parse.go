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
	"strings"

	"github.com/pkg/errors"

	"github.com/opennetsys/switch-agent/plugins/switchplugin/state"
)

// The config document spells enums as strings; an empty string always means
// the family's default.

func parsePortState(s string) (state.PortAdminState, error) {
	switch s {
	case "", "DISABLED":
		return state.PortDisabled, nil
	case "ENABLED":
		return state.PortEnabled, nil
	}
	return 0, errors.Errorf("unknown port state %q", s)
}

func parseFec(s string) (state.PortFec, error) {
	switch s {
	case "", "OFF":
		return state.FecOff, nil
	case "ON":
		return state.FecOn, nil
	}
	return 0, errors.Errorf("unknown FEC mode %q", s)
}

func parseStreamType(s string) (state.StreamType, error) {
	switch s {
	case "", "UNICAST":
		return state.StreamUnicast, nil
	case "MULTICAST":
		return state.StreamMulticast, nil
	case "ALL":
		return state.StreamAll, nil
	}
	return 0, errors.Errorf("unknown queue stream type %q", s)
}

func parseScheduling(s string) (state.QueueScheduling, error) {
	switch s {
	case "", "WEIGHTED_ROUND_ROBIN":
		return state.SchedulingWeightedRoundRobin, nil
	case "STRICT_PRIORITY":
		return state.SchedulingStrictPriority, nil
	}
	return 0, errors.Errorf("unknown queue scheduling %q", s)
}

func parseAclActionType(s string) (state.AclActionType, error) {
	switch s {
	case "", "PERMIT":
		return state.AclPermit, nil
	case "DENY":
		return state.AclDeny, nil
	}
	return 0, errors.Errorf("unknown ACL action type %q", s)
}

func parseIpFrag(s string) (state.IpFragMatch, error) {
	switch s {
	case "", "MATCH_ANY":
		return state.FragMatchAny, nil
	case "MATCH_NOT_FRAGMENTED":
		return state.FragMatchNotFragmented, nil
	case "MATCH_FIRST_FRAGMENT":
		return state.FragMatchFirstFragment, nil
	case "MATCH_NOT_FIRST_FRAGMENT":
		return state.FragMatchNotFirstFragment, nil
	}
	return 0, errors.Errorf("unknown IP fragmentation match %q", s)
}

func parseIpType(s string) (state.IpType, error) {
	switch s {
	case "", "ANY":
		return state.IpTypeAny, nil
	case "IP4":
		return state.IpTypeIp4, nil
	case "IP6":
		return state.IpTypeIp6, nil
	case "NON_IP":
		return state.IpTypeNonIp, nil
	}
	return 0, errors.Errorf("unknown IP type %q", s)
}

func parseLacpRate(s string) (state.LacpRate, error) {
	switch s {
	case "", "SLOW":
		return state.LacpRateSlow, nil
	case "FAST":
		return state.LacpRateFast, nil
	}
	return 0, errors.Errorf("unknown LACP rate %q", s)
}

func parseLacpActivity(s string) (state.LacpActivity, error) {
	switch s {
	case "", "PASSIVE":
		return state.LacpActivityPassive, nil
	case "ACTIVE":
		return state.LacpActivityActive, nil
	}
	return 0, errors.Errorf("unknown LACP activity %q", s)
}

// parseCidr parses a network spec, defaulting to the full prefix length
// when the mask is omitted.
func parseCidr(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, errors.Wrapf(err, "invalid network %q", s)
		}
		return p, nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, errors.Wrapf(err, "invalid network %q", s)
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
