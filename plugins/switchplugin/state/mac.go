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

package state

import (
	"net"
	"net/netip"

	"github.com/pkg/errors"
)

// Mac is a 48-bit MAC address. It is a value type so it can be used
// directly as a map key and compared with ==.
type Mac [6]byte

// ParseMac parses a MAC address in any form accepted by net.ParseMAC,
// rejecting EUI-64 and InfiniBand lengths.
func ParseMac(s string) (Mac, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return Mac{}, errors.Wrapf(err, "invalid MAC address %q", s)
	}
	if len(hw) != 6 {
		return Mac{}, errors.Errorf("invalid MAC address %q: expected 48 bits", s)
	}
	var m Mac
	copy(m[:], hw)
	return m, nil
}

func (m Mac) String() string {
	return net.HardwareAddr(m[:]).String()
}

// LinkLocalAddr derives the modified EUI-64 IPv6 link-local address for
// the MAC, i.e. fe80::/64 with the U/L bit of the first octet flipped and
// ff:fe spliced into the middle.
func (m Mac) LinkLocalAddr() netip.Addr {
	var a [16]byte
	a[0] = 0xfe
	a[1] = 0x80
	a[8] = m[0] ^ 0x02
	a[9] = m[1]
	a[10] = m[2]
	a[11] = 0xff
	a[12] = 0xfe
	a[13] = m[3]
	a[14] = m[4]
	a[15] = m[5]
	return netip.AddrFrom16(a)
}

// LinkLocalMask is the prefix length of derived IPv6 link-local addresses.
const LinkLocalMask uint8 = 64
