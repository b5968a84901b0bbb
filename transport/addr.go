/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package transport

import (
	"context"
	"net"
	"strconv"

	"github.com/nabbar/printcore/errors"
	libptc "github.com/nabbar/printcore/network/protocol"
)

func portString(p uint16) string {
	return strconv.Itoa(int(p))
}

// OpenAddrList resolves host to one or more addresses on the given network.
// When network constrains the family (tcp4/tcp6/udp4/udp6), only matching
// addresses are returned; otherwise the resolver's own ordering is kept,
// which on every supported platform prefers the widest (dual-stack / IPv6)
// family first.
func OpenAddrList(ctx context.Context, network libptc.NetworkProtocol, host string, port uint16) (AddressList, errors.Error) {
	if host == "" {
		return nil, ErrorParamsEmpty.Error()
	}

	if ip := net.ParseIP(host); ip != nil {
		return AddressList{{Network: network, Host: host, Port: port}}, nil
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, ErrorResolve.Error(err)
	}

	var out AddressList

	for _, a := range ips {
		if !familyMatches(network, a.IP) {
			continue
		}
		out = append(out, Address{Network: network, Host: a.IP.String(), Port: port})
	}

	if len(out) == 0 {
		return nil, ErrorAddrListEmpty.Error()
	}

	return out, nil
}

func familyMatches(network libptc.NetworkProtocol, ip net.IP) bool {
	switch network {
	case libptc.NetworkTCP4, libptc.NetworkUDP4, libptc.NetworkIP4:
		return ip.To4() != nil
	case libptc.NetworkTCP6, libptc.NetworkUDP6, libptc.NetworkIP6:
		return ip.To4() == nil
	default:
		return true
	}
}
