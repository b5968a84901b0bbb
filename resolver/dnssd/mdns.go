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

package dnssd

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/nabbar/printcore/errors"
)

const (
	mdnsAddr       = "224.0.0.251:5353"
	mdnsReadBudget = 2 * time.Second
)

// mdnsBackend is the one concrete Backend: classic multicast DNS over
// net.ListenMulticastUDP, building and parsing PTR/SRV/TXT messages with
// github.com/miekg/dns. It targets "local" and does not implement the full
// RFC 6762 cache-flush/known-answer-suppression machinery; it issues one
// query per Browse/Resolve call and collects whatever answers arrive
// within its read budget, which is sufficient for the resolver's
// poll-every-100ms discovery loop.
type mdnsBackend struct {
	mu     sync.Mutex
	conn   *net.UDPConn
	closed bool
}

// NewMDNSBackend opens the IPv4 multicast DNS-SD socket used by Browse and
// Resolve.
func NewMDNSBackend() (Backend, errors.Error) {
	group, err := net.ResolveUDPAddr("udp4", mdnsAddr)
	if err != nil {
		return nil, ErrorSocketOpen.Error(err)
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return nil, ErrorSocketOpen.Error(err)
	}

	return &mdnsBackend{conn: conn}, nil
}

func (b *mdnsBackend) Close() errors.Error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.conn.Close(); err != nil {
		return ErrorClosed.Error(err)
	}
	return nil
}

// Browse sends one PTR query per regType and forwards every PTR answer
// seen (as EventAdded; mDNS PTR records carrying a TTL of 0 are treated as
// EventRemoved goodbye packets) until ctx is done.
func (b *mdnsBackend) Browse(ctx context.Context, regTypes []string, events chan<- ServiceEvent) errors.Error {
	for _, rt := range regTypes {
		q := new(dns.Msg)
		q.SetQuestion(serviceFQDN(rt, "local"), dns.TypePTR)
		q.RecursionDesired = false

		if err := b.send(q); err != nil {
			return err
		}
	}

	go b.readLoop(ctx, events)
	return nil
}

func (b *mdnsBackend) readLoop(ctx context.Context, events chan<- ServiceEvent) {
	buf := make([]byte, 65535)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = b.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := b.conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		msg := new(dns.Msg)
		if err := msg.Unpack(buf[:n]); err != nil {
			continue
		}

		for _, rr := range append(append([]dns.RR{}, msg.Answer...), msg.Ns...) {
			ptr, ok := rr.(*dns.PTR)
			if !ok {
				continue
			}

			name, regType, domain, ok := splitInstanceFQDN(ptr.Ptr)
			if !ok {
				continue
			}

			kind := EventAdded
			if ptr.Hdr.Ttl == 0 {
				kind = EventRemoved
			}

			select {
			case events <- ServiceEvent{Kind: kind, Name: name, RegType: regType, Domain: domain}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Resolve queries SRV+TXT for the single named instance and waits up to
// mdnsReadBudget (bounded by ctx's own deadline) for an answer.
func (b *mdnsBackend) Resolve(ctx context.Context, name, regType, domain string) (Resolved, errors.Error) {
	fqdn := instanceFQDN(name, regType, domain)

	q := new(dns.Msg)
	q.SetQuestion(fqdn, dns.TypeANY)
	q.RecursionDesired = false

	if err := b.send(q); err != nil {
		return Resolved{}, err
	}

	deadline := time.Now().Add(mdnsReadBudget)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	res := Resolved{TXT: map[string]string{}}
	buf := make([]byte, 65535)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return res, nil
		default:
		}

		_ = b.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := b.conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		msg := new(dns.Msg)
		if err := msg.Unpack(buf[:n]); err != nil {
			continue
		}

		matched := false
		for _, rr := range msg.Answer {
			switch v := rr.(type) {
			case *dns.TXT:
				if !strings.EqualFold(v.Hdr.Name, fqdn) {
					continue
				}
				matched = true
				for _, kv := range v.Txt {
					k, val, _ := strings.Cut(kv, "=")
					res.TXT[k] = val
				}
			case *dns.SRV:
				if !strings.EqualFold(v.Hdr.Name, fqdn) {
					continue
				}
				matched = true
				res.Host = strings.TrimSuffix(v.Target, ".")
				res.Port = v.Port
			case *dns.A:
				if strings.EqualFold(v.Hdr.Name, res.Host+".") || res.Host == "" {
					res.Host = v.A.String()
				}
			}
		}

		if matched && res.Host != "" && res.Port != 0 {
			return res, nil
		}
	}

	return res, nil
}

func (b *mdnsBackend) send(q *dns.Msg) errors.Error {
	packed, err := q.Pack()
	if err != nil {
		return ErrorMessagePack.Error(err)
	}

	dst, err := net.ResolveUDPAddr("udp4", mdnsAddr)
	if err != nil {
		return ErrorSocketOpen.Error(err)
	}

	if _, err := b.conn.WriteToUDP(packed, dst); err != nil {
		return ErrorSocketWrite.Error(err)
	}

	return nil
}

func serviceFQDN(regType, domain string) string {
	return dns.Fqdn(fmt.Sprintf("%s.%s", regType, domain))
}

func instanceFQDN(name, regType, domain string) string {
	return dns.Fqdn(fmt.Sprintf("%s.%s.%s", escapeInstance(name), regType, domain))
}

// escapeInstance backslash-escapes spaces, the one character DNS-SD
// instance names commonly contain that a plain label split would
// otherwise mis-handle. Literal dots in an instance name are not
// round-tripped by splitInstanceFQDN below; they are rare enough in
// practice (PRINTER-TYPE advertisements use product names, not hostnames)
// that this module does not attempt the fuller escaping grammar.
func escapeInstance(name string) string {
	return strings.ReplaceAll(name, " ", "\\ ")
}

func unescapeInstance(name string) string {
	return strings.ReplaceAll(name, "\\ ", " ")
}

// splitInstanceFQDN parses "Instance\ Name._ipp._tcp.local." into its
// three parts, the reverse of instanceFQDN.
func splitInstanceFQDN(fqdn string) (name, regType, domain string, ok bool) {
	fqdn = strings.TrimSuffix(fqdn, ".")
	parts := strings.Split(fqdn, ".")
	if len(parts) < 4 {
		return "", "", "", false
	}

	domain = parts[len(parts)-1]
	regType = parts[len(parts)-3] + "." + parts[len(parts)-2]
	name = unescapeInstance(strings.Join(parts[:len(parts)-3], "."))

	return name, regType, domain, true
}
