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

package credstore

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/printcore/errors"
)

type credential struct {
	mu   sync.RWMutex
	refs atomic.Int32
	crt  []*x509.Certificate
	raw  [][]byte
}

func newCredential() *credential {
	c := &credential{}
	c.refs.Store(1)
	return c
}

func (c *credential) Add(p []byte) errors.Error {
	if len(p) == 0 {
		return ErrorParamsEmpty.Error()
	}

	var (
		parsed []*x509.Certificate
		raw    [][]byte
		blk    *pem.Block
		rest   = p
	)

	for {
		blk, rest = pem.Decode(rest)
		if blk == nil {
			break
		}
		if blk.Type != "CERTIFICATE" {
			continue
		}

		ct, err := x509.ParseCertificate(blk.Bytes)
		if err != nil {
			return ErrorCertParse.Error(err)
		}

		parsed = append(parsed, ct)
		raw = append(raw, blk.Bytes)
	}

	if len(parsed) == 0 {
		return ErrorCertParse.Error()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.crt = append(c.crt, parsed...)
	c.raw = append(c.raw, raw...)
	return nil
}

func (c *credential) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.crt)
}

func (c *credential) chain() []*x509.Certificate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*x509.Certificate, len(c.crt))
	copy(out, c.crt)
	return out
}

// Compare reports byte-equality of the concatenated DER chains, per the
// spec's "compare" operation definition.
func (c *credential) Compare(other Credential) bool {
	if other == nil {
		return false
	}

	oc, ok := other.(*credential)
	if !ok {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	oc.mu.RLock()
	defer oc.mu.RUnlock()

	if len(c.raw) != len(oc.raw) {
		return false
	}

	for i := range c.raw {
		if !bytes.Equal(c.raw[i], oc.raw[i]) {
			return false
		}
	}

	return true
}

// ValidateForName checks the leaf certificate's subject CN and SAN DNS
// names against hostname. A wildcard label ("*.example.com") matches
// exactly one leftmost DNS label of hostname, never more.
func (c *credential) ValidateForName(hostname string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.crt) == 0 {
		return false
	}

	leaf := c.crt[0]
	host := strings.ToLower(strings.TrimSuffix(hostname, "."))

	candidates := make([]string, 0, len(leaf.DNSNames)+1)
	candidates = append(candidates, leaf.DNSNames...)
	if leaf.Subject.CommonName != "" {
		candidates = append(candidates, leaf.Subject.CommonName)
	}

	for _, name := range candidates {
		if matchHostname(strings.ToLower(name), host) {
			return true
		}
	}

	return false
}

func matchHostname(pattern, host string) bool {
	if pattern == host {
		return true
	}

	label, rest, hasWildcard := strings.Cut(pattern, ".")
	if !hasWildcard || label != "*" {
		return false
	}

	hostLabel, hostRest, hasHostLabel := strings.Cut(host, ".")
	if !hasHostLabel || hostLabel == "" {
		return false
	}

	return rest == hostRest
}

// GetExpiration returns the nearest NotAfter across the chain.
func (c *credential) GetExpiration() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.crt) == 0 {
		return time.Time{}, false
	}

	nearest := c.crt[0].NotAfter
	for _, ct := range c.crt[1:] {
		if ct.NotAfter.Before(nearest) {
			nearest = ct.NotAfter
		}
	}

	return nearest, true
}

func (c *credential) Retain() Credential {
	c.refs.Add(1)
	return c
}

func (c *credential) Release() {
	if c.refs.Add(-1) <= 0 {
		c.mu.Lock()
		c.crt = nil
		c.raw = nil
		c.mu.Unlock()
	}
}

func parsePEMChain(p []byte) (*credential, errors.Error) {
	c := newCredential()
	if err := c.Add(p); err != nil {
		return nil, err
	}
	return c, nil
}
