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

// Package credstore implements the reference-counted X.509 credential handle
// and the on-disk, trust-on-first-use pinning cache a TLS-capable transport
// consults before it trusts a server's certificate chain.
package credstore

import (
	"crypto/x509"
	"time"

	"github.com/nabbar/printcore/errors"
)

// Credential is a reference-counted, immutable set of X.509 certificates in
// chain order. Use count is incremented by Retain and decremented by
// Release; the backing material is only dropped when the count reaches zero.
type Credential interface {
	// Add appends a PEM-encoded certificate to the chain.
	Add(pem []byte) errors.Error
	// Len returns the number of certificates currently in the chain.
	Len() int
	// Compare reports whether this chain and other are byte-identical once
	// each is re-encoded in chain order.
	Compare(other Credential) bool
	// ValidateForName checks the leaf certificate's subject CN and SAN
	// entries against hostname, matching a leading "*" label against
	// exactly one leftmost DNS label.
	ValidateForName(hostname string) bool
	// GetExpiration returns the nearest NotAfter across the chain. ok is
	// false when the chain is empty.
	GetExpiration() (notAfter time.Time, ok bool)
	// Retain increments the use count and returns the same handle.
	Retain() Credential
	// Release decrements the use count, freeing the backing material once
	// it reaches zero.
	Release()

	// chain returns the underlying certificates in chain order, leaf first.
	// Unexported: only this package's Store needs raw chain access, and
	// nothing outside it should reach past the Credential interface.
	chain() []*x509.Certificate
}

// New builds an empty, single-owner Credential handle (use count 1).
func New() Credential {
	return newCredential()
}

// Store is the on-disk pinned-credential cache, one PEM file per hostname
// under $CUPS_USERCONFIG/ssl, per the persisted-state layout.
type Store interface {
	// GetTrust compares cred against whatever chain is pinned for host and
	// returns the resulting verdict. It never mutates the cache.
	GetTrust(host string, cred Credential) (Trust, errors.Error)
	// Pin writes cred as the chain now trusted for host, creating or
	// replacing its cache file with a 0600 mode inside a 0700 directory.
	Pin(host string, cred Credential) errors.Error
}

// NewStore opens the pinned-credential cache rooted at dir (typically
// config.SSLDir()). The directory is created on first Pin, not here.
func NewStore(dir string) Store {
	return &store{dir: dir}
}
