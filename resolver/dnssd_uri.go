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

package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nabbar/printcore/errors"
	"github.com/nabbar/printcore/resolver/dnssd"
)

// IsDNSSDURI reports whether uri is one this package synthesized for a
// discovered destination (carries the "._tcp" registration-type
// substring), the trigger §4.4 names for on-connect resolution.
func IsDNSSDURI(uri string) bool {
	return strings.Contains(uri, "._tcp")
}

// ResolveDNSSDURI opens a one-shot resolve for uri (as produced by
// applyTXT) and returns the live "scheme://host:port/path" URI a
// connection should actually dial. budgetMillis <= 0 uses
// dnssd.DefaultResolveTimeout; cancel, when non-nil, is polled
// cooperatively via a monotonic-time-based loop exactly like the
// transport package's own cancellation convention.
func ResolveDNSSDURI(ctx context.Context, backend dnssd.Backend, uri string, budgetMillis int, cancel *int32) (string, errors.Error) {
	if backend == nil {
		return "", ErrorResolveCanceled.Error(fmt.Errorf("no DNS-SD backend configured"))
	}

	name, regType, domain, scheme, suffix, ok := parseDNSSDURI(uri)
	if !ok {
		return "", ErrorInvalidURI.Error(fmt.Errorf("not a dnssd: URI: %s", uri))
	}

	budget := dnssd.DefaultResolveTimeout
	if budgetMillis > 0 {
		budget = time.Duration(budgetMillis) * time.Millisecond
	}

	rctx, cancelFn := context.WithTimeout(ctx, budget)
	defer cancelFn()

	if cancel != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			t := time.NewTicker(50 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					if atomic.LoadInt32(cancel) != 0 {
						cancelFn()
						return
					}
				}
			}
		}()
	}

	res, err := backend.Resolve(rctx, name, regType, domain)
	if err != nil {
		return "", err
	}

	if rctx.Err() != nil {
		if cancel != nil && atomic.LoadInt32(cancel) != 0 {
			return "", ErrorResolveCanceled.Error()
		}
		return "", ErrorResolveTimeout.Error()
	}

	if res.Host == "" || res.Port == 0 {
		return "", ErrorResolveTimeout.Error(fmt.Errorf("no SRV/A answer for %s", uri))
	}

	return fmt.Sprintf("%s://%s:%d/ipp/print%s", scheme, res.Host, res.Port, suffix), nil
}

// parseDNSSDURI reverses the "dnssd://name._scheme._tcp.local/suffix"
// shape applyTXT builds.
func parseDNSSDURI(uri string) (name, regType, domain, scheme, suffix string, ok bool) {
	rest := strings.TrimPrefix(uri, "dnssd://")
	if rest == uri {
		return "", "", "", "", "", false
	}

	host, path, _ := strings.Cut(rest, "/")
	if path != "" {
		suffix = "/" + path
	}

	parts := strings.SplitN(host, ".", 4)
	if len(parts) < 4 {
		return "", "", "", "", "", false
	}

	decoded, err := url.QueryUnescape(parts[0])
	if err != nil {
		decoded = parts[0]
	}

	name = decoded
	scheme = strings.TrimPrefix(parts[1], "_")
	regType = parts[1] + "." + parts[2]
	domain = parts[3]

	return name, regType, domain, scheme, suffix, true
}
