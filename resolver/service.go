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
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/nabbar/printcore/resolver/dnssd"
)

// ServiceState is the per-instance discovery state machine §3/§4.4 name:
// a freshly-seen instance starts new, moves to querying once a TXT query
// is issued, pending once the TXT answer is parsed, active once delivered
// to the caller, or incompatible/error if it should never be delivered.
type ServiceState uint8

const (
	ServiceNew ServiceState = iota
	ServiceQuerying
	ServicePending
	ServiceActive
	ServiceIncompatible
	ServiceError
)

func (s ServiceState) String() string {
	switch s {
	case ServiceQuerying:
		return "querying"
	case ServicePending:
		return "pending"
	case ServiceActive:
		return "active"
	case ServiceIncompatible:
		return "incompatible"
	case ServiceError:
		return "error"
	default:
		return "new"
	}
}

// pdlTokensRequired are the document formats a service's TXT "pdl" value
// must include at least one of; anything else is marked incompatible and
// dropped, matching the original client's driverless-print gate.
var pdlTokensRequired = []string{"application/pdf", "image/pwg-raster", "image/urf"}

// serviceRecord is one DNS-SD service instance: its discovery state, full
// name/regType/domain, and the partially-built Destination the TXT record
// populates (the inferred printer-type bitmask is stored as its
// printer-type option).
type serviceRecord struct {
	state   ServiceState
	name    string
	regType string
	domain  string
	dest    Destination
}

func sanitizedQueueName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// serviceTable is the unordered, reader/writer-locked map of
// serviceRecords keyed on sanitized queue name, shared between the DNS-SD
// monitor goroutine and the enumerating caller.
type serviceTable struct {
	mu   sync.RWMutex
	byID map[string]*serviceRecord
}

func newServiceTable() *serviceTable {
	return &serviceTable{byID: map[string]*serviceRecord{}}
}

func (t *serviceTable) upsertNew(ev dnssd.ServiceEvent) (*serviceRecord, bool) {
	id := sanitizedQueueName(ev.Name)

	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.byID[id]; ok {
		// Prefer IPPS over IPP when both are seen for the same instance.
		if ev.RegType == "_ipps._tcp" && rec.regType == "_ipp._tcp" {
			rec.regType = ev.RegType
		}
		return rec, false
	}

	rec := &serviceRecord{state: ServiceNew, name: ev.Name, regType: ev.RegType, domain: ev.Domain}
	t.byID[id] = rec
	return rec, true
}

func (t *serviceTable) remove(ev dnssd.ServiceEvent) {
	id := sanitizedQueueName(ev.Name)
	t.mu.Lock()
	delete(t.byID, id)
	t.mu.Unlock()
}

// pendingNew returns every record currently in ServiceNew state.
func (t *serviceTable) pendingNew() []*serviceRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*serviceRecord
	for _, r := range t.byID {
		if r.state == ServiceNew {
			out = append(out, r)
		}
	}
	return out
}

func (t *serviceTable) setState(rec *serviceRecord, s ServiceState) {
	t.mu.Lock()
	rec.state = s
	t.mu.Unlock()
}

// preseedActive marks an existing dnssd: destination as already active so
// the parallel discovery loop does not re-announce it (§4.4 step 3).
func (t *serviceTable) preseedActive(d Destination) {
	uri, ok := d.Get(OptDeviceURI)
	if !ok || !strings.Contains(uri, "dnssd:") {
		return
	}

	id := sanitizedQueueName(d.Name)
	t.mu.Lock()
	t.byID[id] = &serviceRecord{state: ServiceActive, name: d.Name, dest: d}
	t.mu.Unlock()
}

// applyTXT parses res into rec's Destination per §4.4 step 5: option
// strings from the well-known TXT keys, a derived printer-type bitmask
// when none was advertised explicitly, and a synthesized device-uri. It
// returns false when the service must be dropped as incompatible.
func applyTXT(rec *serviceRecord, res dnssd.Resolved, useIPPS bool) bool {
	rec.dest = NewDestination(rec.name, "")

	if pdl, ok := res.TXT["pdl"]; ok && !supportsAnyPDL(pdl) {
		return false
	}

	for k, v := range res.TXT {
		rec.dest.Set(k, v)
	}

	t := deriveFromTXT(res.TXT)
	if raw, ok := res.TXT["printer-type"]; ok {
		t = ParsePrinterType(raw)
	}
	rec.dest.Set(OptPrinterType, fmt.Sprintf("%d", uint32(t)))

	scheme := "ipp"
	if useIPPS {
		scheme = "ipps"
	}

	suffix := ""
	if _, isCUPS := res.TXT["printer-type"]; isCUPS {
		suffix = "/cups"
	}

	uri := fmt.Sprintf("dnssd://%s._%s._tcp.local/%s", url.QueryEscape(rec.name), scheme, strings.TrimPrefix(suffix, "/"))
	rec.dest.Set(OptDeviceURI, uri)
	rec.dest.Set(OptPrinterURISupported, fmt.Sprintf("%s://%s:%d/ipp/print%s", scheme, res.Host, res.Port, suffix))

	return true
}

func supportsAnyPDL(pdl string) bool {
	for _, want := range pdlTokensRequired {
		if strings.Contains(pdl, want) {
			return true
		}
	}
	return false
}
