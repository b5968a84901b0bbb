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

// Package resolver fuses locally configured queues, server-known queues,
// DNS-SD-discovered printers, and user overlays into one consistent,
// de-duplicated, default-aware set of destinations.
package resolver

import "strings"

// Option is one name/value pair attached to a Destination. Required options
// when a Destination is surfaced from the scheduler include
// printer-uri-supported, device-uri, printer-info, printer-state,
// printer-type, printer-state-reasons and printer-is-accepting-jobs.
const (
	OptPrinterURISupported  = "printer-uri-supported"
	OptDeviceURI             = "device-uri"
	OptPrinterInfo           = "printer-info"
	OptPrinterState          = "printer-state"
	OptPrinterType           = "printer-type"
	OptPrinterStateReasons   = "printer-state-reasons"
	OptPrinterIsAcceptingJobs = "printer-is-accepting-jobs"
)

// Destination is a tuple of name, optional instance label, is-default
// flag, and an ordered option list: names are unique (case-insensitive),
// order preserves insertion for user-facing display but lookups ignore
// case.
type Destination struct {
	Name      string
	Instance  string
	IsDefault bool
	options   []kv
}

type kv struct {
	name  string
	value string
}

// NewDestination returns an empty Destination for name/instance.
func NewDestination(name, instance string) Destination {
	return Destination{Name: name, Instance: instance}
}

// Set stores name=value, replacing any existing entry for name
// case-insensitively and otherwise appending at the end (preserving
// insertion order for display).
func (d *Destination) Set(name, value string) {
	low := strings.ToLower(name)
	for i := range d.options {
		if strings.ToLower(d.options[i].name) == low {
			d.options[i].value = value
			return
		}
	}
	d.options = append(d.options, kv{name: name, value: value})
}

// Get returns the value stored for name, matched case-insensitively.
func (d Destination) Get(name string) (string, bool) {
	low := strings.ToLower(name)
	for _, o := range d.options {
		if strings.ToLower(o.name) == low {
			return o.value, true
		}
	}
	return "", false
}

// Options returns the option list in insertion order.
func (d Destination) Options() []Option {
	out := make([]Option, len(d.options))
	for i, o := range d.options {
		out[i] = Option{Name: o.name, Value: o.value}
	}
	return out
}

// Option is the exported name/value projection returned by Options.
type Option struct {
	Name  string
	Value string
}

// Clone returns an independent copy of d.
func (d Destination) Clone() Destination {
	c := Destination{Name: d.Name, Instance: d.Instance, IsDefault: d.IsDefault}
	c.options = append([]kv(nil), d.options...)
	return c
}

// QualifiedName renders "name" or "name/instance" the way overlay lines and
// dnssd: URIs reference a destination.
func (d Destination) QualifiedName() string {
	if d.Instance == "" {
		return d.Name
	}
	return d.Name + "/" + d.Instance
}

// less implements the sort key the spec requires: primary name
// (case-insensitive), tiebreak instance with the no-instance entry
// sorting before any instance.
func less(a, b Destination) bool {
	na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if na != nb {
		return na < nb
	}
	if a.Instance == "" && b.Instance != "" {
		return true
	}
	if a.Instance != "" && b.Instance == "" {
		return false
	}
	return strings.ToLower(a.Instance) < strings.ToLower(b.Instance)
}

func equalKey(a, b Destination) bool {
	return strings.EqualFold(a.Name, b.Name) && strings.EqualFold(a.Instance, b.Instance)
}
