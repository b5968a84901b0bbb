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
	"strings"

	"github.com/nabbar/printcore/config"
)

// mergeOverlay implements §4.4's overlay merger: for a destination surfaced
// by the scheduler or by DNS-SD, each instance entry the overlay records
// for that base name yields one emitted Destination, overlay options
// winning on conflict; a destination the overlay has no entry for is
// emitted unchanged. emit returning false stops emission immediately and
// mergeOverlay returns false.
func mergeOverlay(ov *config.Overlay, defName, defInstance string, d Destination, emit func(Destination) bool) bool {
	entries := entriesForName(ov, d.Name)
	if len(entries) == 0 {
		d.IsDefault = d.Instance == "" && strings.EqualFold(d.Name, defName) && defInstance == ""
		return emit(d)
	}

	for _, e := range entries {
		out := d.Clone()
		out.Instance = e.Instance
		for k, v := range e.Options {
			out.Set(k, v)
		}
		out.IsDefault = strings.EqualFold(d.Name, defName) && strings.EqualFold(e.Instance, defInstance)

		if !emit(out) {
			return false
		}
	}

	return true
}

// entriesForName returns every overlay entry (base instance and any named
// instances) recorded for name, case-insensitively.
func entriesForName(ov *config.Overlay, name string) []config.Entry {
	if ov == nil {
		return nil
	}

	var out []config.Entry
	for _, e := range ov.Entries {
		if strings.EqualFold(e.Name, name) {
			out = append(out, e)
		}
	}
	return out
}
