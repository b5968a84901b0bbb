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

package ipp

import "strings"

// Option is one name/value pair out of an attribute group, or one entry of
// a destination's option list. Multi-valued IPP attributes are joined with
// a comma, matching the string projection the resolver consumes.
type Option struct {
	Name  string
	Value string
}

// AttributeGroup is the name/value-as-string projection of one IPP
// attribute group (operation, job, printer, ...), in the order the wire
// response presented them.
type AttributeGroup struct {
	Options []Option
}

// Get returns the value of the first option named name (case-insensitive)
// and whether it was found.
func (g AttributeGroup) Get(name string) (string, bool) {
	for _, o := range g.Options {
		if strings.EqualFold(o.Name, name) {
			return o.Value, true
		}
	}
	return "", false
}

// add appends value to name, comma-joining when name already has a value
// (multi-valued attribute continuation in the wire encoding: additional
// values carry a zero-length name).
func (g *AttributeGroup) add(name, value string) {
	if name == "" && len(g.Options) > 0 {
		last := &g.Options[len(g.Options)-1]
		last.Value = last.Value + "," + value
		return
	}
	g.Options = append(g.Options, Option{Name: name, Value: value})
}
