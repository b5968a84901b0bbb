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

package config

import "github.com/nabbar/printcore/errors"

type cfg struct {
	sys *Overlay
	usr *Overlay
	all *Overlay
}

func (c *cfg) SchedulerAddress() string {
	return SchedulerAddress()
}

func (c *cfg) SchedulerPort() int {
	return SchedulerPort()
}

func (c *cfg) AppleDefaultDisabled() bool {
	return AppleDefaultDisabled()
}

func (c *cfg) Overlay() *Overlay {
	return c.all
}

func (c *cfg) SystemConfigDir() string {
	return SystemConfigDir()
}

func (c *cfg) UserConfigDir() (string, errors.Error) {
	return UserConfigDir()
}

// DefaultDestination resolves the recorded default destination name and
// instance, in the original client's priority order: the LPDEST/PRINTER
// environment variables first, then the user overlay's "Default" line,
// then the system overlay's.
func (c *cfg) DefaultDestination() (name string, instance string, ok bool) {
	if n, set := DefaultDestination(); set {
		name, instance, _ = splitInstance(n)
		return name, instance, true
	}

	if e, found := findDefault(c.usr); found {
		return e.Name, e.Instance, true
	}

	if e, found := findDefault(c.sys); found {
		return e.Name, e.Instance, true
	}

	return "", "", false
}

func splitInstance(s string) (name, instance string, hasInstance bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:], true
		}
	}

	return s, "", false
}

func findDefault(o *Overlay) (Entry, bool) {
	if o == nil {
		return Entry{}, false
	}

	for _, e := range o.Entries {
		if e.Default {
			return e, true
		}
	}

	return Entry{}, false
}
