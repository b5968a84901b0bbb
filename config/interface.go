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

// Config is the resolved view of the environment and lpoptions overlays a
// client consults before it enumerates or connects: scheduler address, the
// merged user/system destination overlay, and the recorded default
// destination name.
type Config interface {
	// SchedulerAddress returns the scheduler host from CUPS_SERVER.
	SchedulerAddress() string

	// SchedulerPort returns the scheduler IPP port from IPP_PORT.
	SchedulerPort() int

	// AppleDefaultDisabled reports whether macOS location-based default
	// resolution was disabled via the environment.
	AppleDefaultDisabled() bool

	// Overlay returns the merged user-over-system lpoptions overlay.
	Overlay() *Overlay

	// DefaultDestination returns the recorded default destination name and
	// instance, in priority order: LPDEST/PRINTER environment, then the
	// user overlay's Default line, then the system overlay's.
	DefaultDestination() (name string, instance string, ok bool)

	// SystemConfigDir returns CUPS_SYSCONFIG (or its default).
	SystemConfigDir() string

	// UserConfigDir returns CUPS_USERCONFIG (or its default).
	UserConfigDir() (string, errors.Error)
}

// New loads the system and user lpoptions overlays (a missing file is not
// an error) and resolves the scheduler/default-destination configuration
// from the environment.
func New() (Config, errors.Error) {
	sys, err := ParseLPOptionsFile(SystemLPOptionsPath())
	if err != nil {
		return nil, err
	}

	var usr = &Overlay{}
	if usrPath, uerr := UserLPOptionsPath(); uerr == nil {
		if usr, err = ParseLPOptionsFile(usrPath); err != nil {
			return nil, err
		}
	}

	return &cfg{
		sys: sys,
		usr: usr,
		all: Merge(sys, usr),
	}, nil
}
