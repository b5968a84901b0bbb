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

// Package config resolves the scheduler address, the default destination
// name, and the user/system state directories from environment variables
// and the lpoptions overlay files, the way a local print client does before
// it ever opens a connection.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names consulted by this package.
const (
	EnvLPDest              = "LPDEST"
	EnvPrinter             = "PRINTER"
	EnvCupsServer          = "CUPS_SERVER"
	EnvIPPPort             = "IPP_PORT"
	EnvDisableAppleDefault = "CUPS_DISABLE_APPLE_DEFAULT"
	EnvNoAppleDefault      = "CUPS_NO_APPLE_DEFAULT"
	EnvUserConfig          = "CUPS_USERCONFIG"
	EnvSysConfig           = "CUPS_SYSCONFIG"
)

const (
	defaultIPPPort           = 631
	defaultSysConfigDir      = "/etc/cups"
	defaultUserConfigDirLeaf = ".cups"
	genericPrinterSentinel   = "lp"
	defaultSchedulerAddress  = "localhost"
)

// DefaultDestination returns the user-default destination name recorded in
// LPDEST, or in PRINTER unless PRINTER is the generic "lp" sentinel (which
// the original client treats as "no default set"). ok is false when neither
// variable names a usable destination.
func DefaultDestination() (name string, ok bool) {
	if v := os.Getenv(EnvLPDest); v != "" {
		return v, true
	}

	if v := os.Getenv(EnvPrinter); v != "" && v != genericPrinterSentinel {
		return v, true
	}

	return "", false
}

// AppleDefaultDisabled reports whether macOS location-based default-printer
// resolution has been disabled via either recognized environment variable.
func AppleDefaultDisabled() bool {
	return os.Getenv(EnvDisableAppleDefault) != "" || os.Getenv(EnvNoAppleDefault) != ""
}

// SchedulerAddress returns the host (and optional unix-socket path) the
// client should connect to, from CUPS_SERVER, defaulting to "localhost".
func SchedulerAddress() string {
	if v := os.Getenv(EnvCupsServer); v != "" {
		return v
	}

	return defaultSchedulerAddress
}

// SchedulerPort returns the scheduler's IPP port from IPP_PORT, defaulting
// to 631. A malformed value falls back to the default rather than failing,
// since a bad IPP_PORT in the environment should not abort the client.
func SchedulerPort() int {
	v := strings.TrimSpace(os.Getenv(EnvIPPPort))
	if v == "" {
		return defaultIPPPort
	}

	p, err := strconv.Atoi(v)
	if err != nil || p <= 0 || p > 65535 {
		return defaultIPPPort
	}

	return p
}
