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

import (
	"os"
	"path/filepath"

	"github.com/nabbar/printcore/errors"
)

// SystemConfigDir returns CUPS_SYSCONFIG, defaulting to /etc/cups.
func SystemConfigDir() string {
	if v := os.Getenv(EnvSysConfig); v != "" {
		return v
	}

	return defaultSysConfigDir
}

// UserConfigDir returns CUPS_USERCONFIG, defaulting to "$HOME/.cups".
func UserConfigDir() (string, errors.Error) {
	if v := os.Getenv(EnvUserConfig); v != "" {
		return v, nil
	}

	h, err := os.UserHomeDir()
	if err != nil {
		return "", ErrorHomeDirUnknown.Error(err)
	}

	return filepath.Join(h, defaultUserConfigDirLeaf), nil
}

// SystemLPOptionsPath returns the system lpoptions file path.
func SystemLPOptionsPath() string {
	return filepath.Join(SystemConfigDir(), "lpoptions")
}

// UserLPOptionsPath returns the user lpoptions file path.
func UserLPOptionsPath() (string, errors.Error) {
	d, err := UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(d, "lpoptions"), nil
}

// SSLDir returns the pinned-credential cache directory, one PEM file per
// hostname, rooted under the user config path per the persisted state
// layout (§6 of the distilled destination/trust model).
func SSLDir() (string, errors.Error) {
	d, err := UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(d, "ssl"), nil
}

// OAuthDir returns the OAuth/JWT token cache directory, one file per
// {issuer, resource} pair, rooted under the user config path.
func OAuthDir() (string, errors.Error) {
	d, err := UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(d, "oauth"), nil
}
