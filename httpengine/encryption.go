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

package httpengine

import "strings"

// Encryption is the per-connection encryption requirement named by the
// overview: if-requested, never, required, always.
type Encryption uint8

const (
	EncryptionIfRequested Encryption = iota
	EncryptionNever
	EncryptionRequired
	EncryptionAlways
)

func (e Encryption) String() string {
	switch e {
	case EncryptionNever:
		return "never"
	case EncryptionRequired:
		return "required"
	case EncryptionAlways:
		return "always"
	default:
		return "if-requested"
	}
}

// ParseEncryption maps a configuration token to an Encryption value,
// defaulting to EncryptionIfRequested for anything unrecognized.
func ParseEncryption(s string) Encryption {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "never":
		return EncryptionNever
	case "required":
		return EncryptionRequired
	case "always":
		return EncryptionAlways
	default:
		return EncryptionIfRequested
	}
}
