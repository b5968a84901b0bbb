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

package credstore

// Trust is the verdict GetTrust returns after comparing a presented
// credential against whatever chain (if any) is pinned for a hostname.
type Trust uint8

const (
	// TrustUnknown means no chain was ever pinned for this hostname.
	TrustUnknown Trust = iota
	// TrustOK means the presented chain is byte-identical to the pinned one.
	TrustOK
	// TrustRenewed means the subject matches the pinned chain's but the
	// presented leaf has a newer NotBefore: a routine certificate rotation.
	TrustRenewed
	// TrustChanged means the presented chain's subject differs from the
	// pinned one's: a potential man-in-the-middle or misconfiguration. It is
	// also returned for a same-subject chain whose leaf is neither newer nor
	// expired.
	TrustChanged
	// TrustExpired means the subject matches the pinned chain's, the
	// presented leaf is not newer, and the presented chain's nearest NotAfter
	// has passed.
	TrustExpired
	// TrustInvalid means the presented credential could not be parsed or
	// carries no certificate at all. It is also returned alongside any error.
	TrustInvalid
)

func (t Trust) String() string {
	switch t {
	case TrustOK:
		return "ok"
	case TrustInvalid:
		return "invalid"
	case TrustChanged:
		return "changed"
	case TrustExpired:
		return "expired"
	case TrustRenewed:
		return "renewed"
	default:
		return "unknown"
	}
}
