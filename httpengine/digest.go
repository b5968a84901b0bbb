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

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DigestChallenge is the parsed content of a WWW-Authenticate: Digest
// header.
type DigestChallenge struct {
	Realm     string
	Nonce     string
	Opaque    string
	QOP       string
	Algorithm string
}

// maxDigestRetries bounds how many times the engine will answer a fresh
// digest challenge before surfacing the 401 to the caller.
const maxDigestRetries = 3

// ParseDigestChallenge extracts realm/nonce/opaque/qop/algorithm from a
// WWW-Authenticate header value. It returns ok=false if the header is not a
// Digest challenge.
func ParseDigestChallenge(header string) (DigestChallenge, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(strings.ToLower(header), "digest") {
		return DigestChallenge{}, false
	}

	rest := strings.TrimSpace(header[len("Digest"):])
	params := splitDigestParams(rest)

	c := DigestChallenge{
		Realm:     params["realm"],
		Nonce:     params["nonce"],
		Opaque:    params["opaque"],
		QOP:       firstQOP(params["qop"]),
		Algorithm: params["algorithm"],
	}
	if c.Algorithm == "" {
		c.Algorithm = "MD5"
	}

	if c.Nonce == "" {
		return DigestChallenge{}, false
	}

	return c, true
}

func firstQOP(v string) string {
	parts := strings.Split(v, ",")
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

// splitDigestParams parses a comma-separated "key=value" or "key="value""
// list, tolerating commas embedded inside quoted values.
func splitDigestParams(s string) map[string]string {
	out := make(map[string]string)

	var inQuotes bool
	var parts []string
	var cur strings.Builder

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())

	for _, p := range parts {
		p = strings.TrimSpace(p)
		idx := strings.IndexByte(p, '=')
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(p[:idx]))
		val := strings.TrimSpace(p[idx+1:])
		val = strings.Trim(val, `"`)
		out[key] = val
	}

	return out
}

// digestHash returns the hash function for algorithm, stripping any
// "-sess" suffix (the caller handles the sess variant's HA1 derivation
// separately).
func digestHash(algorithm string) func([]byte) string {
	base := strings.TrimSuffix(strings.ToUpper(algorithm), "-SESS")
	switch base {
	case "SHA-256", "SHA256":
		return func(b []byte) string {
			h := sha256.Sum256(b)
			return hex.EncodeToString(h[:])
		}
	default:
		return func(b []byte) string {
			h := md5.Sum(b)
			return hex.EncodeToString(h[:])
		}
	}
}

func isSessAlgorithm(algorithm string) bool {
	return strings.HasSuffix(strings.ToUpper(algorithm), "-SESS")
}

// DigestCredentials is the computed material placed into the Authorization
// header for a digest-protected request.
type DigestCredentials struct {
	Username  string
	Realm     string
	Nonce     string
	URI       string
	Response  string
	Opaque    string
	QOP       string
	NC        string
	CNonce    string
	Algorithm string
}

// ComputeDigestResponse implements RFC 7616: HA1/HA2 depend on the
// algorithm (MD5, SHA-256, and their -sess variants); response = H(HA1 :
// nonce : nc : cnonce : qop : HA2). nc is the caller-maintained nonce
// count for this nonce value; it is formatted here as an 8-hex-digit
// string.
func ComputeDigestResponse(challenge DigestChallenge, username, password, method, uri string, nc int, cnonce string) DigestCredentials {
	h := digestHash(challenge.Algorithm)

	ha1 := h([]byte(username + ":" + challenge.Realm + ":" + password))
	if isSessAlgorithm(challenge.Algorithm) {
		ha1 = h([]byte(ha1 + ":" + challenge.Nonce + ":" + cnonce))
	}

	ha2 := h([]byte(method + ":" + uri))

	ncStr := fmt.Sprintf("%08x", nc)

	var response string
	if challenge.QOP != "" {
		response = h([]byte(ha1 + ":" + challenge.Nonce + ":" + ncStr + ":" + cnonce + ":" + challenge.QOP + ":" + ha2))
	} else {
		response = h([]byte(ha1 + ":" + challenge.Nonce + ":" + ha2))
	}

	return DigestCredentials{
		Username:  username,
		Realm:     challenge.Realm,
		Nonce:     challenge.Nonce,
		URI:       uri,
		Response:  response,
		Opaque:    challenge.Opaque,
		QOP:       challenge.QOP,
		NC:        ncStr,
		CNonce:    cnonce,
		Algorithm: challenge.Algorithm,
	}
}

// Authorization renders the computed credentials as an Authorization:
// Digest header value.
func (d DigestCredentials) Authorization() string {
	var b strings.Builder

	b.WriteString(`Digest username="`)
	b.WriteString(d.Username)
	b.WriteString(`", realm="`)
	b.WriteString(d.Realm)
	b.WriteString(`", nonce="`)
	b.WriteString(d.Nonce)
	b.WriteString(`", uri="`)
	b.WriteString(d.URI)
	b.WriteString(`", response="`)
	b.WriteString(d.Response)
	b.WriteString(`"`)

	if d.Opaque != "" {
		b.WriteString(`, opaque="`)
		b.WriteString(d.Opaque)
		b.WriteString(`"`)
	}
	if d.QOP != "" {
		b.WriteString(`, qop=`)
		b.WriteString(d.QOP)
		b.WriteString(`, nc=`)
		b.WriteString(d.NC)
		b.WriteString(`, cnonce="`)
		b.WriteString(d.CNonce)
		b.WriteString(`"`)
	}
	if d.Algorithm != "" {
		b.WriteString(`, algorithm=`)
		b.WriteString(d.Algorithm)
	}

	return b.String()
}

// NewClientNonce returns a random client nonce for the cnonce parameter.
func NewClientNonce() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// ParseNextNonce extracts nextnonce from an Authentication-Info header
// value, rolling the nonce forward for the subsequent request.
func ParseNextNonce(header string) (string, bool) {
	params := splitDigestParams(header)
	v, ok := params["nextnonce"]
	return v, ok
}
