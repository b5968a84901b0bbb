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
	"strings"
	"sync"

	loglib "github.com/nabbar/printcore/logger"
)

// Field is one of the closed set of recognized header names. FieldUnknown
// is the catch-all bucket for anything outside that set.
type Field uint16

const (
	FieldUnknown Field = iota
	FieldAccept
	FieldAcceptEncoding
	FieldAcceptLanguage
	FieldAcceptRanges
	FieldAge
	FieldAllow
	FieldAuthenticationInfo
	FieldAuthorization
	FieldCacheControl
	FieldConnection
	FieldContentEncoding
	FieldContentLanguage
	FieldContentLength
	FieldContentLocation
	FieldContentMD5
	FieldContentRange
	FieldContentType
	FieldContentVersion
	FieldCookie
	FieldDate
	FieldETag
	FieldExpect
	FieldExpires
	FieldFrom
	FieldHost
	FieldIfMatch
	FieldIfModifiedSince
	FieldIfNoneMatch
	FieldIfRange
	FieldIfUnmodifiedSince
	FieldKeepAlive
	FieldLastModified
	FieldLink
	FieldLocation
	FieldMaxForwards
	FieldMimeVersion
	FieldPragma
	FieldProxyAuthenticate
	FieldProxyAuthorization
	FieldRange
	FieldReferer
	FieldRetryAfter
	FieldServer
	FieldSetCookie
	FieldTE
	FieldTrailer
	FieldTransferEncoding
	FieldUpgrade
	FieldUserAgent
	FieldVary
	FieldVia
	FieldWarning
	FieldWWWAuthenticate
)

var fieldNames = map[Field]string{
	FieldAccept:             "Accept",
	FieldAcceptEncoding:     "Accept-Encoding",
	FieldAcceptLanguage:     "Accept-Language",
	FieldAcceptRanges:       "Accept-Ranges",
	FieldAge:                "Age",
	FieldAllow:              "Allow",
	FieldAuthenticationInfo: "Authentication-Info",
	FieldAuthorization:      "Authorization",
	FieldCacheControl:       "Cache-Control",
	FieldConnection:         "Connection",
	FieldContentEncoding:    "Content-Encoding",
	FieldContentLanguage:    "Content-Language",
	FieldContentLength:      "Content-Length",
	FieldContentLocation:    "Content-Location",
	FieldContentMD5:         "Content-MD5",
	FieldContentRange:       "Content-Range",
	FieldContentType:        "Content-Type",
	FieldContentVersion:     "Content-Version",
	FieldCookie:             "Cookie",
	FieldDate:               "Date",
	FieldETag:               "ETag",
	FieldExpect:             "Expect",
	FieldExpires:            "Expires",
	FieldFrom:               "From",
	FieldHost:               "Host",
	FieldIfMatch:            "If-Match",
	FieldIfModifiedSince:    "If-Modified-Since",
	FieldIfNoneMatch:        "If-None-Match",
	FieldIfRange:            "If-Range",
	FieldIfUnmodifiedSince:  "If-Unmodified-Since",
	FieldKeepAlive:          "Keep-Alive",
	FieldLastModified:       "Last-Modified",
	FieldLink:               "Link",
	FieldLocation:           "Location",
	FieldMaxForwards:        "Max-Forwards",
	FieldMimeVersion:        "MIME-Version",
	FieldPragma:             "Pragma",
	FieldProxyAuthenticate:  "Proxy-Authenticate",
	FieldProxyAuthorization: "Proxy-Authorization",
	FieldRange:              "Range",
	FieldReferer:            "Referer",
	FieldRetryAfter:         "Retry-After",
	FieldServer:             "Server",
	FieldSetCookie:          "Set-Cookie",
	FieldTE:                 "TE",
	FieldTrailer:            "Trailer",
	FieldTransferEncoding:   "Transfer-Encoding",
	FieldUpgrade:            "Upgrade",
	FieldUserAgent:          "User-Agent",
	FieldVary:               "Vary",
	FieldVia:                "Via",
	FieldWarning:            "Warning",
	FieldWWWAuthenticate:    "WWW-Authenticate",
}

var fieldByLowerName = func() map[string]Field {
	m := make(map[string]Field, len(fieldNames))
	for f, n := range fieldNames {
		m[strings.ToLower(n)] = f
	}
	return m
}()

// commaAppend is the set of fields that accumulate with a comma delimiter
// on repeat instead of replacing the prior value.
var commaAppend = map[Field]bool{
	FieldAcceptEncoding:   true,
	FieldAcceptLanguage:   true,
	FieldAcceptRanges:     true,
	FieldAllow:            true,
	FieldLink:             true,
	FieldTransferEncoding: true,
	FieldUpgrade:          true,
	FieldWWWAuthenticate:  true,
}

// ParseField looks up name case-insensitively against the known set,
// returning FieldUnknown for anything else.
func ParseField(name string) Field {
	if f, ok := fieldByLowerName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f
	}
	return FieldUnknown
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "Unknown"
}

// Table holds one HTTP message's header values, replacing on repeat unless
// the field is in the comma-append set. Unknown field names may be logged
// through the optional Logger but are not retained individually, per the
// field-handling rule for the 53-name closed set.
type Table struct {
	mu     sync.RWMutex
	values map[Field]string
	log    loglib.Logger
}

// NewTable returns an empty header table. log may be nil.
func NewTable(log loglib.Logger) *Table {
	return &Table{values: make(map[Field]string), log: log}
}

// Set stores value under name, honoring the comma-append rule on repeat,
// and normalizing the Host field per the spec's bracket/trailing-dot rule.
func (t *Table) Set(name, value string) {
	f := ParseField(name)

	if f == FieldUnknown {
		if t.log != nil {
			t.log.Debug("httpengine: unrecognized header field", nil, name)
		}
		return
	}

	if f == FieldHost {
		value = NormalizeHost(value)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.values[f]; ok && commaAppend[f] && prev != "" {
		t.values[f] = prev + ", " + value
	} else {
		t.values[f] = value
	}
}

// Get returns the stored value for name and whether it was present.
func (t *Table) Get(name string) (string, bool) {
	f := ParseField(name)
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[f]
	return v, ok
}

// GetField is Get keyed directly by a Field constant, for internal callers
// that already resolved the field.
func (t *Table) GetField(f Field) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[f]
	return v, ok
}

// Del removes name from the table.
func (t *Table) Del(name string) {
	f := ParseField(name)
	t.mu.Lock()
	delete(t.values, f)
	t.mu.Unlock()
}

// Clone returns an independent copy of the table, sharing the same logger.
func (t *Table) Clone() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := NewTable(t.log)
	for f, v := range t.values {
		out.values[f] = v
	}
	return out
}

// Each calls fn once per stored field, in no particular order.
func (t *Table) Each(fn func(name, value string)) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for f, v := range t.values {
		fn(f.String(), v)
	}
}

// NormalizeHost brackets an IPv6 literal and strips a trailing dot from an
// FQDN, matching the Host field normalization rule.
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(host, ".")

	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		if idx := strings.LastIndex(host, ":"); idx >= 0 && strings.Count(host, ":") == 1 {
			// host:port — not a bare IPv6 literal, leave alone.
			return host
		}
		return "[" + host + "]"
	}

	return host
}
