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

// Method is one of the request methods the engine's state machine tracks
// distinctly. MethodUnknown covers any token not in this closed set.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodOptions
	MethodGet
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodTrace
	MethodConnect
	MethodCopy
	MethodLock
	MethodMkcol
	MethodMove
	MethodPropfind
	MethodProppatch
	MethodUnlock
)

var methodNames = map[Method]string{
	MethodOptions:   "OPTIONS",
	MethodGet:       "GET",
	MethodHead:      "HEAD",
	MethodPost:      "POST",
	MethodPut:       "PUT",
	MethodDelete:    "DELETE",
	MethodTrace:     "TRACE",
	MethodConnect:   "CONNECT",
	MethodCopy:      "COPY",
	MethodLock:      "LOCK",
	MethodMkcol:     "MKCOL",
	MethodMove:      "MOVE",
	MethodPropfind:  "PROPFIND",
	MethodProppatch: "PROPPATCH",
	MethodUnlock:    "UNLOCK",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "unknown-method"
}

// ParseMethod maps a request-line token to a Method, or MethodUnknown if it
// is not one of the recognized verbs.
func ParseMethod(token string) Method {
	for m, s := range methodNames {
		if s == token {
			return m
		}
	}
	return MethodUnknown
}

// noRequestBodyByDefault lists the methods whose body length defaults to
// zero when neither Content-Length nor Transfer-Encoding is present.
var noRequestBodyByDefault = map[Method]bool{
	MethodOptions: true,
	MethodHead:    true,
	MethodDelete:  true,
	MethodTrace:   true,
	MethodConnect: true,
}
