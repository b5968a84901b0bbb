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

import "github.com/nabbar/printcore/errors"

const (
	ErrorParamsEmpty errors.CodeError = iota + 760
	ErrorMalformedStatusLine
	ErrorMalformedRequestLine
	ErrorUnknownMethod
	ErrorUnknownVersion
	ErrorBadContentLength
	ErrorBadChunkLength
	ErrorProtocolFraming
	ErrorDigestChallenge
	ErrorTLSUpgrade
	ErrorNotConnected
)

func init() {
	errors.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorMalformedStatusLine:
		return "malformed status line"
	case ErrorMalformedRequestLine:
		return "malformed request line"
	case ErrorUnknownMethod:
		return "unknown request method"
	case ErrorUnknownVersion:
		return "unknown HTTP version"
	case ErrorBadContentLength:
		return "invalid Content-Length"
	case ErrorBadChunkLength:
		return "invalid chunk length"
	case ErrorProtocolFraming:
		return "protocol framing error"
	case ErrorDigestChallenge:
		return "invalid WWW-Authenticate digest challenge"
	case ErrorTLSUpgrade:
		return "TLS upgrade failed"
	case ErrorNotConnected:
		return "connection is not open"
	}
	return ""
}
