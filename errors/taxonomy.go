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

package errors

// The eight error categories the runtime distinguishes, modeled as CodeError
// values so callers can still use Is/Has/Code the same way they would with
// any other registered code. IOError through InvalidArgumentError are
// classed "sticky" or "per-operation" as documented on each constant, and
// Sticky reports the class. transport and httpengine do not consult it: an
// error does not block later calls on the same connection.
const (
	// IOError wraps a socket send/recv/connect/poll failure from the OS.
	// Sticky.
	IOError CodeError = 600

	// TimeoutError marks an I/O budget that elapsed with no progress.
	// Sticky, same as IOError.
	TimeoutError CodeError = 601

	// CancelledError marks a cooperative cancel flag observed mid-operation.
	// Never sticky, never logged.
	CancelledError CodeError = 602

	// ProtocolError covers HTTP framing violations: bad status line, bad
	// chunk length, unknown method/version, or a read-until-close body
	// that exceeded the 2^31-1 safety ceiling. Sticky.
	ProtocolError CodeError = 603

	// TLSError covers handshake or certificate-chain failures. Sticky.
	TLSError CodeError = 604

	// AuthError marks three failed digest attempts or an unsupported
	// challenge scheme. Per-operation: does not poison the connection.
	AuthError CodeError = 605

	// ResolveError marks a DNS-SD query that produced no answer within
	// budget. Per-operation.
	ResolveError CodeError = 606

	// InvalidArgumentError marks a nil pointer, zero-length buffer, or
	// malformed URI supplied by the caller.
	InvalidArgumentError CodeError = 607
)

func init() {
	RegisterIdFctMessage(IOError, func(code CodeError) string {
		switch code {
		case IOError:
			return "i/o error"
		case TimeoutError:
			return "operation timed out"
		case CancelledError:
			return "operation cancelled"
		case ProtocolError:
			return "protocol error"
		case TLSError:
			return "tls error"
		case AuthError:
			return "authentication error"
		case ResolveError:
			return "resolve error"
		case InvalidArgumentError:
			return "invalid argument"
		default:
			return UnknownMessage
		}
	})
}

// Sticky reports whether this category is classed sticky (IOError,
// TimeoutError, ProtocolError, TLSError); it returns false for every other
// code, including the package-specific codes of transport and httpengine.
func (c CodeError) Sticky() bool {
	switch c {
	case IOError, TimeoutError, ProtocolError, TLSError:
		return true
	default:
		return false
	}
}
