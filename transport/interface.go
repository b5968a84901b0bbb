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

// Package transport dials and accepts the raw TCP/TLS connections that the
// HTTP engine runs its protocol state machine over. It resolves a hostname
// to one or more candidate addresses, connects with a per-address deadline,
// and exposes a single Conn abstraction for both the client-dial and the
// server-accept side of that connection.
package transport

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/nabbar/printcore/errors"
	loglib "github.com/nabbar/printcore/logger"
	libptc "github.com/nabbar/printcore/network/protocol"
)

// Mode distinguishes which side of the connection this process is: the one
// that dialed out, or the one that accepted an inbound connection.
type Mode uint8

const (
	ModeClient Mode = iota
	ModeServer
)

func (m Mode) String() string {
	switch m {
	case ModeServer:
		return "server"
	default:
		return "client"
	}
}

// ContinuationFunc is invoked on every blocking-I/O timeout tick. Returning
// false turns the tick into a hard timeout error; returning true lets the
// wait continue.
type ContinuationFunc func() bool

// Address is one candidate endpoint produced by OpenAddrList.
type Address struct {
	Network libptc.NetworkProtocol
	Host    string
	Port    uint16
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, portString(a.Port))
}

// AddressList is the ordered set of candidates Connect tries in turn.
type AddressList []Address

// Conn is a single TCP/TLS connection, either dialed by this process
// (ModeClient) or accepted from a listener (ModeServer). Connect and
// WaitReadable poll the cancel flag, when non-nil, on every iteration so a
// caller can abort a long wait by setting *cancel to a non-zero value from
// another goroutine; Read and Write take no cancel flag.
type Conn interface {
	Mode() Mode
	Hostname() string
	RemoteAddr() Address
	IsBlocking() bool
	LastError() errors.Error

	// Connect dials the first reachable address in addrs, trying each in
	// turn with a deadline of timeoutMillis/len(addrs) (or timeoutMillis
	// itself when there is only one candidate). Only meaningful in
	// ModeClient.
	Connect(ctx context.Context, addrs AddressList, timeoutMillis int, cancel *int32) errors.Error

	// SetTimeout installs the user-level I/O timeout (fractional seconds
	// allowed) and an optional continuation callback invoked on every
	// blocking-read/write timeout tick. A zero seconds value removes the
	// user-level timeout, so the package defaults apply again (60 s per
	// Read/Write when blocking, 10 s when not).
	SetTimeout(seconds float64, continuation ContinuationFunc)

	// SetBlocking selects which package default deadline Read/Write use
	// when no SetTimeout timeout is installed: 60 s when blocking, 10 s
	// when not.
	SetBlocking(blocking bool)

	// WaitReadable polls for readability without consuming any buffered
	// data, returning true once the connection has data ready or false if
	// timeoutMillis elapses first.
	WaitReadable(timeoutMillis int, cancel *int32) (bool, errors.Error)

	// UpgradeTLS wraps the live socket in a TLS client handshake, in place,
	// for connections that start in cleartext and upgrade on a 101
	// Switching Protocols response (encryption "required") as well as
	// connections that are TLS from the first byte (encryption "always").
	// Subsequent Read/Write go through the encrypted session.
	UpgradeTLS(ctx context.Context, cfg *tls.Config) errors.Error

	// IsTLS reports whether UpgradeTLS has completed successfully.
	IsTLS() bool

	Read(p []byte) (int, error)
	Write(p []byte) (int, error)

	Close() errors.Error
}

// NewClient returns an unconnected client-mode handle; Connect must be
// called before any I/O. log may be nil, in which case connect attempts
// and address-list exhaustion are not logged. Cancellation is never logged.
func NewClient(hostname string, log loglib.Logger) Conn {
	return newConn(ModeClient, hostname, nil, log)
}

// NewServer wraps raw, a connection accepted by a listener, as the server
// side of the handle.
func NewServer(hostname string, raw net.Conn, log loglib.Logger) Conn {
	return newConn(ModeServer, hostname, raw, log)
}
