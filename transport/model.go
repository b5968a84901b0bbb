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

package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/printcore/errors"
	loglib "github.com/nabbar/printcore/logger"
)

// cancelPollInterval bounds how often blocking waits re-check the caller's
// cancel flag and the context, so a cancellation is noticed promptly even
// when the overall deadline is much longer.
const cancelPollInterval = 100 * time.Millisecond

const (
	defaultBlockingReadTimeout = 60 * time.Second
	defaultNonBlockingTimeout  = 10 * time.Second
	tlsUpgradeTimeout          = 30 * time.Second
)

type conn struct {
	mu sync.Mutex

	mode     Mode
	hostname string
	remote   Address

	raw net.Conn
	br  *bufio.Reader

	blocking     bool
	timeout      time.Duration
	continuation ContinuationFunc

	lastErr errors.Error
	log     loglib.Logger
	isTLS   bool
}

func newConn(mode Mode, hostname string, raw net.Conn, log loglib.Logger) *conn {
	c := &conn{
		mode:     mode,
		hostname: hostname,
		blocking: true,
		log:      log,
	}

	if raw != nil {
		c.raw = raw
		c.br = bufio.NewReader(raw)
		if a, ok := raw.RemoteAddr().(*net.TCPAddr); ok {
			c.remote = Address{Host: a.IP.String(), Port: uint16(a.Port)}
		}
	}

	return c
}

func (c *conn) Mode() Mode             { return c.mode }
func (c *conn) Hostname() string       { return c.hostname }
func (c *conn) IsBlocking() bool       { return c.blocking }
func (c *conn) LastError() errors.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *conn) RemoteAddr() Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}

func (c *conn) debugf(message string, args ...interface{}) {
	if c.log != nil {
		c.log.Debug(message, nil, args...)
	}
}

func (c *conn) warnf(message string, args ...interface{}) {
	if c.log != nil {
		c.log.Warning(message, nil, args...)
	}
}

func cancelled(cancel *int32) bool {
	return cancel != nil && atomic.LoadInt32(cancel) != 0
}

// Connect tries each address in turn, applying a per-address dial deadline
// derived from timeoutMillis, until one succeeds or the list (or the
// caller's cancel flag) is exhausted.
func (c *conn) Connect(ctx context.Context, addrs AddressList, timeoutMillis int, cancel *int32) errors.Error {
	if c.mode != ModeClient {
		return ErrorNotConnected.Error()
	}
	if len(addrs) == 0 {
		return ErrorAddrListEmpty.Error()
	}

	perAddr := time.Duration(timeoutMillis) * time.Millisecond
	if len(addrs) > 1 && timeoutMillis > 0 {
		perAddr = time.Duration(timeoutMillis/len(addrs)) * time.Millisecond
	}

	var lastErr error

	for _, a := range addrs {
		if cancelled(cancel) {
			e := ErrorCancelled.Error()
			c.setLastErr(e)
			return e
		}

		select {
		case <-ctx.Done():
			e := ErrorCancelled.Error(ctx.Err())
			c.setLastErr(e)
			return e
		default:
		}

		c.debugf("transport: dialing %s (%s)", a.String(), a.Network.Code())

		dialCtx := ctx
		var cancelDial context.CancelFunc
		if perAddr > 0 {
			dialCtx, cancelDial = context.WithTimeout(ctx, perAddr)
		}

		d := net.Dialer{}
		rc, err := d.DialContext(dialCtx, a.Network.Code(), a.String())
		if cancelDial != nil {
			cancelDial()
		}

		if err != nil {
			lastErr = err
			continue
		}

		if tc, ok := rc.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}

		c.mu.Lock()
		c.raw = rc
		c.br = bufio.NewReader(rc)
		c.remote = a
		c.lastErr = nil
		c.mu.Unlock()

		return nil
	}

	c.warnf("transport: address list exhausted for %s", c.hostname)
	e := ErrorDial.Error(lastErr)
	c.setLastErr(e)
	return e
}

// UpgradeTLS performs a TLS client handshake over the already-connected
// socket, replacing the plaintext reader with one fed by the TLS session.
// Any bytes still buffered from a prior Peek are discarded: callers that
// upgrade mid-exchange (the 101 Switching Protocols path) must do so only
// at a message boundary, as the spec's TLS-upgrade flow guarantees.
func (c *conn) UpgradeTLS(ctx context.Context, cfg *tls.Config) errors.Error {
	c.mu.Lock()
	rc := c.raw
	c.mu.Unlock()

	if rc == nil {
		return ErrorNotConnected.Error()
	}

	tc := tls.Client(rc, cfg)

	hctx, cancel := context.WithTimeout(ctx, tlsUpgradeTimeout)
	defer cancel()

	if err := tc.HandshakeContext(hctx); err != nil {
		e := ErrorDial.Error(err)
		c.setLastErr(e)
		return e
	}

	c.mu.Lock()
	c.raw = tc
	c.br = bufio.NewReader(tc)
	c.isTLS = true
	c.mu.Unlock()

	c.debugf("transport: TLS handshake complete for %s", c.hostname)
	return nil
}

func (c *conn) IsTLS() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isTLS
}

func (c *conn) setLastErr(e errors.Error) {
	c.mu.Lock()
	c.lastErr = e
	c.mu.Unlock()
}

// SetTimeout installs the user-level I/O timeout and continuation callback.
// A zero value restores blocking semantics with the package defaults.
func (c *conn) SetTimeout(seconds float64, continuation ContinuationFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seconds <= 0 {
		c.timeout = 0
	} else {
		c.timeout = time.Duration(seconds * float64(time.Second))
	}
	c.continuation = continuation
}

func (c *conn) SetBlocking(blocking bool) {
	c.mu.Lock()
	c.blocking = blocking
	c.mu.Unlock()
}

func (c *conn) readTimeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeout > 0 {
		return c.timeout
	}
	if c.blocking {
		return defaultBlockingReadTimeout
	}
	return defaultNonBlockingTimeout
}

// WaitReadable polls rc for readability using a deadline-bounded Peek, so it
// never consumes the byte it finds. It checks cancel between polling
// windows, so a caller can abort a long wait cooperatively.
func (c *conn) WaitReadable(timeoutMillis int, cancel *int32) (bool, errors.Error) {
	c.mu.Lock()
	rc, br := c.raw, c.br
	c.mu.Unlock()

	if rc == nil || br == nil {
		return false, ErrorNotConnected.Error()
	}

	remaining := time.Duration(timeoutMillis) * time.Millisecond
	if remaining <= 0 {
		remaining = cancelPollInterval
	}

	for remaining > 0 {
		if cancelled(cancel) {
			return false, ErrorCancelled.Error()
		}

		step := cancelPollInterval
		if step > remaining {
			step = remaining
		}

		_ = rc.SetReadDeadline(time.Now().Add(step))
		_, err := br.Peek(1)
		_ = rc.SetReadDeadline(time.Time{})

		if err == nil {
			return true, nil
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			remaining -= step
			continue
		}

		e := ErrorClosed.Error(err)
		c.setLastErr(e)
		return false, e
	}

	return false, nil
}

func (c *conn) Read(p []byte) (int, error) {
	c.mu.Lock()
	rc, br := c.raw, c.br
	timeout := c.readTimeout()
	cont := c.continuation
	c.mu.Unlock()

	if rc == nil || br == nil {
		return 0, ErrorNotConnected.Error()
	}

	for {
		_ = rc.SetReadDeadline(time.Now().Add(timeout))
		n, err := br.Read(p)

		if ne, ok := err.(net.Error); ok && ne.Timeout() && cont != nil && cont() {
			continue
		}

		return n, err
	}
}

func (c *conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	rc := c.raw
	timeout := c.readTimeout()
	cont := c.continuation
	c.mu.Unlock()

	if rc == nil {
		return 0, ErrorNotConnected.Error()
	}

	written := 0
	for written < len(p) {
		_ = rc.SetWriteDeadline(time.Now().Add(timeout))
		n, err := rc.Write(p[written:])
		written += n

		if err == nil {
			continue
		}

		if ne, ok := err.(net.Error); ok && ne.Timeout() && cont != nil && cont() {
			continue
		}

		return written, err
	}

	return written, nil
}

func (c *conn) Close() errors.Error {
	c.mu.Lock()
	rc := c.raw
	c.raw = nil
	c.br = nil
	c.mu.Unlock()

	if rc == nil {
		return nil
	}

	if err := rc.Close(); err != nil {
		e := ErrorClosed.Error(err)
		c.setLastErr(e)
		return e
	}

	return nil
}
