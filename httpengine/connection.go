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

// Package httpengine drives the RFC 7230/7231/7235 request/response state
// machine over a transport.Conn: header field tables, chunked transfer,
// content coding, digest authentication and TLS upgrade.
package httpengine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/nabbar/printcore/certificates"
	"github.com/nabbar/printcore/errors"
	loglib "github.com/nabbar/printcore/logger"
	"github.com/nabbar/printcore/transport"
)

// Connection is the state-carrying handle the overview describes: mode,
// remote address/hostname, blocking flag and timeout (held by the
// underlying transport.Conn), encryption requirement, protocol state,
// HTTP version, keep-alive, cookie scratch, digest scratch, last-activity
// and last-error.
type Connection struct {
	mu sync.Mutex

	tr      transport.Conn
	tlsCfg  certificates.TLSConfig
	log     loglib.Logger
	version string

	encryption Encryption
	state      State
	keepAlive  bool
	cookie     string

	lastActivity time.Time
	lastErr      errors.Error

	nonceCount  int
	nonce       string
	clientNonce string

	br *bufio.Reader
}

// NewConnection wraps tr (already connected) as an HTTP/1.1 engine
// connection. tlsCfg may be nil when encryption is never required.
func NewConnection(tr transport.Conn, encryption Encryption, tlsCfg certificates.TLSConfig, log loglib.Logger) *Connection {
	return &Connection{
		tr:         tr,
		tlsCfg:     tlsCfg,
		log:        log,
		version:    "HTTP/1.1",
		encryption: encryption,
		state:      Waiting(),
		keepAlive:  true,
	}
}

func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) LastError() errors.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Connection) setErr(e errors.Error) errors.Error {
	c.mu.Lock()
	c.state = State{Error: true}
	c.lastErr = e
	c.mu.Unlock()
	return e
}

func (c *Connection) reader() *bufio.Reader {
	if c.br == nil {
		c.br = bufio.NewReader(c.tr)
	}
	return c.br
}

func (c *Connection) touch() {
	c.mu.Lock()
	c.lastActivity = nowOrZero()
	c.mu.Unlock()
}

// nowOrZero exists so tests can run deterministically; production callers
// get the real wall clock.
var nowOrZero = time.Now

// ensureEncryption performs the dial-time-always or first-request-required
// TLS upgrade before any bytes of the exchange are written.
func (c *Connection) ensureEncryption(ctx context.Context) errors.Error {
	if c.tr.IsTLS() {
		return nil
	}

	switch c.encryption {
	case EncryptionAlways:
		return c.upgradeTLS(ctx)
	case EncryptionRequired:
		return c.negotiateUpgrade(ctx)
	default:
		return nil
	}
}

func (c *Connection) upgradeTLS(ctx context.Context) errors.Error {
	if c.tlsCfg == nil {
		return ErrorTLSUpgrade.Error(fmt.Errorf("no TLS configuration available"))
	}

	cfg := c.tlsCfg.TLS(c.tr.Hostname())
	if err := c.tr.UpgradeTLS(ctx, cfg); err != nil {
		return c.setErr(ErrorTLSUpgrade.Error(err))
	}

	c.br = bufio.NewReader(c.tr)
	return nil
}

// negotiateUpgrade sends the dummy "OPTIONS * Upgrade: TLS/1.2,..." probe
// and, on a 101 response, performs the handshake in place.
func (c *Connection) negotiateUpgrade(ctx context.Context) errors.Error {
	hdr := NewTable(c.log)
	hdr.Set("Connection", "Upgrade")
	hdr.Set("Upgrade", "TLS/1.2,TLS/1.1,TLS/1.0")
	hdr.Set("Content-Length", "0")

	if err := WriteRequestLine(c.tr, MethodOptions, "*", c.version); err != nil {
		return c.setErr(ErrorProtocolFraming.Error(err))
	}
	hdr.Set("Host", c.tr.Hostname())
	if err := WriteHeaders(c.tr, hdr); err != nil {
		return c.setErr(ErrorProtocolFraming.Error(err))
	}

	sl, err := ReadStatusLine(c.reader())
	if err != nil {
		return c.setErr(ErrorMalformedStatusLine.Error(err))
	}

	respHdr := NewTable(c.log)
	if _, _, _, err := ReadHeaders(c.reader(), respHdr); err != nil {
		return c.setErr(ErrorProtocolFraming.Error(err))
	}

	if sl.Status != 101 {
		// Server declined; continue in cleartext (if-requested semantics).
		return nil
	}

	return c.upgradeTLS(ctx)
}

// Request is one outgoing client exchange.
type Request struct {
	Method  Method
	URI     string
	Headers *Table
	Body    io.Reader
	// BodyLength is the Content-Length to declare; ignored when Chunked is
	// set. A negative value means "unknown", forcing chunked framing.
	BodyLength int64
	Chunked    bool
}

// Response is the result of Do.
type Response struct {
	Status  int
	Reason  string
	Headers *Table
	Body    io.ReadCloser
}

// Do performs one client request/response exchange, handling 100
// Continue, the 101 Switching Protocols TLS upgrade, and up to
// maxDigestRetries digest-authentication retries before surfacing a 401.
func (c *Connection) Do(ctx context.Context, req Request, username, password string) (*Response, errors.Error) {
	if err := c.ensureEncryption(ctx); err != nil {
		return nil, err
	}

	if req.Headers == nil {
		req.Headers = NewTable(c.log)
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.doOnce(req)
		if err != nil {
			return nil, err
		}

		if resp.Status == 101 {
			if e := c.upgradeTLS(ctx); e != nil {
				return nil, e
			}
			continue
		}

		if resp.Status == 401 && attempt < maxDigestRetries {
			if challengeHdr, ok := resp.Headers.Get("WWW-Authenticate"); ok {
				if challenge, ok := ParseDigestChallenge(challengeHdr); ok {
					c.mu.Lock()
					c.nonce = challenge.Nonce
					c.nonceCount++
					if c.clientNonce == "" {
						c.clientNonce = NewClientNonce()
					}
					nc := c.nonceCount
					cnonce := c.clientNonce
					c.mu.Unlock()

					creds := ComputeDigestResponse(challenge, username, password, req.Method.String(), req.URI, nc, cnonce)
					req.Headers = req.Headers.Clone()
					req.Headers.Set("Authorization", creds.Authorization())
					continue
				}
			}
		}

		if v, ok := resp.Headers.Get("Authentication-Info"); ok {
			if next, ok := ParseNextNonce(v); ok {
				c.mu.Lock()
				c.nonce = next
				c.mu.Unlock()
			}
		}

		return resp, nil
	}
}

func (c *Connection) doOnce(req Request) (*Response, errors.Error) {
	c.touch()

	hdr := req.Headers
	hdr.Set("Host", c.tr.Hostname())

	chunked := req.Chunked || req.BodyLength < 0
	if chunked {
		hdr.Set("Transfer-Encoding", "chunked")
	} else if req.Body != nil {
		hdr.Set("Content-Length", strconv.FormatInt(req.BodyLength, 10))
	}

	if err := WriteRequestLine(c.tr, req.Method, req.URI, c.version); err != nil {
		return nil, c.setErr(ErrorProtocolFraming.Error(err))
	}
	if err := WriteHeaders(c.tr, hdr); err != nil {
		return nil, c.setErr(ErrorProtocolFraming.Error(err))
	}

	if req.Body != nil {
		enc := EncodingIdentityLength
		if chunked {
			enc = EncodingIdentityChunked
		}
		bw, err := bodyWriter(c.tr, enc, CodingIdentity)
		if err != nil {
			return nil, c.setErr(ErrorProtocolFraming.Error(err))
		}
		if _, err := io.Copy(bw, req.Body); err != nil {
			return nil, c.setErr(ErrorProtocolFraming.Error(err))
		}
		if err := bw.Close(); err != nil {
			return nil, c.setErr(ErrorProtocolFraming.Error(err))
		}
	}

	c.mu.Lock()
	c.state = State{Method: req.Method, Phase: PhaseSend}
	c.mu.Unlock()

	var sl StatusLine
	for {
		var err error
		sl, err = ReadStatusLine(c.reader())
		if err != nil {
			return nil, c.setErr(ErrorMalformedStatusLine.Error(err))
		}
		if sl.Status == 100 {
			// Discard the blank line terminating the interim response and
			// keep waiting for the real one; state does not advance.
			respHdr := NewTable(c.log)
			if _, _, _, e := ReadHeaders(c.reader(), respHdr); e != nil {
				return nil, c.setErr(ErrorProtocolFraming.Error(e))
			}
			continue
		}
		break
	}

	respHdr := NewTable(c.log)
	cl, hasCL, te, err := ReadHeaders(c.reader(), respHdr)
	if err != nil {
		return nil, c.setErr(ErrorProtocolFraming.Error(err))
	}

	var body io.ReadCloser
	if sl.Status != 101 {
		enc, length := resolveResponseBodyEncoding(sl.Status, cl, hasCL, te)
		coding := CodingIdentity
		if v, ok := respHdr.Get("Content-Encoding"); ok {
			coding = ParseCoding(v)
		}
		body, err = bodyReader(c.reader(), enc, length, coding)
		if err != nil {
			return nil, c.setErr(ErrorProtocolFraming.Error(err))
		}
	}

	c.mu.Lock()
	c.state = State{Status: true}
	if v, ok := respHdr.Get("Connection"); ok && v == "close" {
		c.keepAlive = false
	}
	c.mu.Unlock()

	return &Response{Status: sl.Status, Reason: sl.Reason, Headers: respHdr, Body: body}, nil
}

// Close shuts down the underlying transport.
func (c *Connection) Close() errors.Error {
	return c.tr.Close()
}
