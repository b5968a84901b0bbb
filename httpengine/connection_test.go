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

package httpengine_test

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/nabbar/printcore/httpengine"
	libptc "github.com/nabbar/printcore/network/protocol"
	"github.com/nabbar/printcore/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// readRawRequest reads a request line plus header block from br and
// returns the header names (lower-cased) it saw, for servers in these
// tests that need to branch on client behavior without pulling in the
// engine's own request parser.
func readRawRequest(br *bufio.Reader) (map[string]string, error) {
	if _, err := br.ReadString('\n'); err != nil {
		return nil, err
	}

	headers := map[string]string{}
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(line[:idx]))] = strings.TrimSpace(line[idx+1:])
	}
	return headers, nil
}

var _ = Describe("Connection.Do", func() {
	var ln net.Listener

	BeforeEach(func() {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		_ = ln.Close()
	})

	dialAddr := func() transport.AddressList {
		a := ln.Addr().(*net.TCPAddr)
		return transport.AddressList{{Network: libptc.NetworkTCP, Host: "127.0.0.1", Port: uint16(a.Port)}}
	}

	It("performs a plain GET round trip and decodes a fixed-length body", func() {
		go func() {
			raw, err := ln.Accept()
			if err != nil {
				return
			}
			defer raw.Close()

			br := bufio.NewReader(raw)
			if _, err := readRawRequest(br); err != nil {
				return
			}
			fmt.Fprint(raw, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")
		}()

		tr := transport.NewClient("127.0.0.1", nil)
		Expect(tr.Connect(context.Background(), dialAddr(), 1000, nil)).To(BeNil())
		defer tr.Close()

		conn := httpengine.NewConnection(tr, httpengine.EncryptionIfRequested, nil, nil)
		resp, err := conn.Do(context.Background(), httpengine.Request{Method: httpengine.MethodGet, URI: "/status"}, "", "")
		Expect(err).To(BeNil())
		Expect(resp.Status).To(Equal(200))

		body, rerr := io.ReadAll(resp.Body)
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(body)).To(Equal("hello"))
	})

	It("decodes a chunked response body", func() {
		go func() {
			raw, err := ln.Accept()
			if err != nil {
				return
			}
			defer raw.Close()

			br := bufio.NewReader(raw)
			if _, err := readRawRequest(br); err != nil {
				return
			}
			fmt.Fprint(raw, "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n")
		}()

		tr := transport.NewClient("127.0.0.1", nil)
		Expect(tr.Connect(context.Background(), dialAddr(), 1000, nil)).To(BeNil())
		defer tr.Close()

		conn := httpengine.NewConnection(tr, httpengine.EncryptionIfRequested, nil, nil)
		resp, err := conn.Do(context.Background(), httpengine.Request{Method: httpengine.MethodGet, URI: "/status"}, "", "")
		Expect(err).To(BeNil())

		body, rerr := io.ReadAll(resp.Body)
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(body)).To(Equal("hello"))
	})

	It("answers a 401 digest challenge and succeeds on retry", func() {
		go func() {
			raw, err := ln.Accept()
			if err != nil {
				return
			}
			defer raw.Close()

			br := bufio.NewReader(raw)
			if _, err := readRawRequest(br); err != nil {
				return
			}
			fmt.Fprint(raw, "HTTP/1.1 401 Unauthorized\r\nWWW-Authenticate: Digest realm=\"printers\", nonce=\"abc123\", qop=\"auth\"\r\nContent-Length: 0\r\n\r\n")

			hdrs, err := readRawRequest(br)
			if err != nil {
				return
			}
			if _, ok := hdrs["authorization"]; !ok {
				fmt.Fprint(raw, "HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\n\r\n")
				return
			}
			fmt.Fprint(raw, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nOK")
		}()

		tr := transport.NewClient("127.0.0.1", nil)
		Expect(tr.Connect(context.Background(), dialAddr(), 1000, nil)).To(BeNil())
		defer tr.Close()

		conn := httpengine.NewConnection(tr, httpengine.EncryptionIfRequested, nil, nil)
		resp, err := conn.Do(context.Background(), httpengine.Request{Method: httpengine.MethodGet, URI: "/ipp/print"}, "alice", "secret")
		Expect(err).To(BeNil())
		Expect(resp.Status).To(Equal(200))

		body, rerr := io.ReadAll(resp.Body)
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(body)).To(Equal("OK"))
	})

	It("surfaces a malformed status line as an error", func() {
		go func() {
			raw, err := ln.Accept()
			if err != nil {
				return
			}
			defer raw.Close()

			br := bufio.NewReader(raw)
			if _, err := readRawRequest(br); err != nil {
				return
			}
			fmt.Fprint(raw, "not a status line\r\n\r\n")
		}()

		tr := transport.NewClient("127.0.0.1", nil)
		Expect(tr.Connect(context.Background(), dialAddr(), 1000, nil)).To(BeNil())
		defer tr.Close()

		conn := httpengine.NewConnection(tr, httpengine.EncryptionIfRequested, nil, nil)
		_, err := conn.Do(context.Background(), httpengine.Request{Method: httpengine.MethodGet, URI: "/"}, "", "")
		Expect(err).ToNot(BeNil())
		Expect(conn.LastError()).ToNot(BeNil())
	})
})
