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

package transport_test

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	liberr "github.com/nabbar/printcore/errors"
	libptc "github.com/nabbar/printcore/network/protocol"
	"github.com/nabbar/printcore/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Conn", func() {
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

	It("connects to a reachable address", func() {
		accepted := make(chan net.Conn, 1)
		go func() {
			c, _ := ln.Accept()
			accepted <- c
		}()

		c := transport.NewClient("127.0.0.1", nil)
		Expect(c.Mode()).To(Equal(transport.ModeClient))

		err := c.Connect(context.Background(), dialAddr(), 1000, nil)
		Expect(err).To(BeNil())
		defer c.Close()

		Eventually(accepted).Should(Receive())
	})

	It("fails with ErrorAddrListEmpty on an empty address list", func() {
		c := transport.NewClient("127.0.0.1", nil)
		err := c.Connect(context.Background(), nil, 1000, nil)
		Expect(err.IsCode(transport.ErrorAddrListEmpty)).To(BeTrue())
	})

	It("honours a pre-set cancel flag", func() {
		var cancel int32 = 1
		c := transport.NewClient("127.0.0.1", nil)
		err := c.Connect(context.Background(), dialAddr(), 1000, &cancel)
		Expect(err).ToNot(BeNil())
	})

	It("round-trips data written by the server side", func() {
		done := make(chan struct{})
		go func() {
			defer close(done)
			raw, err := ln.Accept()
			if err != nil {
				return
			}
			_, _ = raw.Write([]byte("hello"))
			_ = raw.Close()
		}()

		c := transport.NewClient("127.0.0.1", nil)
		Expect(c.Connect(context.Background(), dialAddr(), 1000, nil)).To(BeNil())
		defer c.Close()

		buf := make([]byte, 5)
		n, err := c.Read(buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("hello"))

		Eventually(done).Should(BeClosed())
	})

	It("WaitReadable reports false on an idle connection before the peer writes", func() {
		go func() { _, _ = ln.Accept() }()

		c := transport.NewClient("127.0.0.1", nil)
		Expect(c.Connect(context.Background(), dialAddr(), 1000, nil)).To(BeNil())
		defer c.Close()

		ready, err := c.WaitReadable(200, nil)
		Expect(err).To(BeNil())
		Expect(ready).To(BeFalse())
	})

	It("WaitReadable reports true without consuming the byte once data arrives", func() {
		srv := make(chan net.Conn, 1)
		go func() {
			c, _ := ln.Accept()
			srv <- c
		}()

		c := transport.NewClient("127.0.0.1", nil)
		Expect(c.Connect(context.Background(), dialAddr(), 1000, nil)).To(BeNil())
		defer c.Close()

		var peer net.Conn
		Eventually(srv).Should(Receive(&peer))
		_, _ = peer.Write([]byte("x"))

		ready, err := c.WaitReadable(1000, nil)
		Expect(err).To(BeNil())
		Expect(ready).To(BeTrue())

		buf := make([]byte, 1)
		n, err := c.Read(buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("x"))
	})

	It("NewServer wraps an accepted connection in ModeServer", func() {
		accepted := make(chan net.Conn, 1)
		go func() {
			raw, _ := ln.Accept()
			accepted <- raw
		}()

		client, err := net.Dial("tcp", ln.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer client.Close()

		var raw net.Conn
		Eventually(accepted).Should(Receive(&raw))

		s := transport.NewServer("peer", raw, nil)
		Expect(s.Mode()).To(Equal(transport.ModeServer))
		Expect(s.Close()).To(BeNil())
	})

	It("SetTimeout and SetBlocking do not panic on an unconnected handle", func() {
		c := transport.NewClient("127.0.0.1", nil)
		c.SetTimeout(2.5, func() bool { return false })
		c.SetBlocking(false)
		Expect(c.IsBlocking()).To(BeFalse())
	})

	It("Read on an unconnected handle returns ErrorNotConnected", func() {
		c := transport.NewClient("127.0.0.1", nil)
		_, err := c.Read(make([]byte, 1))
		Expect(liberr.IsCode(err, transport.ErrorNotConnected)).To(BeTrue())
	})

	It("reports IsTLS false before any upgrade and rejects UpgradeTLS when unconnected", func() {
		c := transport.NewClient("127.0.0.1", nil)
		Expect(c.IsTLS()).To(BeFalse())

		err := c.UpgradeTLS(context.Background(), &tls.Config{})
		Expect(err).ToNot(BeNil())
		Expect(c.IsTLS()).To(BeFalse())
	})
})

var _ = Describe("Mode", func() {
	It("stringifies both modes", func() {
		Expect(transport.ModeClient.String()).To(Equal("client"))
		Expect(transport.ModeServer.String()).To(Equal("server"))
	})
})

var _ = Describe("timing constants sanity", func() {
	It("keeps WaitReadable responsive within a couple of poll windows", func() {
		start := time.Now()
		ln2, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())
		defer ln2.Close()

		go func() { _, _ = ln2.Accept() }()

		a := ln2.Addr().(*net.TCPAddr)
		c := transport.NewClient("127.0.0.1", nil)
		Expect(c.Connect(context.Background(), transport.AddressList{{Network: libptc.NetworkTCP, Host: "127.0.0.1", Port: uint16(a.Port)}}, 1000, nil)).To(BeNil())
		defer c.Close()

		_, _ = c.WaitReadable(150, nil)
		Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
	})
})
