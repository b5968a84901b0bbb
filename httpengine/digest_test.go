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
	"crypto/md5"
	"encoding/hex"

	"github.com/nabbar/printcore/httpengine"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("digest authentication", func() {
	It("parses a qop=auth challenge", func() {
		hdr := `Digest realm="printers", nonce="abc123", qop="auth", opaque="xyz"`
		c, ok := httpengine.ParseDigestChallenge(hdr)
		Expect(ok).To(BeTrue())
		Expect(c.Realm).To(Equal("printers"))
		Expect(c.Nonce).To(Equal("abc123"))
		Expect(c.QOP).To(Equal("auth"))
		Expect(c.Opaque).To(Equal("xyz"))
		Expect(c.Algorithm).To(Equal("MD5"))
	})

	It("rejects a non-Digest header", func() {
		_, ok := httpengine.ParseDigestChallenge("Basic realm=\"printers\"")
		Expect(ok).To(BeFalse())
	})

	It("computes the RFC 7616 response matching a hand-computed MD5 digest", func() {
		challenge := httpengine.DigestChallenge{
			Realm:     "printers",
			Nonce:     "n-1",
			QOP:       "auth",
			Algorithm: "MD5",
		}

		creds := httpengine.ComputeDigestResponse(challenge, "alice", "secret", "GET", "/ipp/print", 1, "cn-1")

		ha1 := md5sum("alice:printers:secret")
		ha2 := md5sum("GET:/ipp/print")
		want := md5sum(ha1 + ":n-1:00000001:cn-1:auth:" + ha2)

		Expect(creds.Response).To(Equal(want))
		Expect(creds.NC).To(Equal("00000001"))
	})

	It("renders an Authorization header with qop fields", func() {
		creds := httpengine.DigestCredentials{
			Username: "alice", Realm: "printers", Nonce: "n-1", URI: "/ipp/print",
			Response: "deadbeef", QOP: "auth", NC: "00000001", CNonce: "cn-1", Algorithm: "MD5",
		}
		auth := creds.Authorization()
		Expect(auth).To(ContainSubstring(`username="alice"`))
		Expect(auth).To(ContainSubstring(`qop=auth`))
		Expect(auth).To(ContainSubstring(`nc=00000001`))
	})

	It("extracts nextnonce from Authentication-Info", func() {
		next, ok := httpengine.ParseNextNonce(`nextnonce="n-2", qop=auth`)
		Expect(ok).To(BeTrue())
		Expect(next).To(Equal("n-2"))
	})

	It("produces distinct client nonces", func() {
		a := httpengine.NewClientNonce()
		b := httpengine.NewClientNonce()
		Expect(a).ToNot(Equal(b))
		Expect(len(a)).To(Equal(32))
	})
})

func md5sum(s string) string {
	h := md5.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}
