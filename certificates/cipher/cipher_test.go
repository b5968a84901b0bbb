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

package cipher_test

import (
	. "github.com/nabbar/printcore/certificates/cipher"

	. "github.com/onsi/ginkgo/v2"

	. "github.com/onsi/gomega"
)

var _ = Describe("cipher", func() {
	It("Parse should recognize known names and retro aliases", func() {
		Expect(Parse("TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256")).ToNot(Equal(Unknown))
		Expect(Parse("ECDHE_RSA_AES_128_GCM_SHA256")).ToNot(Equal(Unknown))
		Expect(Parse("ecdhe-rsa-aes-128-gcm-sha256")).ToNot(Equal(Unknown))
		Expect(Parse("tls.chacha20_poly1305_sha256 ecdhe ecdsa")).ToNot(Equal(Unknown))
		Expect(Parse("unknown_cipher")).To(Equal(Unknown))
	})

	It("String/Code should be consistent and non-empty for known ciphers", func() {
		c := TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256
		Expect(c.String()).To(ContainSubstring("ecdhe"))
		Expect(len(c.Code())).To(BeNumerically(">", 0))
	})

	It("Numeric helpers should map back to same value for known cipher", func() {
		c := TLS_CHACHA20_POLY1305_SHA256
		Expect(ParseInt(int(c.Uint16()))).To(Equal(c))
		Expect(Check(c.Uint16())).To(BeTrue())
	})
})
