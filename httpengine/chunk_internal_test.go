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

import (
	"bufio"
	"bytes"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("chunkWriter / chunkReader", func() {
	It("round-trips a multi-write body and terminates with the zero chunk", func() {
		var wire bytes.Buffer

		cw := newChunkWriter(&wire)
		_, err := cw.Write([]byte("hello, "))
		Expect(err).ToNot(HaveOccurred())
		_, err = cw.Write([]byte("world"))
		Expect(err).ToNot(HaveOccurred())
		Expect(cw.Close()).To(Succeed())

		Expect(wire.String()).To(HaveSuffix("0\r\n\r\n"))

		cr := newChunkReader(bufio.NewReader(&wire))
		got, err := io.ReadAll(cr)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(got)).To(Equal("hello, world"))
	})

	It("rejects a malformed chunk-size line", func() {
		wire := bytes.NewBufferString("zzz\r\nbody\r\n0\r\n\r\n")
		cr := newChunkReader(bufio.NewReader(wire))

		_, err := io.ReadAll(cr)
		Expect(err).To(HaveOccurred())
	})

	It("handles a zero-length write as a no-op", func() {
		var wire bytes.Buffer
		cw := newChunkWriter(&wire)

		n, err := cw.Write(nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(0))
		Expect(wire.Len()).To(Equal(0))
	})
})

var _ = Describe("body encoding resolution", func() {
	It("prioritizes chunked over Content-Length for requests", func() {
		enc, _ := resolveRequestBodyEncoding(MethodPost, 10, true, true)
		Expect(enc).To(Equal(EncodingIdentityChunked))
	})

	It("defaults HEAD to no body when neither header is present", func() {
		enc, length := resolveRequestBodyEncoding(MethodHead, 0, false, false)
		Expect(enc).To(Equal(EncodingNone))
		Expect(length).To(Equal(int64(0)))
	})

	It("reads a GET request body until close when nothing else is declared", func() {
		enc, _ := resolveRequestBodyEncoding(MethodGet, 0, false, false)
		Expect(enc).To(Equal(EncodingUntilClose))
	})

	It("forces an empty body for 204 and 304 responses", func() {
		enc, _ := resolveResponseBodyEncoding(204, 100, true, false)
		Expect(enc).To(Equal(EncodingNone))

		enc, _ = resolveResponseBodyEncoding(304, 100, true, false)
		Expect(enc).To(Equal(EncodingNone))
	})

	It("forces an empty body for a bodiless error status with no declared length", func() {
		enc, _ := resolveResponseBodyEncoding(404, 0, false, false)
		Expect(enc).To(Equal(EncodingNone))
	})

	It("reads a 200 response until close when no framing header is present", func() {
		enc, _ := resolveResponseBodyEncoding(200, 0, false, false)
		Expect(enc).To(Equal(EncodingUntilClose))
	})
})
