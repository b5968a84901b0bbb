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
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Coding is one of the content codings named by the external-interfaces
// section: identity plus the gzip/deflate family.
type Coding uint8

const (
	CodingIdentity Coding = iota
	CodingGzip
	CodingDeflate
)

// scratchBufferSize is the 32 KiB scratch-buffer size. NewDecoder and
// NewEncoder do not reference it; the codecs use their own buffering.
const scratchBufferSize = 32 * 1024

// ParseCoding maps a Content-Encoding token to a Coding. Unrecognized
// tokens (including an empty string) return CodingIdentity.
func ParseCoding(token string) Coding {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "gzip", "x-gzip":
		return CodingGzip
	case "deflate", "x-deflate":
		return CodingDeflate
	default:
		return CodingIdentity
	}
}

func (c Coding) String() string {
	switch c {
	case CodingGzip:
		return "gzip"
	case CodingDeflate:
		return "deflate"
	default:
		return "identity"
	}
}

// NewDecoder wraps r to inflate the given coding: gzip-framed for gzip,
// raw deflate (no header, as NewEncoder writes it) for deflate.
func NewDecoder(r io.Reader, c Coding) (io.ReadCloser, error) {
	switch c {
	case CodingGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case CodingDeflate:
		return flate.NewReader(r), nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewEncoder wraps w to deflate writes under the given coding, mirroring
// the write-side windowBits convention: -11 (raw deflate, no header) for
// deflate, 27 (gzip-framed) for gzip. Close flushes the codec with
// Z_FINISH semantics (klauspost's Close does this) and, for chunked
// bodies, the caller's outer chunkWriter emits the trailing chunk/CRLF
// framing around whatever bytes Close produces.
func NewEncoder(w io.Writer, c Coding) (io.WriteCloser, error) {
	switch c {
	case CodingGzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case CodingDeflate:
		return flate.NewWriter(w, flate.DefaultCompression)
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
