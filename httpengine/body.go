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
	"io"
	"strconv"
	"strings"
)

// maxReadUntilClose is the safety ceiling the overview names for bodies
// with neither Content-Length nor Transfer-Encoding on a method/status
// that is expected to carry one.
const maxReadUntilClose = 1<<31 - 1

// Encoding is the pending-data encoding a message body is read/written
// under.
type Encoding uint8

const (
	EncodingIdentityLength Encoding = iota
	EncodingIdentityChunked
	EncodingUntilClose
	EncodingNone
)

// resolveRequestBodyEncoding implements the request-framing rule: chunked
// takes priority when declared, else Content-Length, else zero for the
// methods that default to no body, else read-until-close.
func resolveRequestBodyEncoding(m Method, contentLength int64, hasContentLength bool, transferEncodingChunked bool) (Encoding, int64) {
	if transferEncodingChunked {
		return EncodingIdentityChunked, 0
	}
	if hasContentLength {
		if contentLength <= 0 {
			return EncodingNone, 0
		}
		return EncodingIdentityLength, contentLength
	}
	if noRequestBodyByDefault[m] {
		return EncodingNone, 0
	}
	return EncodingUntilClose, maxReadUntilClose
}

// resolveResponseBodyEncoding additionally forces zero body for any status
// >= 300 unless the response explicitly declares a length or chunked
// encoding, and for 1xx/204/304 regardless of headers.
func resolveResponseBodyEncoding(status int, contentLength int64, hasContentLength bool, transferEncodingChunked bool) (Encoding, int64) {
	if status < 200 || status == 204 || status == 304 {
		return EncodingNone, 0
	}
	if transferEncodingChunked {
		return EncodingIdentityChunked, 0
	}
	if hasContentLength {
		if contentLength <= 0 {
			return EncodingNone, 0
		}
		return EncodingIdentityLength, contentLength
	}
	if status >= 300 {
		return EncodingNone, 0
	}
	return EncodingUntilClose, maxReadUntilClose
}

func parseContentLength(v string) (int64, bool, error) {
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0, true, err
	}
	return n, true, nil
}

// bodyReader returns an io.Reader bounded per enc, feeding reads from br,
// further wrapped by a content-coding decoder when coding != CodingIdentity.
func bodyReader(br *bufio.Reader, enc Encoding, length int64, coding Coding) (io.ReadCloser, error) {
	var raw io.Reader

	switch enc {
	case EncodingIdentityChunked:
		raw = newChunkReader(br)
	case EncodingIdentityLength, EncodingUntilClose:
		raw = io.LimitReader(br, length)
	default:
		return io.NopCloser(strings.NewReader("")), nil
	}

	return NewDecoder(raw, coding)
}

// bodyWriter returns an io.WriteCloser that frames writes per enc (fixed
// length passthrough or chunked framing), wrapping a content-coding
// encoder in front when coding != CodingIdentity. Closing the returned
// writer finalizes the coding and, for chunked bodies, emits the
// terminating zero-length chunk.
func bodyWriter(w io.Writer, enc Encoding, coding Coding) (io.WriteCloser, error) {
	var framed io.WriteCloser

	switch enc {
	case EncodingIdentityChunked:
		framed = newChunkWriter(w)
	default:
		framed = nopWriteCloser{w}
	}

	if coding == CodingIdentity {
		return framed, nil
	}

	enc2, err := NewEncoder(framed, coding)
	if err != nil {
		return nil, err
	}

	return &codedThenFramedCloser{coded: enc2, framed: framed}, nil
}

// codedThenFramedCloser closes the content-coding layer (flushing its
// trailing bytes through the still-open frame) before closing the frame
// itself (which, for chunked, emits the terminating chunk).
type codedThenFramedCloser struct {
	coded  io.WriteCloser
	framed io.WriteCloser
}

func (c *codedThenFramedCloser) Write(p []byte) (int, error) {
	return c.coded.Write(p)
}

func (c *codedThenFramedCloser) Close() error {
	if err := c.coded.Close(); err != nil {
		return err
	}
	return c.framed.Close()
}
