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
	"fmt"
	"io"
	"strconv"
	"strings"
)

// chunkReader implements the read side of chunked transfer: a hex length
// line, exactly that many body bytes, a trailing CRLF, repeated until a
// zero-length chunk terminates the body with one final CRLF.
type chunkReader struct {
	br     *bufio.Reader
	remain int64
	done   bool
}

func newChunkReader(br *bufio.Reader) *chunkReader {
	return &chunkReader{br: br}
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.done {
		return 0, io.EOF
	}

	if c.remain == 0 {
		if err := c.nextChunkHeader(); err != nil {
			return 0, err
		}
		if c.done {
			return 0, io.EOF
		}
	}

	n := len(p)
	if int64(n) > c.remain {
		n = int(c.remain)
	}

	read, err := c.br.Read(p[:n])
	c.remain -= int64(read)

	if err != nil {
		return read, err
	}

	if c.remain == 0 {
		if _, err := readCRLF(c.br); err != nil {
			return read, err
		}
	}

	return read, nil
}

func (c *chunkReader) nextChunkHeader() error {
	line, err := c.br.ReadString('\n')
	if err != nil {
		return err
	}

	line = strings.TrimRight(line, "\r\n")
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(line), 16, 64)
	if err != nil || n < 0 {
		return ErrorBadChunkLength.Error(err)
	}

	if n == 0 {
		c.done = true
		_, err = readCRLF(c.br)
		return err
	}

	c.remain = n
	return nil
}

func readCRLF(br *bufio.Reader) (bool, error) {
	b, err := br.ReadByte()
	if err != nil {
		return false, err
	}
	if b == '\n' {
		return true, nil
	}
	if b != '\r' {
		return false, ErrorProtocolFraming.Error(fmt.Errorf("expected CRLF, got %q", b))
	}
	b, err = br.ReadByte()
	if err != nil {
		return false, err
	}
	if b != '\n' {
		return false, ErrorProtocolFraming.Error(fmt.Errorf("expected LF after CR, got %q", b))
	}
	return true, nil
}

// chunkWriter implements the write side of chunked transfer. Close emits
// the terminating "0\r\n\r\n" sequence.
type chunkWriter struct {
	w io.Writer
}

func newChunkWriter(w io.Writer) *chunkWriter {
	return &chunkWriter{w: w}
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if _, err := fmt.Fprintf(c.w, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	n, err := c.w.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := c.w.Write([]byte("\r\n")); err != nil {
		return n, err
	}
	return n, nil
}

func (c *chunkWriter) Close() error {
	_, err := c.w.Write([]byte("0\r\n\r\n"))
	return err
}
