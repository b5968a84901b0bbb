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
	"strconv"
	"strings"
)

// RequestLine is the parsed first line of an HTTP request.
type RequestLine struct {
	Method  Method
	URI     string
	Version string
}

// StatusLine is the parsed first line of an HTTP response.
type StatusLine struct {
	Version string
	Status  int
	Reason  string
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadRequestLine parses "METHOD uri HTTP/x.y". An unrecognized method or
// version yields ErrorUnknownMethod / ErrorUnknownVersion respectively,
// matching the unknown-method / unknown-version error states.
func ReadRequestLine(br *bufio.Reader) (RequestLine, error) {
	line, err := readLine(br)
	if err != nil {
		return RequestLine{}, err
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return RequestLine{}, ErrorMalformedRequestLine.Error(fmt.Errorf("%q", line))
	}

	m := ParseMethod(parts[0])
	if m == MethodUnknown {
		return RequestLine{}, ErrorUnknownMethod.Error(fmt.Errorf("%q", parts[0]))
	}

	if !isSupportedVersion(parts[2]) {
		return RequestLine{}, ErrorUnknownVersion.Error(fmt.Errorf("%q", parts[2]))
	}

	return RequestLine{Method: m, URI: parts[1], Version: parts[2]}, nil
}

// WriteRequestLine writes "METHOD uri HTTP/x.y\r\n".
func WriteRequestLine(w writer, m Method, uri, version string) error {
	_, err := fmt.Fprintf(w, "%s %s %s\r\n", m.String(), uri, version)
	return err
}

// ReadStatusLine parses "HTTP/x.y status reason".
func ReadStatusLine(br *bufio.Reader) (StatusLine, error) {
	line, err := readLine(br)
	if err != nil {
		return StatusLine{}, err
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return StatusLine{}, ErrorMalformedStatusLine.Error(fmt.Errorf("%q", line))
	}

	if !isSupportedVersion(parts[0]) {
		return StatusLine{}, ErrorUnknownVersion.Error(fmt.Errorf("%q", parts[0]))
	}

	status, err := strconv.Atoi(parts[1])
	if err != nil {
		return StatusLine{}, ErrorMalformedStatusLine.Error(err)
	}

	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}

	return StatusLine{Version: parts[0], Status: status, Reason: reason}, nil
}

// WriteStatusLine writes "HTTP/x.y status reason\r\n".
func WriteStatusLine(w writer, version string, status int, reason string) error {
	_, err := fmt.Fprintf(w, "%s %d %s\r\n", version, status, reason)
	return err
}

func isSupportedVersion(v string) bool {
	return v == "HTTP/1.0" || v == "HTTP/1.1"
}

// writer is the minimal io.Writer-shaped interface used by the line
// helpers, satisfied by both *bufio.Writer and transport.Conn directly.
type writer interface {
	Write(p []byte) (int, error)
}

// ReadHeaders reads header lines into t until a blank line, resolving
// Content-Length and Transfer-Encoding along the way for the caller's
// convenience.
func ReadHeaders(br *bufio.Reader, t *Table) (contentLength int64, hasContentLength bool, chunked bool, err error) {
	for {
		line, e := readLine(br)
		if e != nil {
			return 0, false, false, e
		}
		if line == "" {
			break
		}

		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}

		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		t.Set(name, value)
	}

	if v, ok := t.GetField(FieldContentLength); ok {
		contentLength, hasContentLength, err = parseContentLength(v)
		if err != nil {
			return 0, false, false, ErrorBadContentLength.Error(err)
		}
	}

	if v, ok := t.GetField(FieldTransferEncoding); ok && strings.Contains(strings.ToLower(v), "chunked") {
		chunked = true
	}

	return contentLength, hasContentLength, chunked, nil
}

// WriteHeaders writes every stored field as "Name: value\r\n" followed by
// the blank line terminating the header block.
func WriteHeaders(w writer, t *Table) error {
	var err error
	t.Each(func(name, value string) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s: %s\r\n", name, value)
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("\r\n"))
	return err
}
