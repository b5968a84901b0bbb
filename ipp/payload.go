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

package ipp

// ContentType is the HTTP Content-Type an IPP payload is carried under.
const ContentType = "application/ipp"

// Payload is an opaque, caller-built IPP request or a received response,
// carried verbatim in the HTTP body. The core never interprets it beyond
// what Parse extracts for the resolver.
type Payload struct {
	data []byte
}

// NewPayload wraps a prebuilt IPP byte buffer.
func NewPayload(data []byte) Payload {
	return Payload{data: data}
}

// Bytes returns the raw wire bytes.
func (p Payload) Bytes() []byte {
	return p.data
}

// Len reports the payload size in bytes.
func (p Payload) Len() int {
	return len(p.data)
}
