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

import (
	"encoding/binary"
	"fmt"
)

// Header is the fixed 8-byte preamble common to every IPP request/response:
// a 2-byte version, a 2-byte operation-id/status-code, and a 4-byte
// request-id.
type Header struct {
	VersionMajor byte
	VersionMinor byte
	StatusCode   uint16
	RequestID    uint32
}

// Response is a parsed Get-Printers/CUPS-Get-Printers reply: the header
// plus every attribute group the message carried, in wire order. The
// operation-attributes-tag group (request echo) is included like any
// other. An AttributeGroup does not record the delimiter tag that opened
// it, so the printer groups are told apart by their attributes, not by tag.
type Response struct {
	Header Header
	Groups []AttributeGroup
}

// Parse walks p's wire bytes far enough to recover the header and every
// attribute group, stringifying each value per its tag. It does not
// validate operation semantics — any well-formed IPP message parses.
func Parse(p Payload) (Response, error) {
	data := p.Bytes()
	if len(data) < 8 {
		return Response{}, ErrorTruncated.Error(fmt.Errorf("message is %d bytes, need at least 8", len(data)))
	}

	hdr := Header{
		VersionMajor: data[0],
		VersionMinor: data[1],
		StatusCode:   binary.BigEndian.Uint16(data[2:4]),
		RequestID:    binary.BigEndian.Uint32(data[4:8]),
	}

	groups, err := parseGroups(data[8:])
	if err != nil {
		return Response{}, err
	}

	return Response{Header: hdr, Groups: groups}, nil
}

func parseGroups(buf []byte) ([]AttributeGroup, error) {
	var groups []AttributeGroup
	var cur *AttributeGroup

	terminated := false

	for len(buf) > 0 {
		t := tag(buf[0])
		buf = buf[1:]

		if t.isGroupDelimiter() {
			if t == tagEndOfAttributes {
				terminated = true
				break
			}
			groups = append(groups, AttributeGroup{})
			cur = &groups[len(groups)-1]
			continue
		}

		if cur == nil {
			return nil, ErrorTruncated.Error(fmt.Errorf("value tag 0x%02x before any group delimiter", byte(t)))
		}

		name, rest, err := readLengthPrefixed(buf)
		if err != nil {
			return nil, err
		}
		buf = rest

		if t.isOutOfBand() {
			cur.add(string(name), "")
			continue
		}

		value, rest, err := readLengthPrefixed(buf)
		if err != nil {
			return nil, err
		}
		buf = rest

		cur.add(string(name), valueToString(t, value))
	}

	if !terminated {
		return nil, ErrorUnterminated.Error(fmt.Errorf("missing end-of-attributes-tag"))
	}

	return groups, nil
}

func readLengthPrefixed(buf []byte) (value []byte, rest []byte, err error) {
	if len(buf) < 2 {
		return nil, nil, ErrorTruncated.Error(fmt.Errorf("truncated length prefix"))
	}
	n := int(binary.BigEndian.Uint16(buf[0:2]))
	buf = buf[2:]
	if len(buf) < n {
		return nil, nil, ErrorTruncated.Error(fmt.Errorf("truncated value: need %d bytes, have %d", n, len(buf)))
	}
	return buf[:n], buf[n:], nil
}
