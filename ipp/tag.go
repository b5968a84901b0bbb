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
	"strconv"
)

// tag is an IPP value/delimiter tag (RFC 8010 §3.5). Only the subset
// needed to walk a Get-Printers response and stringify its values is
// named here; every other tag value still round-trips as a best-effort
// string via valueToString's default case.
type tag byte

const (
	tagOperationAttributes tag = 0x01
	tagJobAttributes       tag = 0x02
	tagEndOfAttributes     tag = 0x03
	tagPrinterAttributes   tag = 0x04
	tagUnsupportedAttrs    tag = 0x05

	tagUnsupportedValue tag = 0x10
	tagUnknown          tag = 0x12
	tagNoValue          tag = 0x13

	tagInteger        tag = 0x21
	tagBoolean        tag = 0x22
	tagEnum           tag = 0x23
	tagOctetString    tag = 0x30
	tagDateTime       tag = 0x31
	tagResolution     tag = 0x32
	tagRangeOfInteger tag = 0x33
	tagTextWithLang   tag = 0x35
	tagNameWithLang   tag = 0x36

	tagTextWithoutLang tag = 0x41
	tagNameWithoutLang tag = 0x42
	tagKeyword         tag = 0x44
	tagURI             tag = 0x45
	tagURIScheme       tag = 0x46
	tagCharset         tag = 0x47
	tagNaturalLanguage tag = 0x48
	tagMimeMediaType   tag = 0x49
)

// isGroupDelimiter reports whether t opens (or closes) an attribute group
// rather than naming a value's type: delimiter tags occupy the 0x00-0x0F
// range, values start at 0x10.
func (t tag) isGroupDelimiter() bool {
	return t < 0x10
}

// isOutOfBand reports the tags that carry no value bytes at all.
func (t tag) isOutOfBand() bool {
	switch t {
	case tagUnsupportedValue, tagUnknown, tagNoValue:
		return true
	default:
		return false
	}
}

// valueToString renders raw per the encoding rules for t, falling back to
// a hex dump for tags this package does not special-case.
func valueToString(t tag, raw []byte) string {
	switch t {
	case tagInteger, tagEnum:
		if len(raw) == 4 {
			return strconv.Itoa(int(int32(binary.BigEndian.Uint32(raw))))
		}
	case tagBoolean:
		if len(raw) == 1 {
			if raw[0] != 0 {
				return "true"
			}
			return "false"
		}
	case tagTextWithoutLang, tagNameWithoutLang, tagKeyword, tagURI,
		tagURIScheme, tagCharset, tagNaturalLanguage, tagMimeMediaType,
		tagOctetString:
		return string(raw)
	case tagTextWithLang, tagNameWithLang:
		// "langLen lang valueLen value" — the natural-language prefix is
		// dropped, only the text itself is surfaced as a string.
		if len(raw) >= 2 {
			langLen := int(binary.BigEndian.Uint16(raw[0:2]))
			rest := raw[2+langLen:]
			if len(rest) >= 2 {
				valLen := int(binary.BigEndian.Uint16(rest[0:2]))
				return string(rest[2 : 2+valLen])
			}
		}
	case tagRangeOfInteger:
		if len(raw) == 8 {
			lo := int32(binary.BigEndian.Uint32(raw[0:4]))
			hi := int32(binary.BigEndian.Uint32(raw[4:8]))
			return strconv.Itoa(int(lo)) + "-" + strconv.Itoa(int(hi))
		}
	}

	const hexDigits = "0123456789abcdef"
	out := make([]byte, 0, len(raw)*2)
	for _, b := range raw {
		out = append(out, hexDigits[b>>4], hexDigits[b&0x0f])
	}
	return string(out)
}
