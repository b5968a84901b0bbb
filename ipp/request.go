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

import "encoding/binary"

// OperationID is one of the operation codes this package knows how to
// build a minimal request for.
type OperationID uint16

const (
	// OpCUPSGetDefault asks the local scheduler for its default printer.
	OpCUPSGetDefault OperationID = 0x4001
	// OpCUPSGetPrinters asks the local scheduler to enumerate every
	// printer/class it knows about.
	OpCUPSGetPrinters OperationID = 0x4002
	// OpGetPrinterAttributes is the IPP-core equivalent used against a
	// single, already-resolved destination.
	OpGetPrinterAttributes OperationID = 0x000B
)

// RequestBuilder assembles a minimal IPP request: version 2.0, the given
// operation, request-id and operation-attributes group (charset,
// natural-language, printer-uri when set, requested-attributes), with no
// job/printer attribute groups. That covers every request this core
// issues itself (Get-Printers, CUPS-Get-Printers, Get-Printer-Attributes);
// anything richer is the caller's prebuilt Payload.
type RequestBuilder struct {
	Operation           OperationID
	RequestID           uint32
	Charset             string
	NaturalLanguage     string
	PrinterURI          string
	RequestedAttributes []string
}

// Build renders the request as a Payload.
func (b RequestBuilder) Build() Payload {
	var buf []byte

	buf = append(buf, 2, 0) // version 2.0
	buf = appendUint16(buf, uint16(b.Operation))
	buf = appendUint32(buf, b.RequestID)

	buf = append(buf, byte(tagOperationAttributes))

	charset := b.Charset
	if charset == "" {
		charset = "utf-8"
	}
	buf = appendAttribute(buf, tagCharset, "attributes-charset", charset)

	lang := b.NaturalLanguage
	if lang == "" {
		lang = "en"
	}
	buf = appendAttribute(buf, tagNaturalLanguage, "attributes-natural-language", lang)

	if b.PrinterURI != "" {
		buf = appendAttribute(buf, tagURI, "printer-uri", b.PrinterURI)
	}

	for i, a := range b.RequestedAttributes {
		name := "requested-attributes"
		if i > 0 {
			name = ""
		}
		buf = appendAttribute(buf, tagKeyword, name, a)
	}

	buf = append(buf, byte(tagEndOfAttributes))

	return NewPayload(buf)
}

func appendAttribute(buf []byte, t tag, name, value string) []byte {
	buf = append(buf, byte(t))
	buf = appendUint16(buf, uint16(len(name)))
	buf = append(buf, name...)
	buf = appendUint16(buf, uint16(len(value)))
	buf = append(buf, value...)
	return buf
}

func appendUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}
