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

package resolver

import "strconv"

// Type is the printer-type bitmask every Destination's "printer-type"
// option carries, matching the original client's stable public values.
// Medium/large select the printer's largest supported media; the absence
// of either bit means "small media only".
type Type uint32

const (
	TypeClass         Type = 0x00000001
	TypeRemote        Type = 0x00000002
	TypeBW            Type = 0x00000004
	TypeColor         Type = 0x00000008
	TypeDuplex        Type = 0x00000010
	TypeStaple        Type = 0x00000020
	TypeCopies        Type = 0x00000040
	TypeCollate       Type = 0x00000080
	TypePunch         Type = 0x00000100
	TypeCover         Type = 0x00000200
	TypeBind          Type = 0x00000400
	TypeSort          Type = 0x00000800
	TypeMediumMedia   Type = 0x00001000
	TypeLargeMedia    Type = 0x00002000
	TypeVariableMedia Type = 0x00004000
	TypeImplicit      Type = 0x00008000
	TypeDefault       Type = 0x00020000
	TypeFax           Type = 0x00040000
	TypeRejecting     Type = 0x00080000
	TypeNotShared     Type = 0x00200000
	TypeAuthenticated Type = 0x00400000
	TypeCommands      Type = 0x00800000
	TypeDiscovered    Type = 0x01000000
	TypeScanner       Type = 0x02000000
	TypeMFP           Type = 0x04000000
	Type3D            Type = 0x08000000
)

// Matches reports whether t satisfies a caller's (filterType, filterMask)
// pair: (t & mask) == filterType. A zero mask matches everything.
func (t Type) Matches(filterType, filterMask Type) bool {
	return t&filterMask == filterType
}

// ParsePrinterType parses the decimal "printer-type" IPP attribute value
// ipp.Parse already stringified.
func ParsePrinterType(s string) Type {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return Type(n)
}

// deriveFromTXT builds a printer-type bitmask from DNS-SD TXT keys when the
// service did not advertise an explicit "printer-type" key itself.
func deriveFromTXT(txt map[string]string) Type {
	var t Type

	if boolTXT(txt["duplex"]) {
		t |= TypeDuplex
	}
	if boolTXT(txt["color"]) {
		t |= TypeColor
	} else {
		t |= TypeBW
	}
	if boolTXT(txt["staple"]) {
		t |= TypeStaple
	}
	if boolTXT(txt["collate"]) {
		t |= TypeCollate
	}
	if boolTXT(txt["bind"]) {
		t |= TypeBind
	}
	if boolTXT(txt["punch"]) {
		t |= TypePunch
	}
	if boolTXT(txt["sort"]) {
		t |= TypeSort
	}
	if boolTXT(txt["fax"]) {
		t |= TypeFax
	}
	if txt["papermax"] == "legal-a4" || txt["papermax"] == ">legal-a4" {
		t |= TypeLargeMedia
	} else if txt["papermax"] != "" {
		t |= TypeMediumMedia
	}

	return t | TypeDiscovered
}

func boolTXT(v string) bool {
	return v == "t" || v == "T" || v == "1" || v == "true"
}
