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

package credstore_test

import (
	"time"

	"github.com/nabbar/printcore/credstore"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Credential", func() {
	It("rejects an empty Add", func() {
		c := credstore.New()
		Expect(c.Add(nil)).ToNot(BeNil())
	})

	It("rejects a non-PEM Add", func() {
		c := credstore.New()
		Expect(c.Add([]byte("not a cert"))).ToNot(BeNil())
	})

	It("accumulates a chain across successive Add calls", func() {
		c := credstore.New()
		Expect(c.Add([]byte(genLeafPEM("leaf.example.com", []string{"leaf.example.com"}, time.Now(), time.Hour)))).To(BeNil())
		Expect(c.Add([]byte(genLeafPEM("root-ca", nil, time.Now(), time.Hour)))).To(BeNil())
		Expect(c.Len()).To(Equal(2))
	})

	It("reports Compare true only for byte-identical chains", func() {
		pem1 := genLeafPEM("a.example.com", []string{"a.example.com"}, time.Now(), time.Hour)

		c1 := credstore.New()
		Expect(c1.Add([]byte(pem1))).To(BeNil())

		c2 := credstore.New()
		Expect(c2.Add([]byte(pem1))).To(BeNil())

		c3 := credstore.New()
		Expect(c3.Add([]byte(genLeafPEM("b.example.com", []string{"b.example.com"}, time.Now(), time.Hour)))).To(BeNil())

		Expect(c1.Compare(c2)).To(BeTrue())
		Expect(c1.Compare(c3)).To(BeFalse())
	})

	DescribeTable("ValidateForName wildcard matching",
		func(dnsNames []string, host string, expect bool) {
			c := credstore.New()
			Expect(c.Add([]byte(genLeafPEM("irrelevant", dnsNames, time.Now(), time.Hour)))).To(BeNil())
			Expect(c.ValidateForName(host)).To(Equal(expect))
		},
		Entry("exact match", []string{"printer.example.com"}, "printer.example.com", true),
		Entry("case-insensitive match", []string{"Printer.Example.com"}, "printer.example.com", true),
		Entry("wildcard matches one leftmost label", []string{"*.example.com"}, "printer.example.com", true),
		Entry("wildcard does not match two labels", []string{"*.example.com"}, "a.printer.example.com", false),
		Entry("no match on different domain", []string{"printer.example.com"}, "printer.example.org", false),
	)

	It("falls back to the subject CN when there is no SAN", func() {
		c := credstore.New()
		Expect(c.Add([]byte(genLeafPEM("printer.example.com", nil, time.Now(), time.Hour)))).To(BeNil())
		Expect(c.ValidateForName("printer.example.com")).To(BeTrue())
	})

	It("returns the nearest NotAfter across the chain", func() {
		now := time.Now()
		c := credstore.New()
		Expect(c.Add([]byte(genLeafPEM("leaf", nil, now, time.Hour)))).To(BeNil())
		Expect(c.Add([]byte(genLeafPEM("ca", nil, now, 2*time.Hour)))).To(BeNil())

		exp, ok := c.GetExpiration()
		Expect(ok).To(BeTrue())
		Expect(exp).To(BeTemporally("~", now.Add(time.Hour), time.Second))
	})

	It("reports no expiration for an empty chain", func() {
		c := credstore.New()
		_, ok := c.GetExpiration()
		Expect(ok).To(BeFalse())
	})

	It("allows Retain/Release without panicking", func() {
		c := credstore.New()
		r := c.Retain()
		Expect(r).To(Equal(c))
		r.Release()
		c.Release()
	})
})
