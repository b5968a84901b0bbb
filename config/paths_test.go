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

package config_test

import (
	"path/filepath"

	libcfg "github.com/nabbar/printcore/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("path resolution", func() {
	BeforeEach(func() {
		GinkgoT().Setenv(libcfg.EnvSysConfig, "")
		GinkgoT().Setenv(libcfg.EnvUserConfig, "")
	})

	It("defaults the system config dir to /etc/cups", func() {
		Expect(libcfg.SystemConfigDir()).To(Equal("/etc/cups"))
		Expect(libcfg.SystemLPOptionsPath()).To(Equal(filepath.Join("/etc/cups", "lpoptions")))
	})

	It("honors CUPS_SYSCONFIG", func() {
		GinkgoT().Setenv(libcfg.EnvSysConfig, "/custom/cups")
		Expect(libcfg.SystemConfigDir()).To(Equal("/custom/cups"))
	})

	It("honors CUPS_USERCONFIG for the user dir and its subpaths", func() {
		GinkgoT().Setenv(libcfg.EnvUserConfig, "/home/alice/.cups")

		d, err := libcfg.UserConfigDir()
		Expect(err).To(BeNil())
		Expect(d).To(Equal("/home/alice/.cups"))

		s, err := libcfg.SSLDir()
		Expect(err).To(BeNil())
		Expect(s).To(Equal(filepath.Join("/home/alice/.cups", "ssl")))

		o, err := libcfg.OAuthDir()
		Expect(err).To(BeNil())
		Expect(o).To(Equal(filepath.Join("/home/alice/.cups", "oauth")))

		p, err := libcfg.UserLPOptionsPath()
		Expect(err).To(BeNil())
		Expect(p).To(Equal(filepath.Join("/home/alice/.cups", "lpoptions")))
	})
})
