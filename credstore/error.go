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

package credstore

import "github.com/nabbar/printcore/errors"

const (
	ErrorParamsEmpty errors.CodeError = iota + 740
	ErrorCertParse
	ErrorCertEmpty
	ErrorCacheDirCreate
	ErrorCacheFileCreate
	ErrorCacheFileRead
	ErrorCacheSymlinkRefused
)

func init() {
	errors.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorCertParse:
		return "cannot parse certificate"
	case ErrorCertEmpty:
		return "credential handle has no certificate"
	case ErrorCacheDirCreate:
		return "cannot create pinned-credential cache directory"
	case ErrorCacheFileCreate:
		return "cannot create pinned-credential cache file"
	case ErrorCacheFileRead:
		return "cannot read pinned-credential cache file"
	case ErrorCacheSymlinkRefused:
		return "refusing to follow symlink in pinned-credential cache path"
	}
	return ""
}
