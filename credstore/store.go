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

import (
	"bytes"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nabbar/printcore/errors"
	"github.com/nabbar/printcore/file/perm"
	"github.com/nabbar/printcore/ioutils"
)

// cacheDirMode/cacheFileMode are typed through file/perm (instead of bare
// os.FileMode literals) so the trust cache's restrictive modes parse and
// format the same way a loaded config value for them would.
var (
	cacheDirMode  = perm.ParseFileMode(0o700)
	cacheFileMode = perm.ParseFileMode(0o600)
)

type store struct {
	dir string
}

// cacheFileName maps a hostname to its pinned-credential cache file name.
// Hostnames never contain path separators, but a defensive slash-strip keeps
// a hostile "host" argument from escaping the cache directory.
func cacheFileName(host string) string {
	h := strings.ToLower(strings.ReplaceAll(host, string(filepath.Separator), "_"))
	return h + ".pem"
}

func (s *store) GetTrust(host string, cred Credential) (Trust, errors.Error) {
	if host == "" || cred == nil {
		return TrustInvalid, ErrorParamsEmpty.Error()
	}

	if cred.Len() == 0 {
		return TrustInvalid, ErrorCertEmpty.Error()
	}

	pinned, err := s.read(host)
	if err != nil {
		return TrustInvalid, err
	}

	if pinned == nil {
		return TrustUnknown, nil
	}

	if cred.Compare(pinned) {
		return TrustOK, nil
	}

	presentChain := cred.chain()
	pinnedChain := pinned.chain()

	presentLeaf := presentChain[0]
	pinnedLeaf := pinnedChain[0]

	sameSubject := bytes.Equal(presentLeaf.RawSubject, pinnedLeaf.RawSubject)

	if sameSubject && presentLeaf.NotBefore.After(pinnedLeaf.NotBefore) {
		return TrustRenewed, nil
	}

	if !sameSubject {
		return TrustChanged, nil
	}

	if notAfter, ok := cred.GetExpiration(); ok && notAfter.Before(time.Now()) {
		return TrustExpired, nil
	}

	return TrustChanged, nil
}

func (s *store) Pin(host string, cred Credential) errors.Error {
	if host == "" || cred == nil {
		return ErrorParamsEmpty.Error()
	}

	chain := cred.chain()
	if len(chain) == 0 {
		return ErrorCertEmpty.Error()
	}

	if err := ioutils.PathCheckCreate(false, s.dir, cacheFileMode.FileMode(), cacheDirMode.FileMode()); err != nil {
		return ErrorCacheDirCreate.Error(err)
	}

	var buf bytes.Buffer
	for _, ct := range chain {
		if e := pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: ct.Raw}); e != nil {
			return ErrorCacheFileCreate.Error(e)
		}
	}

	name := cacheFileName(host)

	rt, e := os.OpenRoot(s.dir)
	if e != nil {
		return ErrorCacheDirCreate.Error(e)
	}
	defer func() { _ = rt.Close() }()

	if inf, e := rt.Lstat(name); e == nil && inf.Mode()&os.ModeSymlink != 0 {
		return ErrorCacheSymlinkRefused.Error()
	}

	f, e := rt.Create(name)
	if e != nil {
		return ErrorCacheFileCreate.Error(e)
	}

	_, werr := f.Write(buf.Bytes())
	cerr := f.Close()
	if werr != nil {
		return ErrorCacheFileCreate.Error(werr)
	}
	if cerr != nil {
		return ErrorCacheFileCreate.Error(cerr)
	}

	_ = rt.Chmod(name, cacheFileMode.FileMode())
	return nil
}

// read loads the pinned chain for host, returning (nil, nil) when no file
// is cached for it yet.
func (s *store) read(host string) (*credential, errors.Error) {
	name := cacheFileName(host)

	rt, e := os.OpenRoot(s.dir)
	if e != nil {
		if os.IsNotExist(e) {
			return nil, nil
		}
		return nil, ErrorCacheFileRead.Error(e)
	}
	defer func() { _ = rt.Close() }()

	if inf, e := rt.Lstat(name); e != nil {
		if os.IsNotExist(e) {
			return nil, nil
		}
		return nil, ErrorCacheFileRead.Error(e)
	} else if inf.Mode()&os.ModeSymlink != 0 {
		return nil, ErrorCacheSymlinkRefused.Error()
	}

	f, e := rt.Open(name)
	if e != nil {
		if os.IsNotExist(e) {
			return nil, nil
		}
		return nil, ErrorCacheFileRead.Error(e)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if _, e := buf.ReadFrom(f); e != nil {
		return nil, ErrorCacheFileRead.Error(e)
	}

	c, err := parsePEMChain(buf.Bytes())
	if err != nil {
		return nil, err
	}

	return c, nil
}
