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

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nabbar/printcore/errors"
)

// Entry is one "Dest"/"Default" line of an lpoptions file: a destination
// name, an optional instance, and the option set that overrides whatever
// the scheduler reports for that destination.
type Entry struct {
	Name     string
	Instance string
	Default  bool
	Options  map[string]string
}

// Overlay is the parsed content of one lpoptions file.
type Overlay struct {
	Entries []Entry
}

// Find returns the overlay entry matching name/instance, if any.
func (o *Overlay) Find(name, instance string) (Entry, bool) {
	if o == nil {
		return Entry{}, false
	}

	for _, e := range o.Entries {
		if !strings.EqualFold(e.Name, name) {
			continue
		}

		if strings.EqualFold(e.Instance, instance) {
			return e, true
		}
	}

	return Entry{}, false
}

// Merge combines two overlays, entries of b overriding entries of a with
// the same name/instance pair (user overlay overrides system overlay). An
// overriding entry keeps the Default flag of the entry it replaces.
func Merge(a, b *Overlay) *Overlay {
	var res = &Overlay{}

	if a != nil {
		res.Entries = append(res.Entries, a.Entries...)
	}

	if b == nil {
		return res
	}

	for _, be := range b.Entries {
		replaced := false

		for i, e := range res.Entries {
			if e.Name == be.Name && e.Instance == be.Instance {
				be.Default = be.Default || e.Default
				res.Entries[i] = be
				replaced = true
				break
			}
		}

		if !replaced {
			res.Entries = append(res.Entries, be)
		}
	}

	return res
}

// ParseLPOptionsFile opens and parses an lpoptions file at path. A missing
// file is not an error: it yields an empty Overlay, matching the original
// client's "file absent, nothing to merge" behavior for optional overlays.
func ParseLPOptionsFile(path string) (*Overlay, errors.Error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overlay{}, nil
		}

		return nil, ErrorFileOpen.Error(err)
	}
	defer func() { _ = f.Close() }()

	return ParseLPOptions(f)
}

// ParseLPOptions reads the lpoptions grammar from r: line-oriented,
// blank/"#"-prefixed lines skipped, each remaining line is
// "(Dest|Default) NAME[/INSTANCE] (OPT[=VALUE])*".
func ParseLPOptions(r io.Reader) (*Overlay, errors.Error) {
	var (
		res = &Overlay{}
		sc  = bufio.NewScanner(r)
	)

	sc.Buffer(make([]byte, 0, 8192), 1<<20)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line, 2)
		if len(fields) < 2 {
			continue
		}

		var (
			keyword = fields[0]
			rest    = fields[1]
		)

		isDefault := strings.EqualFold(keyword, "Default")
		if !isDefault && !strings.EqualFold(keyword, "Dest") {
			continue
		}

		nameField := splitFields(rest, 2)
		if len(nameField) == 0 {
			continue
		}

		name, instance, _ := strings.Cut(nameField[0], "/")

		var opts = map[string]string{}
		if len(nameField) == 2 {
			toks, terr := tokenizeOptions(nameField[1])
			if terr != nil {
				return nil, terr
			}

			for _, t := range toks {
				k, v, has := strings.Cut(t, "=")
				if !has {
					opts[k] = ""
				} else {
					opts[k] = v
				}
			}
		}

		res.Entries = append(res.Entries, Entry{
			Name:     name,
			Instance: instance,
			Default:  isDefault,
			Options:  opts,
		})
	}

	if err := sc.Err(); err != nil {
		return nil, ErrorFileRead.Error(err)
	}

	return res, nil
}

// splitFields splits s on the first n-1 runs of whitespace, keeping the
// remainder of the line intact in the final element.
func splitFields(s string, n int) []string {
	var res []string

	for len(res) < n-1 {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}

		i := strings.IndexAny(s, " \t")
		if i < 0 {
			res = append(res, s)
			s = ""
			break
		}

		res = append(res, s[:i])
		s = s[i:]
	}

	if s = strings.TrimLeft(s, " \t"); s != "" {
		res = append(res, s)
	}

	return res
}

// tokenizeOptions splits an option string into OPT[=VALUE] tokens, honoring
// double-quoted, single-quoted, and backslash-escaped values so a quoted
// value may itself contain whitespace.
func tokenizeOptions(s string) ([]string, errors.Error) {
	var (
		toks []string
		cur  strings.Builder
		i    int
	)

	for i < len(s) {
		c := s[i]

		switch {
		case c == ' ' || c == '\t':
			if cur.Len() > 0 {
				toks = append(toks, cur.String())
				cur.Reset()
			}
			i++
		case c == '\\' && i+1 < len(s):
			cur.WriteByte(s[i+1])
			i += 2
		case c == '"' || c == '\'':
			quote := c
			i++
			start := i
			for i < len(s) && s[i] != quote {
				if s[i] == '\\' && i+1 < len(s) {
					i++
				}
				i++
			}

			if i >= len(s) {
				return nil, ErrorLPOptionsSyntax.Error(fmt.Errorf("unterminated quote in %q", s))
			}

			cur.WriteString(unescape(s[start:i]))
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}

	if cur.Len() > 0 {
		toks = append(toks, cur.String())
	}

	return toks, nil
}

func unescape(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}

	return b.String()
}
