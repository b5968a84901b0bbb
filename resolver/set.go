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

import "sync"

// Set is a sorted, mutex-guarded collection of Destinations (primary key
// name, tiebreak instance), with at most one entry carrying IsDefault.
// Lookups use a hinted binary search: each Set remembers the index of its
// last successful match and probes the neighborhood around it before
// bisecting, since resolver callers overwhelmingly look up the same or an
// adjacent destination repeatedly (enumeration streams in sorted batches).
type Set struct {
	mu   sync.RWMutex
	list []Destination
	hint int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Len returns the number of destinations held.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// Snapshot returns an independent copy of the sorted destination list.
func (s *Set) Snapshot() []Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Destination, len(s.list))
	for i, d := range s.list {
		out[i] = d.Clone()
	}
	return out
}

// Find looks up name/instance, returning (destination, true) on a hit.
func (s *Set) Find(name, instance string) (Destination, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.search(NewDestination(name, instance))
	if !ok {
		return Destination{}, false
	}
	return s.list[i].Clone(), true
}

// Upsert inserts d in sorted position or replaces the existing entry with
// the same name/instance. When d.IsDefault is set, every other entry's
// IsDefault flag is cleared (at most one default per set).
func (s *Set) Upsert(d Destination) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.IsDefault {
		for i := range s.list {
			s.list[i].IsDefault = false
		}
	}

	i, ok := s.search(d)
	if ok {
		s.list[i] = d
		return
	}

	s.list = append(s.list, Destination{})
	copy(s.list[i+1:], s.list[i:])
	s.list[i] = d
	s.hint = i
}

// search returns the index of d's sorted position: if found, (index, true)
// where list[index] already equals d's key; otherwise (insertion-index,
// false). Caller must hold s.mu.
func (s *Set) search(d Destination) (int, bool) {
	n := len(s.list)
	if n == 0 {
		return 0, false
	}

	if s.hint >= 0 && s.hint < n {
		if equalKey(s.list[s.hint], d) {
			return s.hint, true
		}
		if s.hint+1 < n && equalKey(s.list[s.hint+1], d) {
			s.hint++
			return s.hint, true
		}
		if s.hint > 0 && equalKey(s.list[s.hint-1], d) {
			s.hint--
			return s.hint, true
		}
	}

	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if less(s.list[mid], d) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo < n && equalKey(s.list[lo], d) {
		s.hint = lo
		return lo, true
	}
	return lo, false
}
