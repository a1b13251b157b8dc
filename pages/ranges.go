package pages

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ErrOutOfRange is returned by Check for page numbers outside the document
var ErrOutOfRange = errors.New("page out of range")

// Set is a set of 1-based page numbers
type Set map[int]struct{}

// ParseRange parses spec into the set of pages it selects in a document of
// maxPages pages. An empty or fully malformed spec yields an empty set.
func ParseRange(spec string, maxPages int) Set {
	set := make(Set)
	if maxPages <= 0 {
		return set
	}

	for _, token := range strings.Split(spec, ",") {
		token = stripSpace(token)
		if token == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(token, "-"); ok {
			start, end := 1, maxPages
			var err error
			if lo != "" {
				if start, err = strconv.Atoi(lo); err != nil {
					continue
				}
			}
			if hi != "" {
				if end, err = strconv.Atoi(hi); err != nil {
					continue
				}
			}
			set.AddRange(max(start, 1), min(end, maxPages))
			continue
		}

		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if n >= 1 && n <= maxPages {
			set.Add(n)
		}
	}

	return set
}

// All returns the set of pages 1..maxPages
func All(maxPages int) Set {
	set := make(Set, max(maxPages, 0))
	set.AddRange(1, maxPages)
	return set
}

// Of returns a set holding the given pages
func Of(numbers ...int) Set {
	set := make(Set, len(numbers))
	for _, n := range numbers {
		set.Add(n)
	}
	return set
}

// Add adds page n
func (s Set) Add(n int) {
	s[n] = struct{}{}
}

// AddRange adds pages lo..hi inclusive; nothing when lo > hi
func (s Set) AddRange(lo, hi int) {
	for n := lo; n <= hi; n++ {
		s[n] = struct{}{}
	}
}

// Contains reports whether page n is in the set
func (s Set) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// Len returns the number of pages in the set
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the pages in ascending order
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Check validates explicit page numbers against a document of maxPages
// pages
func Check(numbers []int, maxPages int) error {
	for _, n := range numbers {
		if n < 1 || n > maxPages {
			return fmt.Errorf("%w: page %d (document has %d pages)", ErrOutOfRange, n, maxPages)
		}
	}
	return nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
