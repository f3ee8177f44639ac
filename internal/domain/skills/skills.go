// Package skills holds the canonical skill token form shared by every analysis.
package skills

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Normalize returns the canonical form of a skill name: NFKC, trimmed, lower-cased.
// It is idempotent.
func Normalize(name string) string {
	s := norm.NFKC.String(name)
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return lower.String(s)
}

// Set is an immutable set of normalized skills. The zero value is an empty set.
type Set struct {
	m map[string]struct{}
}

// NewSet normalizes names into a Set, dropping blanks.
func NewSet(names ...string) Set {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		if s := Normalize(n); s != "" {
			m[s] = struct{}{}
		}
	}
	return Set{m: m}
}

// Has reports whether the canonical skill is in the set.
func (s Set) Has(skill string) bool {
	_, ok := s.m[skill]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.m)
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding members of both sets.
func (s Set) Union(other Set) Set {
	m := make(map[string]struct{}, len(s.m)+len(other.m))
	for k := range s.m {
		m[k] = struct{}{}
	}
	for k := range other.m {
		m[k] = struct{}{}
	}
	return Set{m: m}
}

// Dedupe normalizes names and returns the distinct canonical skills sorted.
func Dedupe(names []string) []string {
	return NewSet(names...).Sorted()
}

// Partition splits a posting's skills into canonical required and optional
// skills, both sorted. A name present in optional is never required.
func Partition(all, optional []string) (required, opt []string) {
	opts := NewSet(optional...)
	for _, s := range Dedupe(all) {
		if !opts.Has(s) {
			required = append(required, s)
		}
	}
	return required, opts.Sorted()
}
