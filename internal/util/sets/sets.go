// Package sets provides a small generic set for membership checks on names,
// extensions and page paths.
package sets

import (
	"cmp"
	"maps"
	"slices"
)

// Set holds comparable keys. The zero value is a usable empty set for reads.
type Set[T comparable] map[T]struct{}

// New returns a set holding vals.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	s.Insert(vals...)
	return s
}

// Insert adds vals to s.
func (s Set[T]) Insert(vals ...T) {
	for _, v := range vals {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}
