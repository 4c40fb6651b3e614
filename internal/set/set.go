// Package set provides a map-backed set.
package set

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

// Set is an unordered collection of distinct values. Create one with
// New.
type Set[T comparable] map[T]struct{}

func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (s Set[T]) Add(v T) {
	s[v] = struct{}{}
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Delete removes v and reports whether it was present.
func (s Set[T]) Delete(v T) bool {
	_, ok := s[v]
	delete(s, v)
	return ok
}

// Sorted returns the elements of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	list := maps.Keys(s)
	slices.Sort(list)
	return list
}
