package analysis

import "sort"

// LineSet is a set of 1-based line numbers. Negative values are sentinel
// entry/exit nodes supplied by the tracer and take part in set arithmetic
// like ordinary lines.
type LineSet map[int]struct{}

// NewLineSet builds a LineSet from the given line numbers.
func NewLineSet(lines ...int) LineSet {
	s := make(LineSet, len(lines))
	for _, n := range lines {
		s[n] = struct{}{}
	}
	return s
}

// LineSetOf builds a LineSet from a slice of line numbers.
func LineSetOf(lines []int) LineSet {
	return NewLineSet(lines...)
}

// Contains reports whether n is in the set.
func (s LineSet) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// Len returns the number of lines in the set.
func (s LineSet) Len() int {
	return len(s)
}

// Intersect returns the lines present in both sets.
func (s LineSet) Intersect(other LineSet) LineSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(LineSet)
	for n := range small {
		if large.Contains(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Union returns the lines present in either set.
func (s LineSet) Union(other LineSet) LineSet {
	out := make(LineSet, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Diff returns the lines in s that are not in other.
func (s LineSet) Diff(other LineSet) LineSet {
	out := make(LineSet)
	for n := range s {
		if !other.Contains(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Sorted returns the lines in ascending order. It always returns a non-nil
// slice so callers can serialize it as an empty JSON array.
func (s LineSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Arc is one control-flow edge taken between two statements. Negative line
// numbers denote synthetic entry/exit nodes.
type Arc struct {
	Src int
	Dst int
}

// sentinel reports whether n is a synthetic entry/exit node rather than a
// real source line.
func sentinel(n int) bool {
	return n < 0
}
