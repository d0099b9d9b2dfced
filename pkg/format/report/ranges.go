package report

import (
	"fmt"
	"iter"
	"strings"

	"github.com/tidwall/btree"
)

// NonFormattedRange is an inclusive, 1-based range of output lines that
// were reproduced verbatim instead of formatted.
type NonFormattedRange struct {
	Lo, Hi int
}

// Contains reports whether line falls inside the range.
func (r NonFormattedRange) Contains(line int) bool {
	return r.Lo <= line && line <= r.Hi
}

func (r NonFormattedRange) String() string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("%d", r.Lo)
	}
	return fmt.Sprintf("%d-%d", r.Lo, r.Hi)
}

// RangeSet is a set of line ranges. Overlapping and adjacent ranges are
// merged on insertion. A zero value is ready to use.
type RangeSet struct {
	// Keys are the last lines of the ranges, values the first lines.
	tree btree.Map[int, int]
}

// Add inserts [lo, hi] into the set.
func (s *RangeSet) Add(lo, hi int) {
	if lo > hi {
		lo, hi = hi, lo
	}

	var merged []int
	iter := s.tree.Iter()
	for ok := iter.Seek(lo - 1); ok && iter.Value() <= hi+1; ok = iter.Next() {
		lo = min(lo, iter.Value())
		hi = max(hi, iter.Key())
		merged = append(merged, iter.Key())
	}
	for _, end := range merged {
		s.tree.Delete(end)
	}
	s.tree.Set(hi, lo)
}

// Contains reports whether line is inside any range of the set.
func (s *RangeSet) Contains(line int) bool {
	iter := s.tree.Iter()
	return iter.Seek(line) && iter.Value() <= line
}

// Len is the number of disjoint ranges in the set.
func (s *RangeSet) Len() int {
	return s.tree.Len()
}

// All iterates over the ranges in ascending order.
func (s *RangeSet) All() iter.Seq[NonFormattedRange] {
	return func(yield func(NonFormattedRange) bool) {
		s.tree.Scan(func(hi, lo int) bool {
			return yield(NonFormattedRange{Lo: lo, Hi: hi})
		})
	}
}

// Ranges returns the ranges in ascending order.
func (s *RangeSet) Ranges() []NonFormattedRange {
	out := make([]NonFormattedRange, 0, s.Len())
	for r := range s.All() {
		out = append(out, r)
	}
	return out
}

func (s *RangeSet) String() string {
	parts := make([]string, 0, s.Len())
	for r := range s.All() {
		parts = append(parts, r.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
