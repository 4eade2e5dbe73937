package octree

import "iter"

// Set is a caller-owned accumulator reused across frames. Not safe for concurrent use.
type Set[H comparable] struct {
	m map[H]Element[H]
}

// NewSet returns an empty accumulator.
func NewSet[H comparable]() *Set[H] {
	return &Set[H]{m: make(map[H]Element[H])}
}

// Add inserts or refreshes e, keyed by its handle.
func (s *Set[H]) Add(e Element[H]) { s.m[e.handle] = e }

// Reset empties the set for reuse on the next frame.
func (s *Set[H]) Reset() { clear(s.m) }

// Len returns the number of elements currently held.
func (s *Set[H]) Len() int { return len(s.m) }

// Contains reports whether handle is present.
func (s *Set[H]) Contains(handle H) bool {
	_, ok := s.m[handle]
	return ok
}

func (s *Set[H]) slice() []Element[H] {
	out := make([]Element[H], 0, len(s.m))
	for _, e := range s.m {
		out = append(out, e)
	}
	return out
}

// Enumeration is the query result facade: a lazy concatenation of the
// omnipresent bucket followed by the query's accumulator, which by the time
// a query returns already has any matching imposters merged in. The zero
// value is a valid, empty Enumeration, returned by every query while
// ElementsModified is clear.
type Enumeration[H comparable] struct {
	ubiquitous []Element[H]
	spatial    []Element[H]
	idx        int
}

func newEnumeration[H comparable](ubiquitous, spatial []Element[H]) Enumeration[H] {
	return Enumeration[H]{ubiquitous: ubiquitous, spatial: spatial}
}

// Reset rewinds the enumeration to its first element.
func (e *Enumeration[H]) Reset() { e.idx = 0 }

// Next returns the next element in omnipresent-then-spatial order, or the
// zero value and false once exhausted.
func (e *Enumeration[H]) Next() (Element[H], bool) {
	if e.idx < len(e.ubiquitous) {
		el := e.ubiquitous[e.idx]
		e.idx++
		return el, true
	}
	si := e.idx - len(e.ubiquitous)
	if si < len(e.spatial) {
		e.idx++
		return e.spatial[si], true
	}
	return Element[H]{}, false
}

// Len returns the total number of elements the enumeration will yield.
func (e Enumeration[H]) Len() int { return len(e.ubiquitous) + len(e.spatial) }

// All returns a range-over-func iterator visiting omnipresent elements then
// accumulated elements, in that order.
func (e Enumeration[H]) All() iter.Seq[Element[H]] {
	return func(yield func(Element[H]) bool) {
		for _, el := range e.ubiquitous {
			if !yield(el) {
				return
			}
		}
		for _, el := range e.spatial {
			if !yield(el) {
				return
			}
		}
	}
}
