package raptor

// paretoSet keeps the elements no other element dominates. dominates(a, b)
// must report weak dominance: a is at least as good as b on every criterion.
type paretoSet[E any] struct {
	elements  []E
	dominates func(a, b E) bool
}

func newParetoSet[E any](dominates func(a, b E) bool) *paretoSet[E] {
	return &paretoSet[E]{dominates: dominates}
}

// add inserts e unless an element already dominates it, dropping every element
// e dominates. It reports whether e was added.
func (s *paretoSet[E]) add(e E) bool {
	if !s.qualifies(e) {
		return false
	}

	kept := s.elements[:0]
	for _, existing := range s.elements {
		if !s.dominates(e, existing) {
			kept = append(kept, existing)
		}
	}
	clear(s.elements[len(kept):])
	s.elements = append(kept, e)
	return true
}

// qualifies reports whether e would be added.
func (s *paretoSet[E]) qualifies(e E) bool {
	for _, existing := range s.elements {
		if s.dominates(existing, e) {
			return false
		}
	}
	return true
}

func (s *paretoSet[E]) isEmpty() bool {
	return len(s.elements) == 0
}

// all returns the elements. The slice is owned by the set.
func (s *paretoSet[E]) all() []E {
	return s.elements
}

func (s *paretoSet[E]) clear() {
	clear(s.elements)
	s.elements = s.elements[:0]
}
