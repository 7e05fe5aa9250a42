package symptom

import "sort"

// Set is a deduplicated list of terms that remembers insertion order.
// Order drives deterministic dialogue composition only; equality is set
// equality.
type Set struct {
	terms []string
	seen  map[string]struct{}
}

func NewSet(terms ...string) Set {
	s := Set{seen: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		s.add(t)
	}
	return s
}

func (s *Set) add(term string) {
	if term == "" {
		return
	}
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[term]; ok {
		return
	}
	s.seen[term] = struct{}{}
	s.terms = append(s.terms, term)
}

func (s Set) Len() int { return len(s.terms) }

func (s Set) Contains(term string) bool {
	_, ok := s.seen[term]
	return ok
}

// Terms returns a copy in insertion order.
func (s Set) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

func (s Set) Sorted() []string {
	out := s.Terms()
	sort.Strings(out)
	return out
}

func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, t := range s.terms {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}
