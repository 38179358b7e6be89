package automaton

import "slices"

// IntSet is a set of NFA state numbers usable as a HashMap key.
type IntSet interface {
	Hashable

	GetArray() []int

	Size() int
}

var _ IntSet = &StateSet{}

// StateSet is the mutable set used while an ε-closure or symbol step is
// being accumulated. Freeze it before using it as a map key. The hash code
// is the set size plus the sum of the mixed members, so it is independent
// of insertion order.
type StateSet struct {
	inner       map[int]struct{}
	hashUpdated bool
	hashCode    uint64
}

func NewStateSet(states ...int) *StateSet {
	s := &StateSet{
		inner: make(map[int]struct{}, len(states)),
	}
	for _, state := range states {
		s.Insert(state)
	}
	return s
}

func (s *StateSet) Hash() uint64 {
	if s.hashUpdated {
		return s.hashCode
	}
	s.hashCode = uint64(len(s.inner))
	for key := range s.inner {
		s.hashCode += uint64(mix(key))
	}
	s.hashUpdated = true
	return s.hashCode
}

func (s *StateSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok {
		return false
	}
	return slices.Equal(s.GetArray(), is.GetArray())
}

func (s *StateSet) GetArray() []int {
	keys := make([]int, 0, len(s.inner))
	for k := range s.inner {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *StateSet) Size() int {
	return len(s.inner)
}

func (s *StateSet) Contains(state int) bool {
	_, ok := s.inner[state]
	return ok
}

func (s *StateSet) Insert(state int) {
	if _, ok := s.inner[state]; ok {
		return
	}
	s.inner[state] = struct{}{}
	s.hashUpdated = false
}

// Freeze Returns an immutable copy of the current members, suitable as a
// hash-map key.
func (s *StateSet) Freeze() *FrozenIntSet {
	return NewFrozenIntSet(s.GetArray())
}

var _ IntSet = &FrozenIntSet{}

// FrozenIntSet is an immutable, sorted set of state numbers with a
// precomputed hash code. Subset construction keys its state-set → DFA-state
// correspondence on these.
type FrozenIntSet struct {
	values   []int
	hashCode uint64
}

// NewFrozenIntSet Wraps a sorted, duplicate-free slice of state numbers.
func NewFrozenIntSet(values []int) *FrozenIntSet {
	hashCode := uint64(len(values))
	for _, v := range values {
		hashCode += uint64(mix(v))
	}
	return &FrozenIntSet{values: values, hashCode: hashCode}
}

func (f *FrozenIntSet) Hash() uint64 {
	return f.hashCode
}

// Equals Value equality on the members. Sets of different concrete types
// compare equal when they hold the same states.
func (f *FrozenIntSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok {
		return false
	}
	return slices.Equal(f.values, is.GetArray())
}

func (f *FrozenIntSet) GetArray() []int {
	return f.values
}

func (f *FrozenIntSet) Size() int {
	return len(f.values)
}
