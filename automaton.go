package automaton

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// Epsilon is the transition label that consumes no input. Only NFAs may
// carry Epsilon transitions; a DFA transition map never contains it.
const Epsilon rune = -1

// TransKey addresses one row of a transition map: the source state plus the
// label read. Epsilon as the label denotes an ε-transition.
type TransKey struct {
	State int
	Label rune
}

// NFA Represents a nondeterministic finite automaton with ε-transitions.
// States are the integers 0..NumStates-1, state 0 is not special beyond
// being the usual start. The transition map is sparse: an absent key means
// the empty target set. Target slices are kept sorted and duplicate-free so
// two NFAs can be compared structurally.
type NFA struct {
	NumStates int
	Alphabet  []rune
	Trans     map[TransKey][]int
	Start     int
	Accept    *bitset.BitSet
}

func newNFA(numStates int, alphabet []rune) *NFA {
	return &NFA{
		NumStates: numStates,
		Alphabet:  alphabet,
		Trans:     make(map[TransKey][]int),
		Start:     0,
		Accept:    bitset.New(uint(numStates)),
	}
}

// AddTransition Adds target states for (state, label). Targets are merged
// into the existing row, kept sorted and distinct.
func (n *NFA) AddTransition(state int, label rune, targets ...int) {
	key := TransKey{State: state, Label: label}
	row := n.Trans[key]
	for _, t := range targets {
		if i, found := slices.BinarySearch(row, t); !found {
			row = slices.Insert(row, i, t)
		}
	}
	n.Trans[key] = row
}

// SetAccept Set or clear this state as an accept state.
func (n *NFA) SetAccept(state int, accept bool) {
	n.Accept.SetTo(uint(state), accept)
}

// IsAccept Returns true if this state is an accept state.
func (n *NFA) IsAccept(state int) bool {
	return n.Accept.Test(uint(state))
}

// Equals Structural equality: identical state count, start, accept set,
// alphabet and transition map. Transition rows are compared as mappings,
// independent of insertion order. This is not language equivalence.
func (n *NFA) Equals(other *NFA) bool {
	if other == nil {
		return n == nil
	}
	if n.NumStates != other.NumStates || n.Start != other.Start {
		return false
	}
	if !slices.Equal(n.Alphabet, other.Alphabet) {
		return false
	}
	if !sameBits(n.Accept, other.Accept) {
		return false
	}
	if len(n.Trans) != len(other.Trans) {
		return false
	}
	for key, row := range n.Trans {
		if !slices.Equal(row, other.Trans[key]) {
			return false
		}
	}
	return true
}

// Validate Checks the automaton invariants: every state referenced by the
// transition map, the accept set or the start state is in 0..NumStates-1,
// and every non-ε label is drawn from the alphabet.
func (n *NFA) Validate() error {
	if n.NumStates <= 0 {
		return fmt.Errorf("nfa has no states")
	}
	if err := validAlphabet(n.Alphabet); err != nil {
		return err
	}
	if n.Start < 0 || n.Start >= n.NumStates {
		return fmt.Errorf("start state %d out of range", n.Start)
	}
	for key, row := range n.Trans {
		if key.State < 0 || key.State >= n.NumStates {
			return fmt.Errorf("transition source %d out of range", key.State)
		}
		if key.Label != Epsilon && !slices.Contains(n.Alphabet, key.Label) {
			return fmt.Errorf("transition label %q not in alphabet", key.Label)
		}
		for _, t := range row {
			if t < 0 || t >= n.NumStates {
				return fmt.Errorf("transition target %d out of range", t)
			}
		}
	}
	for s, ok := n.Accept.NextSet(0); ok; s, ok = n.Accept.NextSet(s + 1) {
		if int(s) >= n.NumStates {
			return fmt.Errorf("accept state %d out of range", s)
		}
	}
	return nil
}

// DFA Represents a deterministic finite automaton. The state set is
// explicit because unreachable-state pruning may leave holes in the
// numbering mid-pipeline; a finished minimal DFA always occupies the
// contiguous range 0..|Q|-1. The transition map is partial: an absent
// (state, label) entry is an implicit dead transition.
type DFA struct {
	States   *bitset.BitSet
	Alphabet []rune
	Trans    map[TransKey]int
	Start    int
	Accept   *bitset.BitSet
}

func newDFA(alphabet []rune) *DFA {
	return &DFA{
		States:   bitset.New(2),
		Alphabet: alphabet,
		Trans:    make(map[TransKey]int),
		Accept:   bitset.New(2),
	}
}

// HasState Returns true if state belongs to the automaton.
func (d *DFA) HasState(state int) bool {
	return state >= 0 && d.States.Test(uint(state))
}

// SetAccept Set or clear this state as an accept state.
func (d *DFA) SetAccept(state int, accept bool) {
	d.Accept.SetTo(uint(state), accept)
}

// IsAccept Returns true if this state is an accept state.
func (d *DFA) IsAccept(state int) bool {
	return d.Accept.Test(uint(state))
}

// NumStates How many states this automaton has.
func (d *DFA) NumStates() int {
	return int(d.States.Count())
}

// Step Performs one transition lookup. Returns -1 if the transition is
// absent, meaning the input is dead from here on.
func (d *DFA) Step(state int, label rune) int {
	if next, ok := d.Trans[TransKey{State: state, Label: label}]; ok {
		return next
	}
	return -1
}

// Equals Structural equality: identical state set, start, accept set,
// alphabet and transition map, compared as mappings. Not language
// equivalence.
func (d *DFA) Equals(other *DFA) bool {
	if other == nil {
		return d == nil
	}
	if d.Start != other.Start {
		return false
	}
	if !slices.Equal(d.Alphabet, other.Alphabet) {
		return false
	}
	if !sameBits(d.States, other.States) || !sameBits(d.Accept, other.Accept) {
		return false
	}
	if len(d.Trans) != len(other.Trans) {
		return false
	}
	for key, to := range d.Trans {
		if got, ok := other.Trans[key]; !ok || got != to {
			return false
		}
	}
	return true
}

// Validate Checks the automaton invariants: start, transition endpoints and
// accept states are members of the state set, and every label is drawn from
// the alphabet. ε-transitions are never legal in a DFA.
func (d *DFA) Validate() error {
	if d.States.Count() == 0 {
		return fmt.Errorf("dfa has no states")
	}
	if err := validAlphabet(d.Alphabet); err != nil {
		return err
	}
	if !d.HasState(d.Start) {
		return fmt.Errorf("start state %d not in state set", d.Start)
	}
	for key, to := range d.Trans {
		if !d.HasState(key.State) {
			return fmt.Errorf("transition source %d not in state set", key.State)
		}
		if key.Label == Epsilon {
			return fmt.Errorf("ε-transition from state %d in dfa", key.State)
		}
		if !slices.Contains(d.Alphabet, key.Label) {
			return fmt.Errorf("transition label %q not in alphabet", key.Label)
		}
		if !d.HasState(to) {
			return fmt.Errorf("transition target %d not in state set", to)
		}
	}
	for s, ok := d.Accept.NextSet(0); ok; s, ok = d.Accept.NextSet(s + 1) {
		if !d.HasState(int(s)) {
			return fmt.Errorf("accept state %d not in state set", s)
		}
	}
	return nil
}

// sameBits compares two bit sets by membership only. bitset.BitSet.Equal
// also compares capacities, which differ between automata built by
// different pipelines even when the sets agree.
func sameBits(a, b *bitset.BitSet) bool {
	if a.Count() != b.Count() {
		return false
	}
	for s, ok := a.NextSet(0); ok; s, ok = a.NextSet(s + 1) {
		if !b.Test(s) {
			return false
		}
	}
	return true
}

func validAlphabet(alphabet []rune) error {
	if len(alphabet) == 0 {
		return ErrEmptyAlphabet
	}
	for i := 1; i < len(alphabet); i++ {
		if alphabet[i] <= alphabet[i-1] {
			return fmt.Errorf("alphabet not sorted and distinct at position %d", i)
		}
	}
	return nil
}
