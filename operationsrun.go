package automaton

import (
	"errors"
	"slices"
)

// ErrCharNotInAlphabet reports an input character the automaton is not
// defined over. Recognition of such a string is undecidable rather than a
// rejection; callers decide how to recover.
var ErrCharNotInAlphabet = errors.New("character not in alphabet")

// symbolReachable Returns the union of the label targets of every state in
// from. ε-transitions are not followed.
func symbolReachable(n *NFA, from *StateSet, label rune) *StateSet {
	out := NewStateSet()
	for _, state := range from.GetArray() {
		for _, t := range n.Trans[TransKey{State: state, Label: label}] {
			out.Insert(t)
		}
	}
	return out
}

// epsilonReachable Returns the ε-closure of from: the least set containing
// from and closed under ε-transitions. Terminates because the state space
// is finite and states are never revisited.
func epsilonReachable(n *NFA, from *StateSet) *StateSet {
	out := NewStateSet()
	worklist := from.GetArray()
	for _, state := range worklist {
		out.Insert(state)
	}
	for len(worklist) > 0 {
		state := worklist[0]
		worklist = worklist[1:]
		for _, t := range n.Trans[TransKey{State: state, Label: Epsilon}] {
			if !out.Contains(t) {
				out.Insert(t)
				worklist = append(worklist, t)
			}
		}
	}
	return out
}

// Run Decides whether the NFA accepts s. The starting set is {start}
// WITHOUT its ε-closure; only after each consumed character is the closure
// taken. An automaton whose start reaches an accept state purely through
// ε-transitions therefore rejects the empty string — wrap such automata
// with AcceptsEmptyNFA when that matters. Returns ErrCharNotInAlphabet when
// s contains a character outside the alphabet.
func (n *NFA) Run(s string) (bool, error) {
	current := NewStateSet(n.Start)
	for _, c := range s {
		if !slices.Contains(n.Alphabet, c) {
			return false, ErrCharNotInAlphabet
		}
		current = epsilonReachable(n, symbolReachable(n, current, c))
	}
	for _, state := range current.GetArray() {
		if n.IsAccept(state) {
			return true, nil
		}
	}
	return false, nil
}

// Run Decides whether the DFA accepts s. An absent transition is a dead
// transition: the string is rejected as soon as one is hit. Returns
// ErrCharNotInAlphabet when a character outside the alphabet is read before
// that; characters after a dead transition are not inspected.
func (d *DFA) Run(s string) (bool, error) {
	state := d.Start
	for _, c := range s {
		if !slices.Contains(d.Alphabet, c) {
			return false, ErrCharNotInAlphabet
		}
		if state = d.Step(state, c); state == -1 {
			return false, nil
		}
	}
	return d.IsAccept(state), nil
}
