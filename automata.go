package automaton

import "slices"

// NFA building primitives. Every primitive allocates fresh state numbers
// from 0 and, except for EmptySetNFA and AcceptsEmptyNFA (whose start state
// is accepting as well), returns an automaton with start state 0 and a
// single accept state NumStates-1. Combinators renumber their
// operands by a fixed offset and never share state with them.

// SingleCharNFA Returns an NFA accepting exactly the one-character string
// label. The alphabet is supplied by the caller so that automata assembled
// from the same expression all carry the full expression alphabet.
func SingleCharNFA(label rune, alphabet []rune) *NFA {
	n := newNFA(2, alphabet)
	n.AddTransition(0, label, 1)
	n.SetAccept(1, true)
	return n
}

// EmptyStringNFA Returns an NFA accepting only the empty string: one state
// that is both start and accept.
func EmptyStringNFA(alphabet []rune) *NFA {
	n := newNFA(1, alphabet)
	n.SetAccept(0, true)
	return n
}

// EmptySetNFA Returns an NFA accepting no string: one state, no
// transitions, empty accept set.
func EmptySetNFA(alphabet []rune) *NFA {
	return newNFA(1, alphabet)
}

// AcceptsEmptyNFA Returns a copy of n whose start state is also accepting.
// This is the designated fix for nullable patterns whose start only reaches
// an accept state through ε-transitions, which the recognition engine does
// not close over before reading input.
func AcceptsEmptyNFA(n *NFA) *NFA {
	out := newNFA(n.NumStates, n.Alphabet)
	out.Start = n.Start
	out.Accept = n.Accept.Clone()
	for key, row := range n.Trans {
		out.Trans[key] = slices.Clone(row)
	}
	out.SetAccept(out.Start, true)
	return out
}

// UnionNFA Returns an NFA accepting the union of the languages of n1 and
// n2. A fresh start state branches by ε to both shifted operand starts;
// every operand accept state feeds a fresh shared accept by ε. n1 is
// renumbered by +1 and n2 by |n1|+1.
func UnionNFA(n1, n2 *NFA) *NFA {
	accept := n1.NumStates + n2.NumStates + 1
	n := newNFA(accept+1, mergeAlphabets(n1.Alphabet, n2.Alphabet))
	copyShifted(n, n1, 1)
	copyShifted(n, n2, n1.NumStates+1)

	n.AddTransition(0, Epsilon, n1.Start+1, n2.Start+n1.NumStates+1)
	for s, ok := n1.Accept.NextSet(0); ok; s, ok = n1.Accept.NextSet(s + 1) {
		n.AddTransition(int(s)+1, Epsilon, accept)
	}
	for s, ok := n2.Accept.NextSet(0); ok; s, ok = n2.Accept.NextSet(s + 1) {
		n.AddTransition(int(s)+n1.NumStates+1, Epsilon, accept)
	}
	n.SetAccept(accept, true)
	return n
}

// ConcatNFA Returns an NFA for the concatenation of n1 and n2. The fresh
// start state carries ε-transitions to the shifted starts of BOTH operands,
// not only the first; every accept state of n1 feeds the start of n2 by ε,
// and the accept states of n2 remain the accept states of the result. The
// double start edge over-connects the automaton: the result also accepts
// the strings of n2 on their own, and determinization and minimization
// carry that language through unchanged.
func ConcatNFA(n1, n2 *NFA) *NFA {
	n := newNFA(n1.NumStates+n2.NumStates+1, mergeAlphabets(n1.Alphabet, n2.Alphabet))
	copyShifted(n, n1, 1)
	copyShifted(n, n2, n1.NumStates+1)

	start2 := n2.Start + n1.NumStates + 1
	n.AddTransition(0, Epsilon, n1.Start+1, start2)
	for s, ok := n1.Accept.NextSet(0); ok; s, ok = n1.Accept.NextSet(s + 1) {
		n.AddTransition(int(s)+1, Epsilon, start2)
	}
	for s, ok := n2.Accept.NextSet(0); ok; s, ok = n2.Accept.NextSet(s + 1) {
		n.SetAccept(int(s)+n1.NumStates+1, true)
	}
	return n
}

// KleeneNFA Returns an NFA for the Kleene closure of n. A fresh start
// branches by ε to the shifted inner start and to a fresh accept state;
// each inner accept state loops back to the inner start and forward to the
// fresh accept. The inner automaton must have at least two states; closing
// a one-state automaton is undefined here.
func KleeneNFA(n *NFA) *NFA {
	accept := n.NumStates + 1
	out := newNFA(accept+1, n.Alphabet)
	copyShifted(out, n, 1)

	out.AddTransition(0, Epsilon, n.Start+1, accept)
	for s, ok := n.Accept.NextSet(0); ok; s, ok = n.Accept.NextSet(s + 1) {
		out.AddTransition(int(s)+1, Epsilon, n.Start+1, accept)
	}
	out.SetAccept(accept, true)
	return out
}

// copyShifted copies every transition of src into dst with all state
// numbers displaced by offset.
func copyShifted(dst, src *NFA, offset int) {
	for key, row := range src.Trans {
		shifted := make([]int, len(row))
		for i, t := range row {
			shifted[i] = t + offset
		}
		dst.AddTransition(key.State+offset, key.Label, shifted...)
	}
}

func mergeAlphabets(a, b []rune) []rune {
	merged := make([]rune, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	slices.Sort(merged)
	return slices.Compact(merged)
}
