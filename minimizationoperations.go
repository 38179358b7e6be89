package automaton

import (
	"fmt"
	"strconv"
	"strings"
)

// Minimize Minimizes a DFA in two phases: unreachable states are pruned to
// a fixed point, then the survivors are merged by Moore partition
// refinement and renumbered to a contiguous range. Minimizing a minimal
// DFA returns a structurally identical automaton.
func Minimize(d *DFA) (*DFA, error) {
	return mooreReduce(removeUnreachableStates(d))
}

// removeUnreachableStates Repeatedly removes every non-start state without
// an inward transition from a DIFFERENT state, together with its outgoing
// transitions, until no such state is left. Self-loops do not keep a state
// alive: an orphan that only feeds itself is unreachable.
func removeUnreachableStates(d *DFA) *DFA {
	out := cloneDFA(d)
	for {
		removed := false
		for s, ok := out.States.NextSet(0); ok; s, ok = out.States.NextSet(s + 1) {
			state := int(s)
			if state == out.Start || hasInwardTransition(out, state) {
				continue
			}
			out.States.Clear(s)
			out.Accept.Clear(s)
			for key := range out.Trans {
				if key.State == state {
					delete(out.Trans, key)
				}
			}
			removed = true
		}
		if !removed {
			return out
		}
	}
}

func hasInwardTransition(d *DFA, state int) bool {
	for key, to := range d.Trans {
		if to == state && key.State != state {
			return true
		}
	}
	return false
}

// mooreReduce Merges indistinguishable states. The partition starts as
// {accepting, non-accepting} and is split on per-character signatures
// (the block of the transition target, or absent) until stable. Classes
// are then numbered in order of their smallest member state, keeping the
// numbering deterministic across runs.
func mooreReduce(d *DFA) (*DFA, error) {
	states := make([]int, 0, d.States.Count())
	for s, ok := d.States.NextSet(0); ok; s, ok = d.States.NextSet(s + 1) {
		states = append(states, int(s))
	}

	var accepting, rejecting []int
	for _, state := range states {
		if d.IsAccept(state) {
			accepting = append(accepting, state)
		} else {
			rejecting = append(rejecting, state)
		}
	}
	blocks := make([][]int, 0, 2)
	if len(accepting) > 0 {
		blocks = append(blocks, accepting)
	}
	if len(rejecting) > 0 {
		blocks = append(blocks, rejecting)
	}

	for {
		classOf := NewIntIntHashMap(len(states))
		for i, block := range blocks {
			for _, state := range block {
				classOf.Put(int32(state), int32(i))
			}
		}

		next := make([][]int, 0, len(blocks))
		for _, block := range blocks {
			groupIndex := make(map[string]int)
			for _, state := range block {
				sig := signature(d, classOf, state)
				if i, ok := groupIndex[sig]; ok {
					next[i] = append(next[i], state)
				} else {
					groupIndex[sig] = len(next)
					next = append(next, []int{state})
				}
			}
		}

		stable := len(next) == len(blocks)
		blocks = next
		if stable {
			break
		}
	}

	// Number classes by their smallest member. Blocks hold states in
	// ascending order, so the first entry is the minimum.
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && blocks[j][0] < blocks[j-1][0]; j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}
	class := NewIntIntHashMap(len(states))
	for i, block := range blocks {
		for _, state := range block {
			class.Put(int32(state), int32(i))
		}
	}

	out := newDFA(d.Alphabet)
	for i := range blocks {
		out.States.Set(uint(i))
	}

	start, ok := class.Get(int32(d.Start))
	if !ok {
		return nil, fmt.Errorf("dfa start unmapped: %d", d.Start)
	}
	out.Start = int(start)

	for s, found := d.Accept.NextSet(0); found; s, found = d.Accept.NextSet(s + 1) {
		id, ok := class.Get(int32(s))
		if !ok {
			// An accept state escaped the partition; treat the whole
			// reduction as non-applicable and keep the pruned DFA.
			return d, nil
		}
		out.SetAccept(int(id), true)
	}

	for key, to := range d.Trans {
		from, ok := class.Get(int32(key.State))
		if !ok {
			return nil, fmt.Errorf("transition unmapped: %d", key.State)
		}
		dest, ok := class.Get(int32(to))
		if !ok {
			return nil, fmt.Errorf("transition unmapped: %d", to)
		}
		out.Trans[TransKey{State: int(from), Label: key.Label}] = int(dest)
	}
	return out, nil
}

// signature encodes, per alphabet character in order, the class of the
// transition target, with -1 standing in for an absent transition.
func signature(d *DFA, classOf *IntIntHashMap, state int) string {
	sb := new(strings.Builder)
	for _, label := range d.Alphabet {
		class := int32(-1)
		if to, ok := d.Trans[TransKey{State: state, Label: label}]; ok {
			class, _ = classOf.Get(int32(to))
		}
		sb.WriteString(strconv.Itoa(int(class)))
		sb.WriteByte(',')
	}
	return sb.String()
}

func cloneDFA(d *DFA) *DFA {
	out := &DFA{
		States:   d.States.Clone(),
		Alphabet: d.Alphabet,
		Trans:    make(map[TransKey]int, len(d.Trans)),
		Start:    d.Start,
		Accept:   d.Accept.Clone(),
	}
	for key, to := range d.Trans {
		out.Trans[key] = to
	}
	return out
}
