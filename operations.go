package automaton

import (
	"errors"

	"github.com/cespare/xxhash/v2"
)

// ErrEmptyAlphabet reports a construction attempt over an expression with
// no char node. Automata are defined over non-empty alphabets only.
var ErrEmptyAlphabet = errors.New("regexp has an empty alphabet")

// dfaBuilder is the incremental construction state shared by the subset
// and Brzozowski pipelines: the next state number to allocate, the
// correspondence from exploration keys to allocated DFA states, and the
// DFA under assembly. A builder is owned by one construction call and
// discarded once the DFA is extracted.
type dfaBuilder struct {
	counter int
	corr    *HashMap[int]
	dfa     *DFA
}

// nextKeyFunc computes the exploration key reached from key by consuming
// label: the ε-closed symbol step for subset construction, the derivative
// for the Brzozowski construction.
type nextKeyFunc func(key Hashable, label rune) Hashable

func newDFABuilder(alphabet []rune) *dfaBuilder {
	return &dfaBuilder{
		corr: NewHashMap[int](WithCapacity(16)),
		dfa:  newDFA(alphabet),
	}
}

// lookupUpdate Returns the DFA state assigned to key, allocating the next
// state number for unseen keys. The second result reports whether the key
// was new.
func (b *dfaBuilder) lookupUpdate(key Hashable) (int, bool) {
	if state, ok := b.corr.Get(key); ok {
		return state, false
	}
	state := b.counter
	b.counter++
	b.corr.Set(key, state)
	b.dfa.States.Set(uint(state))
	return state, true
}

// addTransition Materializes the transition out of key on label. Returns
// the successor key iff it was newly allocated.
func (b *dfaBuilder) addTransition(key Hashable, label rune, next nextKeyFunc) (Hashable, bool) {
	nextKey := next(key, label)
	from, _ := b.lookupUpdate(key)
	to, isNew := b.lookupUpdate(nextKey)
	b.dfa.Trans[TransKey{State: from, Label: label}] = to
	if !isNew {
		return nil, false
	}
	return nextKey, true
}

// explore Walks the key space depth-first, one alphabet character at a
// time in alphabet order, recursing only into newly allocated keys. The
// traversal order fixes the state numbering, so two runs over the same
// input produce identical automata.
func (b *dfaBuilder) explore(key Hashable, next nextKeyFunc) {
	for _, label := range b.dfa.Alphabet {
		if nextKey, isNew := b.addTransition(key, label, next); isNew {
			b.explore(nextKey, next)
		}
	}
}

// DFAConstruction Converts an NFA to an equivalent DFA by the subset
// construction, treating each reachable ε-closed state set as one DFA
// state. The result is not minimized; dead sink states (such as the empty
// set) are left for minimization to collapse.
func DFAConstruction(n *NFA) *DFA {
	b := newDFABuilder(n.Alphabet)

	initial := epsilonReachable(n, NewStateSet(n.Start)).Freeze()
	start, _ := b.lookupUpdate(initial)
	b.dfa.Start = start
	b.explore(initial, func(key Hashable, label rune) Hashable {
		from := NewStateSet(key.(*FrozenIntSet).GetArray()...)
		return epsilonReachable(n, symbolReachable(n, from, label)).Freeze()
	})

	for key, state := range b.corr.Iterator() {
		for _, s := range key.(*FrozenIntSet).GetArray() {
			if n.IsAccept(s) {
				b.dfa.SetAccept(state, true)
				break
			}
		}
	}
	return b.dfa
}

// ThompsonNFAConstruction Compiles an expression to an ε-NFA with the
// Thompson primitives. Every sub-automaton carries the full expression
// alphabet. The result is purely structural: a nullable expression whose
// start state only reaches an accept state through ε-transitions still
// rejects the empty string under (*NFA).Run; see AcceptsEmptyNFA.
func ThompsonNFAConstruction(exp *RegExp) (*NFA, error) {
	alphabet := exp.Alphabet()
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	return compileNFA(exp, alphabet), nil
}

func compileNFA(exp *RegExp, alphabet []rune) *NFA {
	switch exp.Kind() {
	case REGEXP_VOID:
		return EmptySetNFA(alphabet)
	case REGEXP_EMPTY:
		return EmptyStringNFA(alphabet)
	case REGEXP_CHAR:
		chars := exp.Chars()
		n := SingleCharNFA(chars[0], alphabet)
		for _, c := range chars[1:] {
			n = UnionNFA(n, SingleCharNFA(c, alphabet))
		}
		return n
	case REGEXP_UNION:
		exp1, exp2 := exp.Operands()
		return UnionNFA(compileNFA(exp1, alphabet), compileNFA(exp2, alphabet))
	case REGEXP_CONCATENATION:
		exp1, exp2 := exp.Operands()
		return ConcatNFA(compileNFA(exp1, alphabet), compileNFA(exp2, alphabet))
	default:
		exp1, _ := exp.Operands()
		return KleeneNFA(compileNFA(exp1, alphabet))
	}
}

// ThompsonConstruction Compiles an expression to a minimal DFA through the
// Thompson pipeline: ε-NFA, subset construction, minimization.
func ThompsonConstruction(exp *RegExp) (*DFA, error) {
	n, err := ThompsonNFAConstruction(exp)
	if err != nil {
		return nil, err
	}
	return Minimize(DFAConstruction(n))
}

// regExpKey adapts a canonical expression to the Hashable key interface of
// the builder map. Equality is structural; the injective string encoding
// of the canonical tree is hashed with xxhash.
type regExpKey struct {
	exp  *RegExp
	repr string
}

func newRegExpKey(exp *RegExp) *regExpKey {
	return &regExpKey{exp: exp, repr: exp.key()}
}

func (k *regExpKey) Hash() uint64 {
	return xxhash.Sum64String(k.repr)
}

func (k *regExpKey) Equals(other Hashable) bool {
	o, ok := other.(*regExpKey)
	return ok && k.repr == o.repr
}

// BrzozowskiConstruction Compiles an expression to a minimal DFA by
// iterated derivatives: each reachable derivative becomes one DFA state,
// accepting iff it is nullable. The constructor normal form bounds the set
// of reachable derivatives, so the exploration terminates.
func BrzozowskiConstruction(exp *RegExp) (*DFA, error) {
	alphabet := exp.Alphabet()
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}

	b := newDFABuilder(alphabet)
	initial := newRegExpKey(exp)
	start, _ := b.lookupUpdate(initial)
	b.dfa.Start = start
	b.explore(initial, func(key Hashable, label rune) Hashable {
		return newRegExpKey(key.(*regExpKey).exp.Derive(label))
	})

	for key, state := range b.corr.Iterator() {
		if key.(*regExpKey).exp.Nullable() {
			b.dfa.SetAccept(state, true)
		}
	}
	return Minimize(b.dfa)
}
