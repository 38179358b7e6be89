package automaton

import (
	"slices"
	"strconv"
	"strings"
)

type Kind int

const (
	REGEXP_VOID          = Kind(iota) // Matches no string at all
	REGEXP_EMPTY                      // Matches exactly the empty string
	REGEXP_CHAR                       // Matches one character from a non-empty set
	REGEXP_UNION                      // The union of two expressions
	REGEXP_CONCATENATION              // A sequence of two expressions
	REGEXP_KLEENE                     // The Kleene closure of an expression
)

// RegExp Represents an abstract regular expression over single code points.
// Values are immutable and always in the canonical form established by the
// Make* constructors; the derivative engine relies on that normal form to
// terminate. Build values through the constructors only.
type RegExp struct {
	kind       Kind
	exp1, exp2 *RegExp
	chars      []rune
}

// Kind The variant of this expression node.
func (r *RegExp) Kind() Kind {
	return r.kind
}

// Chars The character set of a REGEXP_CHAR node, sorted ascending. Nil for
// every other kind.
func (r *RegExp) Chars() []rune {
	return r.chars
}

// Operands The sub-expressions of a union or concatenation node; a kleene
// node only fills the first slot.
func (r *RegExp) Operands() (*RegExp, *RegExp) {
	return r.exp1, r.exp2
}

// MakeVoid Returns the expression matching no string.
func MakeVoid() *RegExp {
	return &RegExp{kind: REGEXP_VOID}
}

// MakeEmpty Returns the expression matching exactly the empty string.
func MakeEmpty() *RegExp {
	return &RegExp{kind: REGEXP_EMPTY}
}

// MakeChar Returns the expression matching any single character from chars.
// The set is deduplicated and sorted; an empty set collapses to void.
func MakeChar(chars ...rune) *RegExp {
	cs := slices.Clone(chars)
	slices.Sort(cs)
	cs = slices.Compact(cs)
	if len(cs) == 0 {
		return MakeVoid()
	}
	return &RegExp{kind: REGEXP_CHAR, chars: cs}
}

// MakeUnion Returns the union of exp1 and exp2. Void is the identity
// element. Union members are flattened, deduplicated and ordered by their
// canonical encoding: without that, iterated derivation piles up
// structurally distinct copies of the same alternative (already for
// (a·a*)* ) and never closes over a finite set.
func MakeUnion(exp1, exp2 *RegExp) *RegExp {
	members := appendUnionMembers(appendUnionMembers(nil, exp1), exp2)
	if len(members) == 0 {
		return MakeVoid()
	}
	slices.SortFunc(members, func(a, b *RegExp) int {
		return strings.Compare(a.key(), b.key())
	})
	members = slices.CompactFunc(members, (*RegExp).Equals)

	union := members[len(members)-1]
	for i := len(members) - 2; i >= 0; i-- {
		union = &RegExp{kind: REGEXP_UNION, exp1: members[i], exp2: union}
	}
	return union
}

func appendUnionMembers(dst []*RegExp, exp *RegExp) []*RegExp {
	switch exp.kind {
	case REGEXP_VOID:
		return dst
	case REGEXP_UNION:
		return appendUnionMembers(appendUnionMembers(dst, exp.exp1), exp.exp2)
	default:
		return append(dst, exp)
	}
}

// MakeConcatenation Returns the concatenation of exp1 and exp2. Void
// annihilates, the empty string is the identity element.
func MakeConcatenation(exp1, exp2 *RegExp) *RegExp {
	if exp1.kind == REGEXP_VOID || exp2.kind == REGEXP_VOID {
		return MakeVoid()
	}
	if exp1.kind == REGEXP_EMPTY {
		return exp2
	}
	if exp2.kind == REGEXP_EMPTY {
		return exp1
	}
	return &RegExp{kind: REGEXP_CONCATENATION, exp1: exp1, exp2: exp2}
}

// MakeKleene Returns the Kleene closure of exp. Closing void or the empty
// string yields the empty string; nested closures collapse.
func MakeKleene(exp *RegExp) *RegExp {
	switch exp.kind {
	case REGEXP_VOID, REGEXP_EMPTY:
		return MakeEmpty()
	case REGEXP_KLEENE:
		return exp
	}
	return &RegExp{kind: REGEXP_KLEENE, exp1: exp}
}

// Nullable Reports whether the expression matches the empty string.
func (r *RegExp) Nullable() bool {
	switch r.kind {
	case REGEXP_EMPTY, REGEXP_KLEENE:
		return true
	case REGEXP_UNION:
		return r.exp1.Nullable() || r.exp2.Nullable()
	case REGEXP_CONCATENATION:
		return r.exp1.Nullable() && r.exp2.Nullable()
	default:
		return false
	}
}

// Derive Returns the Brzozowski derivative of the expression with respect
// to label: the expression matching exactly those w with label·w in the
// original language. The result is built with the normalizing constructors
// so that iterated derivation stays within a finite set of expressions.
func (r *RegExp) Derive(label rune) *RegExp {
	switch r.kind {
	case REGEXP_VOID, REGEXP_EMPTY:
		return MakeVoid()
	case REGEXP_CHAR:
		if _, found := slices.BinarySearch(r.chars, label); found {
			return MakeEmpty()
		}
		return MakeVoid()
	case REGEXP_UNION:
		return MakeUnion(r.exp1.Derive(label), r.exp2.Derive(label))
	case REGEXP_CONCATENATION:
		left := MakeConcatenation(r.exp1.Derive(label), r.exp2)
		if !r.exp1.Nullable() {
			return left
		}
		return MakeUnion(left, r.exp2.Derive(label))
	case REGEXP_KLEENE:
		return MakeConcatenation(r.exp1.Derive(label), MakeKleene(r.exp1))
	}
	return MakeVoid()
}

// Alphabet The set of characters appearing in any char node, sorted
// ascending. Empty when the expression contains no char node; automaton
// construction rejects such inputs.
func (r *RegExp) Alphabet() []rune {
	set := make(map[rune]struct{})
	r.collectChars(set)
	alphabet := make([]rune, 0, len(set))
	for c := range set {
		alphabet = append(alphabet, c)
	}
	slices.Sort(alphabet)
	return alphabet
}

func (r *RegExp) collectChars(set map[rune]struct{}) {
	switch r.kind {
	case REGEXP_CHAR:
		for _, c := range r.chars {
			set[c] = struct{}{}
		}
	case REGEXP_UNION, REGEXP_CONCATENATION:
		r.exp1.collectChars(set)
		r.exp2.collectChars(set)
	case REGEXP_KLEENE:
		r.exp1.collectChars(set)
	}
}

// Equals Structural equality on the canonical tree. Because all values are
// constructor-normalized, this is exactly the equality the derivative
// iteration is keyed on.
func (r *RegExp) Equals(other *RegExp) bool {
	if other == nil {
		return r == nil
	}
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case REGEXP_VOID, REGEXP_EMPTY:
		return true
	case REGEXP_CHAR:
		return slices.Equal(r.chars, other.chars)
	case REGEXP_KLEENE:
		return r.exp1.Equals(other.exp1)
	default:
		return r.exp1.Equals(other.exp1) && r.exp2.Equals(other.exp2)
	}
}

// String A printable rendering of the expression. The output is fully
// parenthesized, with # for void and () for the empty string.
func (r *RegExp) String() string {
	sb := new(strings.Builder)
	r.appendString(sb)
	return sb.String()
}

func (r *RegExp) appendString(sb *strings.Builder) {
	switch r.kind {
	case REGEXP_VOID:
		sb.WriteByte('#')
	case REGEXP_EMPTY:
		sb.WriteString("()")
	case REGEXP_CHAR:
		if len(r.chars) == 1 {
			sb.WriteRune(r.chars[0])
			return
		}
		sb.WriteByte('[')
		for _, c := range r.chars {
			sb.WriteRune(c)
		}
		sb.WriteByte(']')
	case REGEXP_UNION:
		sb.WriteByte('(')
		r.exp1.appendString(sb)
		sb.WriteByte('|')
		r.exp2.appendString(sb)
		sb.WriteByte(')')
	case REGEXP_CONCATENATION:
		sb.WriteByte('(')
		r.exp1.appendString(sb)
		r.exp2.appendString(sb)
		sb.WriteByte(')')
	case REGEXP_KLEENE:
		sb.WriteByte('(')
		r.exp1.appendString(sb)
		sb.WriteString(")*")
	}
}

// key An injective encoding of the canonical tree, safe to use as a map key
// even when the character set contains metacharacters.
func (r *RegExp) key() string {
	sb := new(strings.Builder)
	r.appendKey(sb)
	return sb.String()
}

func (r *RegExp) appendKey(sb *strings.Builder) {
	switch r.kind {
	case REGEXP_VOID:
		sb.WriteByte('V')
	case REGEXP_EMPTY:
		sb.WriteByte('E')
	case REGEXP_CHAR:
		sb.WriteByte('C')
		for i, c := range r.chars {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(c)))
		}
		sb.WriteByte(';')
	case REGEXP_UNION:
		sb.WriteString("U(")
		r.exp1.appendKey(sb)
		sb.WriteByte(' ')
		r.exp2.appendKey(sb)
		sb.WriteByte(')')
	case REGEXP_CONCATENATION:
		sb.WriteString("S(")
		r.exp1.appendKey(sb)
		sb.WriteByte(' ')
		r.exp2.appendKey(sb)
		sb.WriteByte(')')
	case REGEXP_KLEENE:
		sb.WriteString("K(")
		r.exp1.appendKey(sb)
		sb.WriteByte(')')
	}
}
