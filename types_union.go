package cminor

// StructMember is one field of a resolved struct or union: a linked
// list in spirit (declaration order matters for layout and for
// diagnostics) but represented as a slice for idiomatic Go iteration,
// per spec §3's "Struct/union member — {name, parsed-type,
// resolved-type, next}".
type StructMember struct {
	Name         string
	ParsedType   *ParsedType
	ResolvedType *TypeSpecifier
}

// EnumMember is one constant of a resolved enum: a name and its
// constant-folded integer value, used both for member lookup and for
// enum-constant array bounds (spec §4.2's "Enum-constant array bounds
// are accepted").
type EnumMember struct {
	Name  string
	Value int64
}

// UnionKind classifies a union declaration into one of the four
// shapes the target representation can carry without raw memory
// reinterpretation, per spec §4.2's union_kind and
// _examples/original_source/cminor_type.c's cs_union_kind /
// cs_union_kind_from_members.
type UnionKind int

const (
	// UnionTypePunIntFloat is a two-member union of exactly {int,
	// float} in either declaration order.
	UnionTypePunIntFloat UnionKind = iota
	// UnionTypePunLongDouble is a two-member union of exactly {long,
	// double} in either declaration order.
	UnionTypePunLongDouble
	// UnionReference covers every other shape the language still
	// allows: every member pointer/aggregate, or a mixed/primitive-
	// heavy union that falls back to a boxed reference representation.
	// Per spec §4.2 this is the catch-all — never Unsupported.
	UnionReference
)

func (k UnionKind) String() string {
	switch k {
	case UnionTypePunIntFloat:
		return "TypePunIntFloat"
	case UnionTypePunLongDouble:
		return "TypePunLongDouble"
	case UnionReference:
		return "Reference"
	default:
		return "?"
	}
}

// isPointerOrAggregate reports whether a resolved member type is a
// pointer, or a Named type standing for a struct/union, per the
// "every member is pointer or aggregate" union-kind clause.
func isPointerOrAggregate(t *TypeSpecifier) bool {
	c := t.Canonical()
	if c == nil {
		return false
	}
	switch c.Kind {
	case KindPointer:
		return true
	case KindNamed:
		return c.Basic == TStruct || c.Basic == TUnion
	default:
		return false
	}
}

func isBasicTagged(t *TypeSpecifier, tag BasicType) bool {
	c := t.Canonical()
	return c != nil && c.Kind == KindBasic && c.Basic == tag
}

// ClassifyUnionKind implements union_kind(members): an exact
// two-member {int, float} union (either order) is a type-pun of those
// two representations; an exact two-member {long, double} union is
// likewise; a union where every member is a pointer or an aggregate
// (struct/union) gets a Reference representation; anything else
// (mixed scalars, three or more members, a lone scalar) also falls
// back to Reference, since this language never surfaces an
// Unsupported union shape.
func ClassifyUnionKind(members []*StructMember) UnionKind {
	if len(members) == 2 {
		a, b := members[0].ResolvedType, members[1].ResolvedType
		if (isBasicTagged(a, TInt) && isBasicTagged(b, TFloat)) ||
			(isBasicTagged(a, TFloat) && isBasicTagged(b, TInt)) {
			return UnionTypePunIntFloat
		}
		if (isBasicTagged(a, TLong) && isBasicTagged(b, TDouble)) ||
			(isBasicTagged(a, TDouble) && isBasicTagged(b, TLong)) {
			return UnionTypePunLongDouble
		}
	}

	allPointerOrAggregate := len(members) > 0
	for _, m := range members {
		if !isPointerOrAggregate(m.ResolvedType) {
			allPointerOrAggregate = false
			break
		}
	}
	if allPointerOrAggregate {
		return UnionReference
	}

	return UnionReference
}

// constArrayBound is the minimal surface ComputeArraySize needs from
// an array-size expression: either a literal integer, a reference to
// an enum constant, or neither (meaning non-constant). The concrete
// expression AST (ast.go) implements this by folding literals and
// resolving enum-member identifiers during semantic analysis; this
// file only consumes the folded result.
type constArrayBound interface {
	ConstantValue() (value int64, ok bool)
}

// notConstantArraySize is the sentinel compute_array_size returns for
// non-constant or non-array input, per spec §4.2.
const notConstantArraySize = -1

// ComputeArraySize implements compute_array_size(t): it walks nested
// Array wrappers multiplying each dimension's constant-folded size
// together (an Array wrapping a non-Array leaf contributes its own
// dimension only), and returns notConstantArraySize for non-array
// input or the moment any dimension's size expression fails to fold
// to a constant.
func ComputeArraySize(t *TypeSpecifier) int {
	if t == nil {
		return notConstantArraySize
	}
	switch t.Kind {
	case KindArray:
		dim := notConstantArraySize
		if t.ArraySize != nil {
			if bound, ok := t.ArraySize.(constArrayBound); ok {
				if v, ok := bound.ConstantValue(); ok {
					dim = int(v)
				}
			}
		}
		if dim == notConstantArraySize {
			return notConstantArraySize
		}
		inner := ComputeArraySize(t.Child)
		if t.Child != nil && t.Child.Kind == KindArray {
			if inner == notConstantArraySize {
				return notConstantArraySize
			}
			return dim * inner
		}
		return dim
	default:
		return notConstantArraySize
	}
}
