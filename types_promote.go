package cminor

// This file implements the promotion, mixing, compatibility and
// range-checking rules of the type system (spec §4.2), grounded
// directly on _examples/original_source/cminor_type.c's
// cs_type_unary_promoted, cs_type_binary_promoted_specifier,
// cs_type_can_mix_for_arithmetic, cs_type_can_mix_sign,
// cs_type_can_widen_cross_sign, cs_type_canonical, cs_type_compatible
// and cs_type_value_fits_in.

// isIntegralBasic reports whether a basic type participates in
// integer promotion/mixing (char/short/bool/int/long); float/double
// follow separate arithmetic rules and struct/union/enum never mix.
func isIntegralBasic(b BasicType) bool {
	switch b {
	case TChar, TShort, TBool, TInt, TLong:
		return true
	default:
		return false
	}
}

func isArithmeticBasic(b BasicType) bool {
	return isIntegralBasic(b) || b == TFloat || b == TDouble
}

// rank orders the integral types for promotion purposes; wider types
// never narrow when mixed with a narrower one.
func basicRank(b BasicType) int {
	switch b {
	case TBool:
		return 0
	case TChar:
		return 1
	case TShort:
		return 2
	case TInt:
		return 3
	case TLong:
		return 4
	case TFloat:
		return 5
	case TDouble:
		return 6
	default:
		return -1
	}
}

// Canonical resolves a type down to its non-typedef form: pointer and
// array types are returned unchanged (their element type is resolved
// independently), basic types are already canonical, and a Named
// typedef resolves through its stored canonical pointer — mirroring
// cs_type_canonical's refusal to chase through anything but typedefs.
func (t *TypeSpecifier) Canonical() *TypeSpecifier {
	if t == nil {
		return nil
	}
	if t.Kind == KindNamed && t.IsTypedef && t.canonical != nil {
		return t.canonical.Canonical()
	}
	return t
}

// StructurallyEqual reports whether two resolved types have the same
// shape: same kind, same basic tag and signedness for Basic types,
// same identity for Named (struct/union/enum) types, and recursively
// equal children for Pointer/Array, per cminor_type.c's
// types_structurally_equal.
func StructurallyEqual(a, b *TypeSpecifier) bool {
	if a == nil || b == nil {
		return a == b
	}
	a, b = a.Canonical(), b.Canonical()
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBasic:
		return a.Basic == b.Basic && a.IsUnsigned == b.IsUnsigned
	case KindNamed:
		return a.Basic == b.Basic && a.Identity.Name == b.Identity.Name
	case KindPointer, KindArray:
		return StructurallyEqual(a.Child, b.Child)
	default:
		return false
	}
}

// childTypesSignednessOnlyDiff reports whether a and b are pointer (or
// array) types whose only structural difference is the signedness of
// their ultimate element type — the narrow carve-out
// cs_type_compatible grants for e.g. `char*` vs `unsigned char*`.
func childTypesSignednessOnlyDiff(a, b *TypeSpecifier) bool {
	a, b = a.Canonical(), b.Canonical()
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPointer, KindArray:
		return childTypesSignednessOnlyDiff(a.Child, b.Child)
	case KindBasic:
		return a.Basic == b.Basic
	default:
		return false
	}
}

// Compatible reports whether a value of type b may be used where a is
// expected without an explicit cast: structural equality, or (for
// pointer/array types) an element-type mismatch that is signedness-only.
func Compatible(a, b *TypeSpecifier) bool {
	if StructurallyEqual(a, b) {
		return true
	}
	ca, cb := a.Canonical(), b.Canonical()
	if ca == nil || cb == nil || ca.Kind != cb.Kind {
		return false
	}
	if ca.Kind == KindPointer || ca.Kind == KindArray {
		return childTypesSignednessOnlyDiff(ca.Child, cb.Child)
	}
	return false
}

// UnaryPromoted returns the type an operand is promoted to before a
// unary arithmetic operator (or as an argument to a binary one) is
// applied: bool/char/short widen to int, preserving their
// signedness; everything else (int, long, float, double) is
// unchanged. Mirrors cs_type_unary_promoted.
func UnaryPromoted(t *TypeSpecifier) *TypeSpecifier {
	c := t.Canonical()
	if c == nil || c.Kind != KindBasic {
		return t
	}
	switch c.Basic {
	case TBool, TChar, TShort:
		return &TypeSpecifier{Kind: KindBasic, Basic: TInt, IsUnsigned: c.IsUnsigned}
	default:
		return t
	}
}

// BinaryPromoted computes the common type two arithmetic operands are
// promoted to before a binary operator applies, per
// cs_type_binary_promoted_specifier: each side is first unary-promoted,
// then the wider rank wins (double > float > long > int), and the
// result is unsigned iff both sides are unsigned.
func BinaryPromoted(l, r *TypeSpecifier) *TypeSpecifier {
	pl, pr := UnaryPromoted(l), UnaryPromoted(r)
	cl, cr := pl.Canonical(), pr.Canonical()
	if cl == nil || cr == nil || cl.Kind != KindBasic || cr.Kind != KindBasic {
		return pl
	}
	result := cl.Basic
	if basicRank(cr.Basic) > basicRank(cl.Basic) {
		result = cr.Basic
	}
	unsigned := cl.IsUnsigned && cr.IsUnsigned
	if result == TFloat || result == TDouble {
		unsigned = false
	}
	return &TypeSpecifier{Kind: KindBasic, Basic: result, IsUnsigned: unsigned}
}

// CanMixForArithmetic reports whether two operand types may appear on
// either side of +, -, *, per cs_type_can_mix_for_arithmetic: any
// combination of arithmetic (integral or floating) basic types mixes
// freely; anything involving a struct/union/enum/pointer never does.
func CanMixForArithmetic(l, r *TypeSpecifier) bool {
	cl, cr := l.Canonical(), r.Canonical()
	if cl == nil || cr == nil || cl.Kind != KindBasic || cr.Kind != KindBasic {
		return false
	}
	return isArithmeticBasic(cl.Basic) && isArithmeticBasic(cr.Basic)
}

// CanWidenCrossSign reports whether an unsigned value of type from may
// be safely widened to the signed type to without a narrowing
// diagnostic, per cs_type_can_widen_cross_sign: unsigned char widens
// into short/int/long; unsigned short widens into int/long; unsigned
// int widens into long only. A signed source never safely widens into
// an unsigned destination.
func CanWidenCrossSign(from, to BasicType) bool {
	switch from {
	case TChar:
		return to == TShort || to == TInt || to == TLong
	case TShort:
		return to == TInt || to == TLong
	case TInt:
		return to == TLong
	default:
		return false
	}
}

// canMixSign is the shared signedness gate for comparison and
// division operators, per cs_type_can_mix_sign: same signedness is
// always fine; otherwise the unsigned side must safely cross-widen
// into the signed side's rank.
func canMixSign(l, r *TypeSpecifier) bool {
	cl, cr := l.Canonical(), r.Canonical()
	if cl == nil || cr == nil || cl.Kind != KindBasic || cr.Kind != KindBasic {
		return false
	}
	if !isArithmeticBasic(cl.Basic) || !isArithmeticBasic(cr.Basic) {
		return false
	}
	if cl.IsUnsigned == cr.IsUnsigned {
		return true
	}
	if cl.IsUnsigned && !cr.IsUnsigned {
		return CanWidenCrossSign(cl.Basic, cr.Basic)
	}
	return CanWidenCrossSign(cr.Basic, cl.Basic)
}

// CanMixForComparison reports whether l and r may appear on either
// side of ==, !=, <, <=, >, >=.
func CanMixForComparison(l, r *TypeSpecifier) bool { return canMixSign(l, r) }

// CanMixForDivision reports whether l and r may appear on either side
// of / or %; identical signedness gate to comparison per the C
// original.
func CanMixForDivision(l, r *TypeSpecifier) bool { return canMixSign(l, r) }

// ShiftResultType implements the shift-specific promotion rule: the
// left operand is unary-promoted and determines the result kind; the
// right operand is evaluated but never promoted to match it.
func ShiftResultType(left *TypeSpecifier) *TypeSpecifier {
	return UnaryPromoted(left)
}

// valueRange describes the inclusive bounds a basic integral type can
// represent, used by ValueFitsIn.
type valueRange struct {
	signedMin, signedMax   int64
	unsignedMax            uint64
}

func rangeFor(b BasicType) (valueRange, bool) {
	switch b {
	case TChar:
		return valueRange{-128, 127, 255}, true
	case TShort:
		return valueRange{-32768, 32767, 65535}, true
	case TInt:
		return valueRange{-2147483648, 2147483647, 4294967295}, true
	case TLong:
		return valueRange{}, false // long always fits; no narrower bound to check
	default:
		return valueRange{}, false
	}
}

// ValueFitsIn reports whether a constant integer value (as produced
// by a literal or a constant-folded enum member) fits within the
// representable range of basicType/unsigned, per
// cs_type_value_fits_in. long (and any non-integral type) always
// "fits" — there is nothing narrower to check against.
func ValueFitsIn(value int64, basicType BasicType, unsigned bool) bool {
	if basicType == TLong || !isIntegralBasic(basicType) {
		return true
	}
	r, ok := rangeFor(basicType)
	if !ok {
		return true
	}
	if unsigned {
		if value < 0 {
			return false
		}
		return uint64(value) <= r.unsignedMax
	}
	return value >= r.signedMin && value <= r.signedMax
}
