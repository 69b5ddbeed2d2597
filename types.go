package cminor

import (
	"fmt"
	"strings"
)

// BasicType is the enumeration of scalar/aggregate tags a type node
// can carry, per spec §3's "Basic type tag".
type BasicType int

const (
	TVoid BasicType = iota
	TChar
	TShort
	TBool
	TInt
	TLong
	TFloat
	TDouble
	TStruct
	TUnion
	TEnum
	TTypedefName
)

func (b BasicType) String() string {
	switch b {
	case TVoid:
		return "void"
	case TChar:
		return "char"
	case TShort:
		return "short"
	case TBool:
		return "bool"
	case TInt:
		return "int"
	case TLong:
		return "long"
	case TFloat:
		return "float"
	case TDouble:
		return "double"
	case TStruct:
		return "struct"
	case TUnion:
		return "union"
	case TEnum:
		return "enum"
	case TTypedefName:
		return "typedef-name"
	default:
		return "?"
	}
}

// TypeKind distinguishes the shape of a type node, per spec §3.
type TypeKind int

const (
	KindBasic TypeKind = iota
	KindPointer
	KindArray
	KindNamed
)

func (k TypeKind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindNamed:
		return "named"
	default:
		return "?"
	}
}

// TypeIdentity is the dual-naming scheme spec §3 assigns to every
// declared struct/union/enum: a source-level search name (used for
// per-TU lookup, empty for anonymous types) and a globally unique,
// codegen-friendly qualified name.
type TypeIdentity struct {
	SearchName string // source tag, e.g. "Point"; "" if anonymous
	Name       string // "<owner-class>[_h]$<tag-or-index>"
}

func (id TypeIdentity) IsAnonymous() bool { return id.SearchName == "" }

// anonCounters hands out the monotonic per-file counters spec §3
// describes for anonymous struct/enum tags.
type anonCounters struct {
	structs int
	enums   int
}

// NewTypeIdentity builds the identity for a struct/union/enum
// declared in ownerClass (the base filename of the declaring file,
// sans extension), honoring the "<owner>_h$<tag>" / "<owner>$<idx>"
// construction rule from spec §3.
func NewTypeIdentity(ownerClass string, isHeader bool, searchName string, anonIndex int) TypeIdentity {
	suffix := ownerClass
	if isHeader {
		suffix += "_h"
	}
	tag := searchName
	if tag == "" {
		tag = fmt.Sprintf("%d", anonIndex)
	}
	return TypeIdentity{
		SearchName: searchName,
		Name:       fmt.Sprintf("%s$%s", suffix, tag),
	}
}

// ParsedType is the syntactic type representation the parser
// produces, before any name lookup has happened (spec §3). Pointer
// and array nodes own a child ParsedType; named types carry only the
// source-level name, resolved later by the semantic analyser into a
// TypeSpecifier.
type ParsedType struct {
	Kind        TypeKind
	Basic       BasicType // meaningful when Kind == KindBasic or KindNamed
	Name        string    // meaningful when Kind == KindNamed: the source-level tag
	IsTypedef   bool
	IsUnsigned  bool
	IsConst     bool
	Child       *ParsedType // Pointer/Array element type
	PointerDepth int        // number of `*` collapsed into this node, for Pointer kind
	ArraySize   Expr        // Array kind: the (possibly nil, meaning incomplete) size expression
}

func (t *ParsedType) Clone() *ParsedType {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Child = t.Child.Clone()
	return &clone
}

func (t *ParsedType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPointer:
		return t.Child.String() + strings.Repeat("*", max(t.PointerDepth, 1))
	case KindArray:
		return t.Child.String() + "[]"
	case KindNamed:
		return t.Name
	default:
		return t.Basic.String()
	}
}

// TypeSpecifier is the resolved form of a type: Named types carry a
// full TypeIdentity plus a pointer to the resolved member list (for
// structs/unions) or nothing extra (for enums, which resolve through
// the HeaderIndex's enum table instead). Every TypeSpecifier owns its
// Child rather than sharing it, per spec §9's "owned nested values"
// guidance — cloning is explicit via Copy.
type TypeSpecifier struct {
	Kind       TypeKind
	Basic      BasicType
	IsTypedef  bool
	IsUnsigned bool
	IsConst    bool
	Child      *TypeSpecifier

	// Named-only fields.
	Identity    TypeIdentity
	Members     []*StructMember // non-nil for resolved struct/union types
	canonical   *TypeSpecifier  // typedef-only: the flattened target

	// Array-only field.
	ArraySize Expr
}

func NewBasicType(b BasicType) *TypeSpecifier {
	return &TypeSpecifier{Kind: KindBasic, Basic: b}
}

func NewNamedType(b BasicType, name string) *TypeSpecifier {
	return &TypeSpecifier{Kind: KindNamed, Basic: b, Identity: TypeIdentity{SearchName: name, Name: name}}
}

func WrapPointer(inner *TypeSpecifier, depth int) *TypeSpecifier {
	t := inner
	for i := 0; i < depth; i++ {
		t = &TypeSpecifier{Kind: KindPointer, Child: t}
	}
	return t
}

func WrapArray(inner *TypeSpecifier, size Expr) *TypeSpecifier {
	return &TypeSpecifier{Kind: KindArray, Child: inner, ArraySize: size}
}

// Copy performs a deep clone of the type tree. Construction is
// value-level throughout the type system (spec §4.2) — types are
// freely cloned rather than shared, except where a Named type's
// Members slice is intentionally aliased back to the single
// authoritative StructDefinition in the HeaderStore.
func (t *TypeSpecifier) Copy() *TypeSpecifier {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Child = t.Child.Copy()
	return &clone
}

func (t *TypeSpecifier) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPointer:
		return t.Child.String() + "*"
	case KindArray:
		return t.Child.String() + "[]"
	case KindNamed:
		prefix := t.Basic.String()
		if t.Identity.Name != "" {
			return fmt.Sprintf("%s %s", prefix, t.Identity.Name)
		}
		return prefix
	default:
		s := t.Basic.String()
		if t.IsUnsigned && isIntegralBasic(t.Basic) {
			s = "unsigned " + s
		}
		return s
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
