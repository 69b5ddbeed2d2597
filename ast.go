package cminor

import "fmt"

// Node is the interface shared by every AST value the parser
// produces and the semantic analyser walks, grounded on the
// teacher's AstNode (grammar_ast.go): every node knows its own
// source span, can render itself, and accepts a Visitor.
type Node interface {
	SourceSpan() Span
	String() string
	Accept(Visitor) error
}

// Decl is a top-level or block-scope declaration: a variable, a
// function, or one of the three named-type definitions (struct/
// union, enum, typedef). Mirrors spec §3's Declaration/Function
// declaration/Struct.../Enum.../Typedef definition entries.
type Decl interface {
	Node
	declNode()
}

// Stmt is anything that can appear in a function body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is anything that evaluates to a value. Every Expr carries a
// mutable Type slot the semantic analyser fills in on its leave
// handler (spec §4.5 Pass C), and a ConstantValue hook so array-size
// computation (types_union.go) and enum-member initialisers can ask
// whether an expression folds to a compile-time integer.
type Expr interface {
	Node
	exprNode()
	Type() *TypeSpecifier
	SetType(*TypeSpecifier)
	ConstantValue() (value int64, ok bool)
}

// exprBase factors the Span/Type bookkeeping every Expr variant
// needs; each concrete expression embeds it rather than repeating
// the same three methods, per Go convention (the teacher's PEG nodes
// predate generics-friendly embedding and repeat fields instead —
// the AST here has enough variants that embedding earns its keep).
type exprBase struct {
	span Span
	typ  *TypeSpecifier
}

func (e *exprBase) SourceSpan() Span        { return e.span }
func (e *exprBase) Type() *TypeSpecifier    { return e.typ }
func (e *exprBase) SetType(t *TypeSpecifier) { e.typ = t }
func (e *exprBase) ConstantValue() (int64, bool) { return 0, false }
func (e *exprBase) exprNode()                {}

// stmtBase / declBase are the equivalent for statements and
// declarations, which carry a span but no type of their own.
type stmtBase struct{ span Span }

func (s *stmtBase) SourceSpan() Span { return s.span }
func (s *stmtBase) stmtNode()        {}

type declBase struct{ span Span }

func (d *declBase) SourceSpan() Span { return d.span }
func (d *declBase) declNode()        {}

// ---- Declarations ----

// VarDecl is spec §3's Declaration: `{name, type, parsed_type,
// initializer, owning-class, source-path, index, needs_heap_lift,
// is_static, is_extern}`.
type VarDecl struct {
	declBase
	Name          string
	ParsedType    *ParsedType
	ResolvedType  *TypeSpecifier
	Initializer   Expr
	OwningClass   string
	SourcePath    string
	Index         int
	NeedsHeapLift bool
	IsStatic      bool
	IsExtern      bool
}

func NewVarDecl(name string, pt *ParsedType, init Expr, span Span) *VarDecl {
	return &VarDecl{declBase: declBase{span}, Name: name, ParsedType: pt, Initializer: init}
}

func (d *VarDecl) String() string {
	if d.Initializer != nil {
		return fmt.Sprintf("%s %s = %s", d.ParsedType, d.Name, d.Initializer)
	}
	return fmt.Sprintf("%s %s", d.ParsedType, d.Name)
}

func (d *VarDecl) Accept(v Visitor) error { return v.VisitVarDecl(d) }

// ParamDecl is a function parameter; it owns the synthetic VarDecl
// function entry creates for it in the callee's first scope (spec
// §4.5 "Function entry").
type ParamDecl struct {
	Name         string
	ParsedType   *ParsedType
	ResolvedType *TypeSpecifier
	LocalIndex   int
	Decl         *VarDecl
}

// FunctionDecl is spec §3's Function declaration: `{name,
// return-type, parameters, is_variadic, is_static, attributes, body,
// class, source, index, varargs_index}`. A nil Body means a
// prototype.
type FunctionDecl struct {
	declBase
	Name             string
	ReturnParsedType *ParsedType
	ReturnType       *TypeSpecifier
	Params           []*ParamDecl
	IsVariadic       bool
	IsStatic         bool
	Attributes       []string
	Body             *BlockStmt
	Class            string
	Source           string
	Index            int
	VarargsIndex     int
}

func NewFunctionDecl(name string, ret *ParsedType, params []*ParamDecl, variadic bool, body *BlockStmt, span Span) *FunctionDecl {
	return &FunctionDecl{declBase: declBase{span}, Name: name, ReturnParsedType: ret, Params: params, IsVariadic: variadic, Body: body}
}

func (d *FunctionDecl) IsPrototype() bool { return d.Body == nil }

func (d *FunctionDecl) String() string {
	if d.IsPrototype() {
		return fmt.Sprintf("%s %s(...);", d.ReturnParsedType, d.Name)
	}
	return fmt.Sprintf("%s %s(...) { ... }", d.ReturnParsedType, d.Name)
}

func (d *FunctionDecl) Accept(v Visitor) error { return v.VisitFunctionDecl(d) }

// StructDefinition is spec §3's struct/union definition: an identity
// plus declaration-ordered members. IsUnion distinguishes the two
// surface keywords; a union additionally carries its classified Kind
// once the type resolver has looked at its members (types_union.go).
type StructDefinition struct {
	declBase
	Identity TypeIdentity
	IsUnion  bool
	Members  []*StructMember
	Kind     UnionKind // meaningful only when IsUnion
}

func (d *StructDefinition) String() string {
	kw := "struct"
	if d.IsUnion {
		kw = "union"
	}
	return fmt.Sprintf("%s %s { ... }", kw, d.Identity.SearchName)
}

func (d *StructDefinition) Accept(v Visitor) error { return v.VisitStructDefinition(d) }

// EnumDefinition is spec §3's Enum definition: identity plus an
// ordered member list, values assigned left-to-right starting at 0
// or prev+1 unless given explicitly.
type EnumDefinition struct {
	declBase
	Identity TypeIdentity
	Members  []*EnumMember
}

func (d *EnumDefinition) String() string {
	return fmt.Sprintf("enum %s { ... }", d.Identity.SearchName)
}

func (d *EnumDefinition) Accept(v Visitor) error { return v.VisitEnumDefinition(d) }

// TypedefDefinition is spec §3's Typedef definition: `{name,
// parsed-type, resolved-type, canonical-type, source-path}`.
type TypedefDefinition struct {
	declBase
	Name         string
	ParsedType   *ParsedType
	ResolvedType *TypeSpecifier
	Canonical    *TypeSpecifier
	SourcePath   string
}

func (d *TypedefDefinition) String() string {
	return fmt.Sprintf("typedef %s %s", d.ParsedType, d.Name)
}

func (d *TypedefDefinition) Accept(v Visitor) error { return v.VisitTypedefDefinition(d) }
