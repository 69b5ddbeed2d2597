package cminor

// Sema is the "mean-check" semantic analyser: spec §4.5's Pass C AST
// walk, run once per translation unit after Pass A/B's type
// resolution has populated every visible file's declarations.
// Grounded on _examples/original_source's mean_check.c/.h (scope
// stack, switch-type stack, current-function pointer, error log),
// adapted from the original's enter/leave callback registration to
// direct recursive-descent methods — idiomatic Go has no need for the
// C original's function-pointer dispatch table when a type switch
// does the same job with static dispatch.
type Sema struct {
	idx      *HeaderIndex
	resolver *typeResolver
	log      *Log
	path     string

	scopes      []map[string]*VarDecl
	switchTypes []*TypeSpecifier
	currentFn   *FunctionDecl
	nextLocal   int
}

func newSema(idx *HeaderIndex, resolver *typeResolver, log *Log) *Sema {
	return &Sema{idx: idx, resolver: resolver, log: log}
}

// run walks every top-level declaration of tu, per spec §4.4 step 6.
func (s *Sema) run(tu *TranslationUnit) {
	s.path = tu.Path
	for _, d := range tu.TopLevel {
		s.checkTopDecl(d)
	}
}

func (s *Sema) checkTopDecl(d Decl) {
	switch n := d.(type) {
	case *FunctionDecl:
		s.checkFunction(n)
	case *VarDecl:
		s.checkGlobalVarDecl(n)
	case *StructDefinition, *EnumDefinition, *TypedefDefinition:
		// Fully handled by Pass A/B; nothing left for the AST walk.
	}
}

func (s *Sema) pushScope() { s.scopes = append(s.scopes, make(map[string]*VarDecl)) }
func (s *Sema) popScope()  { s.scopes = s.scopes[:len(s.scopes)-1] }

func (s *Sema) declareLocal(v *VarDecl) {
	if len(s.scopes) == 0 {
		return
	}
	s.scopes[len(s.scopes)-1][v.Name] = v
}

func (s *Sema) lookupLocal(name string) (*VarDecl, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Sema) errorf(span Span, code, format string, args ...any) {
	s.log.Errorf(s.path, span.Start.Line, code, format, args...)
}

// checkFunction implements spec §4.5's "Function entry"/"Function
// exit": a fresh scope for the parameter list (long/double
// parameters occupy two local slots, mirroring the stack-machine
// calling convention's word size), followed by a walk of the body in
// that same scope.
func (s *Sema) checkFunction(fn *FunctionDecl) {
	if fn.IsPrototype() {
		return
	}
	prevFn := s.currentFn
	s.currentFn = fn
	s.pushScope()
	s.nextLocal = 0

	for _, p := range fn.Params {
		decl := NewVarDecl(p.Name, p.ParsedType, nil, fn.SourceSpan())
		decl.ResolvedType = p.ResolvedType
		decl.Index = s.nextLocal
		p.LocalIndex = decl.Index
		p.Decl = decl
		s.nextLocal++
		if isWideBasic(p.ResolvedType) {
			s.nextLocal++
		}
		s.declareLocal(decl)
	}

	for _, st := range fn.Body.Stmts {
		s.checkStmt(st)
	}

	s.popScope()
	s.currentFn = prevFn
}

// isWideBasic reports whether a resolved type occupies two local
// slots in the target stack machine's calling convention (long and
// double are 64-bit; every other basic type and every reference type
// fits in one word).
func isWideBasic(t *TypeSpecifier) bool {
	c := t.Canonical()
	return c != nil && c.Kind == KindBasic && (c.Basic == TLong || c.Basic == TDouble)
}

// checkGlobalVarDecl implements spec §4.5's "Declarations at
// statement level" for a file-scope declaration: resolve, finalise
// array size, type-check the initializer, and retarget any matching
// extern prototype to this definition.
func (s *Sema) checkGlobalVarDecl(v *VarDecl) {
	s.finalizeVarDecl(v)
	if !v.IsExtern {
		for _, fd := range s.idx.Files() {
			for _, other := range fd.Externs {
				if other != v && other.Name == v.Name && other.IsExtern {
					other.IsExtern = false
					other.OwningClass = v.OwningClass
				}
			}
		}
	}
}

// finalizeVarDecl resolves v's declared type, checks its array size
// expressions (which resolves enum-constant bounds), infers an
// incomplete array's size from its initializer list, type-checks the
// initializer against the declared type, and propagates the declared
// type recursively into nested initialiser lists, per spec §4.5.
func (s *Sema) finalizeVarDecl(v *VarDecl) {
	v.ResolvedType = s.resolver.resolve(v.ParsedType)
	for t := v.ResolvedType; t != nil && t.Kind == KindArray; t = t.Child {
		if t.ArraySize != nil {
			s.checkExpr(t.ArraySize)
		}
	}

	if v.ResolvedType != nil && v.ResolvedType.Kind == KindArray && v.ResolvedType.ArraySize == nil {
		if lit, ok := v.Initializer.(*InitializerList); ok {
			size := NewIntLiteral(int64(len(lit.Elements)), false, false, v.SourceSpan())
			v.ResolvedType.ArraySize = size
			v.ParsedType.ArraySize = size
		}
	}

	if v.Initializer != nil {
		v.Initializer = s.assignCheck(v.ResolvedType, v.Initializer, false)
		s.propagateInitializerType(v.ResolvedType, v.Initializer)
	}
}

// propagateInitializerType pushes declType recursively into nested
// initialiser lists so every element (including designated
// initialisers matched by field name) carries a concrete type before
// codegen sees it.
func (s *Sema) propagateInitializerType(declType *TypeSpecifier, value Expr) {
	list, ok := value.(*InitializerList)
	if !ok || declType == nil {
		return
	}
	canonical := declType.Canonical()
	switch canonical.Kind {
	case KindArray:
		for i, el := range list.Elements {
			list.Elements[i] = s.assignCheck(canonical.Child, el, false)
			s.propagateInitializerType(canonical.Child, list.Elements[i])
		}
	case KindNamed:
		if canonical.Basic != TStruct && canonical.Basic != TUnion {
			return
		}
		for i, el := range list.Elements {
			member := s.memberForInitializerIndex(canonical, list.FieldNames[i], i)
			if member == nil {
				continue
			}
			list.Elements[i] = s.assignCheck(member.ResolvedType, el, false)
			s.propagateInitializerType(member.ResolvedType, list.Elements[i])
		}
	}
	list.SetType(declType)
}

func (s *Sema) memberForInitializerIndex(structType *TypeSpecifier, fieldName string, positional int) *StructMember {
	if fieldName != "" {
		for _, m := range structType.Members {
			if m.Name == fieldName {
				return m
			}
		}
		return nil
	}
	if positional < len(structType.Members) {
		return structType.Members[positional]
	}
	return nil
}
