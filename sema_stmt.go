package cminor

// checkStmt dispatches statement-level type-checking, per spec §4.5
// Pass C's enter/leave traversal of every statement.
func (s *Sema) checkStmt(st Stmt) {
	switch n := st.(type) {
	case *BlockStmt:
		s.pushScope()
		for _, inner := range n.Stmts {
			s.checkStmt(inner)
		}
		s.popScope()

	case *ExprStmt:
		if n.Expr != nil {
			s.checkExpr(n.Expr)
		}

	case *DeclStmt:
		s.checkLocalDecl(n)

	case *IfStmt:
		n.Cond = s.checkCondition(n.Cond)
		s.checkStmt(n.Then)
		if n.Else != nil {
			s.checkStmt(n.Else)
		}

	case *WhileStmt:
		n.Cond = s.checkCondition(n.Cond)
		s.checkStmt(n.Body)

	case *DoWhileStmt:
		s.checkStmt(n.Body)
		n.Cond = s.checkCondition(n.Cond)

	case *ForStmt:
		s.pushScope()
		if n.Init != nil {
			s.checkStmt(n.Init)
		}
		if n.Cond != nil {
			n.Cond = s.checkCondition(n.Cond)
		}
		if n.Post != nil {
			s.checkExpr(n.Post)
		}
		s.checkStmt(n.Body)
		s.popScope()

	case *ReturnStmt:
		s.checkReturn(n)

	case *BreakStmt, *ContinueStmt, *GotoStmt:
		// No type obligations.

	case *LabelStmt:
		s.checkStmt(n.Stmt)

	case *SwitchStmt:
		s.checkSwitch(n)
	}
}

// checkCondition implements spec §4.5's "Logical && || and
// conditions" rule applied to `if`/`while`/`do-while`/`for`/ternary
// condition position: the operand must be bool, a small integer, or a
// pointer; long/float/double there gets a dedicated diagnostic.
func (s *Sema) checkCondition(cond Expr) Expr {
	t := s.checkExpr(cond)
	if !isConditionCompatible(t) {
		s.errorf(cond.SourceSpan(), "sema.bad-condition",
			"condition must be bool, an integer, or a pointer; got %s (use an explicit comparison)", t)
	}
	return cond
}

func isConditionCompatible(t *TypeSpecifier) bool {
	c := t.Canonical()
	if c == nil {
		return false
	}
	switch c.Kind {
	case KindPointer, KindArray:
		return true
	case KindBasic:
		switch c.Basic {
		case TBool, TChar, TShort, TInt:
			return true
		default:
			return false
		}
	case KindNamed:
		return c.Basic == TEnum
	default:
		return false
	}
}

// checkLocalDecl implements spec §4.5's "Declarations at statement
// level" for a block-scope declaration, then pushes it onto the
// current scope.
func (s *Sema) checkLocalDecl(ds *DeclStmt) {
	v := ds.Decl
	if v == nil {
		return
	}
	s.finalizeVarDecl(v)
	s.declareLocal(v)
}

// checkReturn implements spec §4.5's "Return statements": when the
// enclosing function's return type is a pointer and the returned
// expression types as `void*` (a bare NULL), propagate the declared
// pointer type onto it.
func (s *Sema) checkReturn(ret *ReturnStmt) {
	if ret.Value == nil {
		return
	}
	if s.currentFn == nil {
		s.checkExpr(ret.Value)
		return
	}
	ret.Value = s.assignCheck(s.currentFn.ReturnType, ret.Value, false)
}

func isNullPointerType(t *TypeSpecifier) bool {
	c := t.Canonical()
	return c != nil && c.Kind == KindPointer && c.Child != nil && c.Child.Kind == KindBasic && c.Child.Basic == TVoid
}

// checkSwitch implements spec §4.5's "Switch / case": the tag type is
// pushed for the duration of the switch so nested case labels can
// range-check against it, and popped on leaving.
func (s *Sema) checkSwitch(sw *SwitchStmt) {
	tagType := s.checkExpr(sw.Tag)
	s.switchTypes = append(s.switchTypes, tagType)

	for _, c := range sw.Cases {
		if c.Value != nil {
			s.checkCase(c, tagType)
		}
		for _, st := range c.Body {
			s.checkStmt(st)
		}
	}

	s.switchTypes = s.switchTypes[:len(s.switchTypes)-1]
}

func (s *Sema) checkCase(c *CaseClause, tagType *TypeSpecifier) {
	caseType := s.checkExpr(c.Value)
	if !switchCompatible(tagType, caseType) {
		s.errorf(c.Span, "sema.bad-case", "case expression type %s is not compatible with switch type %s", caseType, tagType)
		return
	}
	if v, ok := c.Value.ConstantValue(); ok {
		tagCanonical := tagType.Canonical()
		if tagCanonical != nil && tagCanonical.Kind == KindBasic && !ValueFitsIn(v, tagCanonical.Basic, tagCanonical.IsUnsigned) {
			s.errorf(c.Span, "sema.case-out-of-range", "case value %d does not fit in switch type %s", v, tagType)
		}
	}
}

// switchCompatible requires an integral-or-enum pair that isn't two
// distinct enum types, per spec §4.5.
func switchCompatible(tag, caseT *TypeSpecifier) bool {
	ct, cc := tag.Canonical(), caseT.Canonical()
	if ct == nil || cc == nil {
		return false
	}
	tagIsEnum := ct.Kind == KindNamed && ct.Basic == TEnum
	caseIsEnum := cc.Kind == KindNamed && cc.Basic == TEnum
	if tagIsEnum && caseIsEnum {
		return ct.Identity.Name == cc.Identity.Name
	}
	if tagIsEnum || caseIsEnum {
		return true // enum vs int is accepted, per the binary-arithmetic enum rule
	}
	return ct.Kind == KindBasic && cc.Kind == KindBasic && isIntegralBasic(ct.Basic) && isIntegralBasic(cc.Basic)
}
