package cminor

import "fmt"

// checkExpr is Pass C's per-expression leave-handler dispatch (spec
// §4.5): every kind assigns its own Expr.Type() and, for a handful of
// kinds, rewrites its own sub-tree (implicit casts, NULL propagation).
func (s *Sema) checkExpr(e Expr) *TypeSpecifier {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *IntLiteral:
		t := intLiteralType(n)
		n.SetType(t)
		return t
	case *FloatLiteral:
		basic := TFloat
		if n.IsDouble {
			basic = TDouble
		}
		t := NewBasicType(basic)
		n.SetType(t)
		return t
	case *CharLiteral:
		t := NewBasicType(TChar)
		n.SetType(t)
		return t
	case *StringLiteral:
		t := WrapPointer(NewBasicType(TChar), 1)
		n.SetType(t)
		return t
	case *BoolLiteral:
		t := NewBasicType(TBool)
		n.SetType(t)
		return t
	case *NullLiteral:
		t := WrapPointer(NewBasicType(TVoid), 1)
		n.SetType(t)
		return t
	case *IdentifierExpr:
		return s.checkIdentifier(n)
	case *UnaryExpr:
		return s.checkUnary(n)
	case *AddressOfExpr:
		return s.checkAddressOf(n)
	case *BinaryExpr:
		return s.checkBinary(n)
	case *LogicalExpr:
		return s.checkLogical(n)
	case *AssignExpr:
		return s.checkAssignExpr(n)
	case *CallExpr:
		return s.checkCall(n)
	case *SizeofTypeExpr:
		n.Resolved = s.resolver.resolve(n.Operand)
		t := NewBasicType(TInt)
		n.SetType(t)
		return t
	case *SizeofExpr:
		return s.checkSizeofExpr(n)
	case *IndexExpr:
		return s.checkIndex(n)
	case *MemberExpr:
		return s.checkMember(n)
	case *TernaryExpr:
		return s.checkTernary(n)
	case *CastExpr:
		if !n.Implicit {
			s.checkExpr(n.Operand)
		}
		return n.Target
	case *InitializerList:
		for _, el := range n.Elements {
			s.checkExpr(el)
		}
		return nil
	default:
		panic(fmt.Sprintf("checkExpr is missing a case for node type %T", n))
	}
}

func intLiteralType(n *IntLiteral) *TypeSpecifier {
	basic := TInt
	if n.IsLong {
		basic = TLong
	}
	t := NewBasicType(basic)
	t.IsUnsigned = n.IsUnsigned
	return t
}

// checkIdentifier implements spec §4.5's "Identifier resolution"
// order: current scope stack, global declarations, function table,
// enum-member table.
func (s *Sema) checkIdentifier(n *IdentifierExpr) *TypeSpecifier {
	if decl, ok := s.lookupLocal(n.Name); ok {
		n.ResolvedDecl = decl
		n.SetType(decl.ResolvedType)
		return decl.ResolvedType
	}
	if decl := s.idx.FindDeclaration(n.Name); decl != nil {
		n.ResolvedDecl = decl
		n.SetType(decl.ResolvedType)
		return decl.ResolvedType
	}
	if fn := s.idx.FindFunction(n.Name); fn != nil {
		n.IsFunction = true
		n.SetType(fn.ReturnType)
		return fn.ReturnType
	}
	if enumDef, member := s.idx.FindEnumMember(n.Name); member != nil {
		n.IsEnumMember = true
		n.ResolvedEnumValue = member.Value
		t := &TypeSpecifier{Kind: KindNamed, Basic: TEnum, Identity: enumDef.Identity}
		n.SetType(t)
		return t
	}
	s.errorf(n.SourceSpan(), "sema.undefined", "undefined identifier %q", n.Name)
	t := NewBasicType(TInt)
	n.SetType(t)
	return t
}

// checkUnary implements spec §4.5's "Unary" rule for `- + ! ~`.
func (s *Sema) checkUnary(n *UnaryExpr) *TypeSpecifier {
	operandType := s.checkExpr(n.Operand)
	oc := operandType.Canonical()

	var result *TypeSpecifier
	switch n.Op {
	case "-", "+":
		if oc == nil || oc.Kind != KindBasic || !isArithmeticBasic(oc.Basic) {
			s.errorf(n.SourceSpan(), "sema.bad-unary", "unary %q requires a numeric operand", n.Op)
			result = NewBasicType(TInt)
		} else {
			result = UnaryPromoted(operandType)
		}
	case "!":
		if oc != nil && oc.Kind == KindBasic && (oc.Basic == TLong || oc.Basic == TFloat || oc.Basic == TDouble) {
			s.errorf(n.SourceSpan(), "sema.bad-not", "'!' cannot apply to %s; use an explicit comparison", operandType)
		} else if !isConditionCompatible(operandType) {
			s.errorf(n.SourceSpan(), "sema.bad-not", "'!' requires bool, an integer, or a pointer")
		}
		result = NewBasicType(TBool)
	case "~":
		if oc == nil || oc.Kind != KindBasic || !isIntegralBasic(oc.Basic) {
			s.errorf(n.SourceSpan(), "sema.bad-unary", "'~' requires an integral operand")
			result = NewBasicType(TInt)
		} else {
			result = UnaryPromoted(operandType)
		}
	case "*":
		if oc == nil || (oc.Kind != KindPointer && oc.Kind != KindArray) {
			s.errorf(n.SourceSpan(), "sema.bad-deref", "'*' requires a pointer or array operand")
			result = NewBasicType(TInt)
		} else {
			result = oc.Child
		}
	}
	n.SetType(result)
	return result
}

// checkAddressOf implements spec §4.5's `&lval` rule: identifiers
// mark their declaration for heap-lift unless it is global or static;
// struct-member access through a pointer or an array subscript is
// already on the heap and needs none; any other lvalue shape is a
// diagnostic.
func (s *Sema) checkAddressOf(n *AddressOfExpr) *TypeSpecifier {
	operandType := s.checkExpr(n.Operand)

	switch base := n.Operand.(type) {
	case *IdentifierExpr:
		if base.ResolvedDecl != nil && !base.ResolvedDecl.IsStatic && !isGlobalDecl(s.idx, base.ResolvedDecl) {
			base.ResolvedDecl.NeedsHeapLift = true
		}
	case *MemberExpr:
		if !base.Arrow {
			if ident, ok := base.Base.(*IdentifierExpr); ok && ident.ResolvedDecl != nil &&
				!ident.ResolvedDecl.IsStatic && !isGlobalDecl(s.idx, ident.ResolvedDecl) {
				s.errorf(n.SourceSpan(), "sema.bad-address-of",
					"cannot take the address of a field of stack-allocated %q; heap-lift the struct itself", ident.Name)
			}
		}
	case *IndexExpr:
		// Already on the heap; no lift needed.
	default:
		s.errorf(n.SourceSpan(), "sema.bad-address-of", "'&' requires an addressable lvalue")
	}

	result := WrapPointer(operandType, 1)
	n.SetType(result)
	return result
}

// isGlobalDecl reports whether decl is one of the TU's visible
// file-scope externs, as opposed to a local the scope stack owns.
func isGlobalDecl(idx *HeaderIndex, decl *VarDecl) bool {
	for _, fd := range idx.Files() {
		for _, v := range fd.Externs {
			if v == decl {
				return true
			}
		}
	}
	return false
}

func isIntegralOperand(c *TypeSpecifier) bool {
	return c != nil && c.Kind == KindBasic && isIntegralBasic(c.Basic)
}

// arithmeticOperandType maps an operand's canonical type onto the
// type CanMixForArithmetic/BinaryPromoted should reason about: enums
// are treated as int for arithmetic purposes (spec §4.5), everything
// else passes through unchanged.
func arithmeticOperandType(t *TypeSpecifier) *TypeSpecifier {
	c := t.Canonical()
	if c != nil && c.Kind == KindNamed && c.Basic == TEnum {
		return NewBasicType(TInt)
	}
	return t
}

// checkBinary implements spec §4.5's "Binary arithmetic" (`+ - * / %
// & | ^`) and shift rules.
func (s *Sema) checkBinary(n *BinaryExpr) *TypeSpecifier {
	lt := s.checkExpr(n.Left)
	rt := s.checkExpr(n.Right)
	if lt == nil || rt == nil {
		result := NewBasicType(TInt)
		n.SetType(result)
		return result
	}
	lc, rc := lt.Canonical(), rt.Canonical()

	switch n.Op {
	case "+", "-":
		lPtr := lc != nil && (lc.Kind == KindPointer || lc.Kind == KindArray)
		rPtr := rc != nil && (rc.Kind == KindPointer || rc.Kind == KindArray)
		switch {
		case lPtr && rPtr && n.Op == "-":
			result := NewBasicType(TInt)
			n.SetType(result)
			return result
		case lPtr && !rPtr:
			if !isIntegralOperand(rc) {
				s.errorf(n.SourceSpan(), "sema.bad-pointer-arith", "pointer arithmetic requires an integer offset")
			}
			n.SetType(lt)
			return lt
		case rPtr && !lPtr && n.Op == "+":
			if !isIntegralOperand(lc) {
				s.errorf(n.SourceSpan(), "sema.bad-pointer-arith", "pointer arithmetic requires an integer offset")
			}
			n.SetType(rt)
			return rt
		default:
			return s.checkArithmeticPair(n, lt, rt)
		}
	case "*", "/", "%", "&", "|", "^":
		return s.checkArithmeticPair(n, lt, rt)
	case "<<", ">>":
		if !isIntegralOperand(lc) || !isIntegralOperand(rc) {
			s.errorf(n.SourceSpan(), "sema.bad-shift", "shift operands must be integral")
		}
		result := ShiftResultType(lt)
		n.SetType(result)
		return result
	default:
		result := NewBasicType(TInt)
		n.SetType(result)
		return result
	}
}

func (s *Sema) checkArithmeticPair(n *BinaryExpr, lt, rt *TypeSpecifier) *TypeSpecifier {
	lc, rc := lt.Canonical(), rt.Canonical()
	lIsEnum := lc != nil && lc.Kind == KindNamed && lc.Basic == TEnum
	rIsEnum := rc != nil && rc.Kind == KindNamed && rc.Basic == TEnum
	if lIsEnum && rIsEnum && lc.Identity.Name != rc.Identity.Name {
		s.errorf(n.SourceSpan(), "sema.enum-mismatch", "cannot mix distinct enum types %s and %s", lc.Identity.Name, rc.Identity.Name)
	}

	le, re := arithmeticOperandType(lt), arithmeticOperandType(rt)
	if !CanMixForArithmetic(le, re) {
		s.errorf(n.SourceSpan(), "sema.bad-operand", "operator %q requires numeric operands", n.Op)
		result := NewBasicType(TInt)
		n.SetType(result)
		return result
	}
	if (n.Op == "/" || n.Op == "%") && !CanMixForDivision(le, re) {
		s.errorf(n.SourceSpan(), "sema.signedness-mismatch", "%s requires matching signedness between %s and %s", n.Op, lt, rt)
	}

	result := BinaryPromoted(le, re)
	if !StructurallyEqual(result, le) {
		n.Left = wrapImplicitCast(n.Left, result)
	}
	if !StructurallyEqual(result, re) {
		n.Right = wrapImplicitCast(n.Right, result)
	}
	n.SetType(result)
	return result
}

// checkLogical implements spec §4.5's "Logical && ||" rule: the same
// condition-compatibility gate as if/while/for.
func (s *Sema) checkLogical(n *LogicalExpr) *TypeSpecifier {
	lt := s.checkExpr(n.Left)
	rt := s.checkExpr(n.Right)
	if !isConditionCompatible(lt) {
		s.errorf(n.Left.SourceSpan(), "sema.bad-condition", "operand of %q must be bool, an integer, or a pointer", n.Op)
	}
	if !isConditionCompatible(rt) {
		s.errorf(n.Right.SourceSpan(), "sema.bad-condition", "operand of %q must be bool, an integer, or a pointer", n.Op)
	}
	result := NewBasicType(TBool)
	n.SetType(result)
	return result
}

// checkAssignExpr implements spec §4.5's "Assignment": the value is
// passed through assignCheck against the target's type; compound
// operators (`+=` etc.) allow implicit narrowing.
func (s *Sema) checkAssignExpr(n *AssignExpr) *TypeSpecifier {
	targetType := s.checkExpr(n.Target)
	allowNarrowing := n.Op != "="
	n.Value = s.assignCheck(targetType, n.Value, allowNarrowing)
	n.SetType(targetType)
	return targetType
}

// checkCall implements spec §4.5's "Function calls".
func (s *Sema) checkCall(n *CallExpr) *TypeSpecifier {
	callee, ok := n.Callee.(*IdentifierExpr)
	if !ok {
		s.errorf(n.SourceSpan(), "sema.bad-call", "call target must be a function name")
		for _, a := range n.Args {
			s.checkExpr(a)
		}
		result := NewBasicType(TInt)
		n.SetType(result)
		return result
	}

	if result, ok := s.checkVarargsBuiltin(n, callee); ok {
		return result
	}

	fn := s.idx.FindFunction(callee.Name)
	if fn == nil {
		s.errorf(n.SourceSpan(), "sema.undefined-function", "call to undefined function %q", callee.Name)
		for _, a := range n.Args {
			s.checkExpr(a)
		}
		result := NewBasicType(TInt)
		n.SetType(result)
		callee.SetType(result)
		return result
	}
	callee.IsFunction = true
	callee.SetType(fn.ReturnType)

	if fn.IsVariadic {
		if len(n.Args) < len(fn.Params) {
			s.errorf(n.SourceSpan(), "sema.argcount", "%q expects at least %d arguments, got %d", fn.Name, len(fn.Params), len(n.Args))
		}
	} else if len(n.Args) != len(fn.Params) {
		s.errorf(n.SourceSpan(), "sema.argcount", "%q expects %d arguments, got %d", fn.Name, len(fn.Params), len(n.Args))
	}

	for i, arg := range n.Args {
		if i < len(fn.Params) {
			n.Args[i] = s.assignCheck(fn.Params[i].ResolvedType, arg, false)
		} else {
			s.checkExpr(arg)
		}
	}

	if fn.Name == "calloc" && len(n.Args) == 2 {
		if _, ok := n.Args[1].(*SizeofTypeExpr); !ok {
			s.errorf(n.SourceSpan(), "sema.bad-calloc", "calloc's second argument must be sizeof(type)")
		}
	}

	n.SetType(fn.ReturnType)
	return fn.ReturnType
}

// checkVarargsBuiltin recognises va_start/va_end/__builtin_va_arg by
// name (spec §4.5 "Function calls" and §4.1's va_arg rewrite) rather
// than requiring them to resolve through the ordinary function table,
// since no C source in this dialect ever declares a prototype for
// them. It reports (result, true) when callee named one of these
// pseudo-functions, (nil, false) otherwise so checkCall falls through
// to the regular path.
func (s *Sema) checkVarargsBuiltin(n *CallExpr, callee *IdentifierExpr) (*TypeSpecifier, bool) {
	switch callee.Name {
	case "va_start":
		if len(n.Args) != 2 {
			s.errorf(n.SourceSpan(), "sema.argcount", "va_start expects 2 arguments, got %d", len(n.Args))
		}
		for _, a := range n.Args {
			s.checkExpr(a)
		}
		result := NewBasicType(TVoid)
		n.SetType(result)
		callee.SetType(result)
		return result, true
	case "va_end":
		if len(n.Args) != 1 {
			s.errorf(n.SourceSpan(), "sema.argcount", "va_end expects 1 argument, got %d", len(n.Args))
		}
		for _, a := range n.Args {
			s.checkExpr(a)
		}
		result := NewBasicType(TVoid)
		n.SetType(result)
		callee.SetType(result)
		return result, true
	case "__builtin_va_arg":
		if len(n.Args) != 2 {
			s.errorf(n.SourceSpan(), "sema.argcount", "va_arg expects 2 arguments, got %d", len(n.Args))
			for _, a := range n.Args {
				s.checkExpr(a)
			}
			result := NewBasicType(TInt)
			n.SetType(result)
			callee.SetType(result)
			return result, true
		}
		s.checkExpr(n.Args[0])
		s.checkExpr(n.Args[1])
		var result *TypeSpecifier
		if lit, isSizeofType := n.Args[1].(*SizeofTypeExpr); isSizeofType {
			result = lit.Resolved
		}
		if result == nil {
			s.errorf(n.SourceSpan(), "sema.bad-va-arg", "va_arg's second argument must be a type")
			result = NewBasicType(TInt)
		}
		n.SetType(result)
		callee.SetType(result)
		return result, true
	default:
		return nil, false
	}
}

// checkSizeofExpr implements spec §4.5's "sizeof expr" rule: the
// operand must be an identifier of array type, or `*arr` (array
// dereference); a raw pointer dereference is rejected. The node's
// ComputedValue is set to ComputeArraySize's product-of-dimensions
// result (1 for the degenerate `sizeof *arr` case), matching
// SizeofExpr's own doc comment.
func (s *Sema) checkSizeofExpr(n *SizeofExpr) *TypeSpecifier {
	s.checkExpr(n.Operand)
	n.ComputedValue = 1

	switch operand := n.Operand.(type) {
	case *IdentifierExpr:
		if operand.ResolvedDecl == nil || operand.ResolvedDecl.ResolvedType == nil ||
			operand.ResolvedDecl.ResolvedType.Canonical().Kind != KindArray {
			s.errorf(n.SourceSpan(), "sema.bad-sizeof", "sizeof expr requires an identifier of array type")
		} else if size := ComputeArraySize(operand.ResolvedDecl.ResolvedType); size != notConstantArraySize {
			n.ComputedValue = int64(size)
		}
	case *UnaryExpr:
		if operand.Op != "*" {
			s.errorf(n.SourceSpan(), "sema.bad-sizeof", "sizeof expr requires an array identifier or an array dereference")
			break
		}
		inner, ok := operand.Operand.(*IdentifierExpr)
		if !ok || inner.ResolvedDecl == nil || inner.ResolvedDecl.ResolvedType == nil ||
			inner.ResolvedDecl.ResolvedType.Canonical().Kind != KindArray {
			s.errorf(n.SourceSpan(), "sema.bad-sizeof", "sizeof * requires an array dereference, not a raw pointer")
		} else if child := inner.ResolvedDecl.ResolvedType.Canonical().Child; child != nil {
			// *arr strips one dimension off arr's array type; the
			// degenerate single-dimension case leaves ComputedValue
			// at its 1 default since ComputeArraySize(child) returns
			// notConstantArraySize for a non-array leaf.
			if size := ComputeArraySize(child); size != notConstantArraySize {
				n.ComputedValue = int64(size)
			}
		}
	default:
		s.errorf(n.SourceSpan(), "sema.bad-sizeof", "sizeof expr requires an array identifier or an array dereference")
	}

	result := NewBasicType(TInt)
	n.SetType(result)
	return result
}

// checkIndex implements spec §4.5's "Array subscript".
func (s *Sema) checkIndex(n *IndexExpr) *TypeSpecifier {
	baseType := s.checkExpr(n.Base)
	bc := baseType.Canonical()
	if bc == nil || (bc.Kind != KindArray && bc.Kind != KindPointer) {
		s.errorf(n.SourceSpan(), "sema.bad-subscript", "subscript requires an array or pointer, got %s", baseType)
		n.Index = s.assignCheck(NewBasicType(TInt), n.Index, false)
		result := NewBasicType(TInt)
		n.SetType(result)
		return result
	}
	n.Index = s.assignCheck(NewBasicType(TInt), n.Index, false)
	n.SetType(bc.Child)
	return bc.Child
}

// checkMember implements spec §4.5's "Member access".
func (s *Sema) checkMember(n *MemberExpr) *TypeSpecifier {
	baseType := s.checkExpr(n.Base)
	bc := baseType.Canonical()

	var structType *TypeSpecifier
	if n.Arrow {
		if bc == nil || bc.Kind != KindPointer {
			s.errorf(n.SourceSpan(), "sema.bad-member", "'->' requires a pointer base")
			result := NewBasicType(TInt)
			n.SetType(result)
			return result
		}
		structType = bc.Child.Canonical()
	} else {
		if bc != nil && bc.Kind == KindPointer {
			s.errorf(n.SourceSpan(), "sema.bad-member", "'.' used on a pointer base; use '->' instead")
		}
		structType = bc
	}

	if structType == nil || structType.Kind != KindNamed || (structType.Basic != TStruct && structType.Basic != TUnion) {
		s.errorf(n.SourceSpan(), "sema.bad-member", "member access requires a struct or union, got %s", baseType)
		result := NewBasicType(TInt)
		n.SetType(result)
		return result
	}

	for _, m := range structType.Members {
		if m.Name == n.Member {
			n.SetType(m.ResolvedType)
			return m.ResolvedType
		}
	}
	s.errorf(n.SourceSpan(), "sema.unknown-member", "%s has no member %q", structType, n.Member)
	result := NewBasicType(TInt)
	n.SetType(result)
	return result
}

// checkTernary implements spec §4.5's "Ternary" rule.
func (s *Sema) checkTernary(n *TernaryExpr) *TypeSpecifier {
	n.Cond = s.checkCondition(n.Cond)
	thenType := s.checkExpr(n.Then)
	elseType := s.checkExpr(n.Else)

	switch {
	case isNullPointerType(thenType) && elseType.Canonical() != nil && elseType.Canonical().Kind == KindPointer:
		n.Then.SetType(elseType)
		n.SetType(elseType)
		return elseType
	case isNullPointerType(elseType) && thenType.Canonical() != nil && thenType.Canonical().Kind == KindPointer:
		n.Else.SetType(thenType)
		n.SetType(thenType)
		return thenType
	case StructurallyEqual(thenType, elseType):
		n.SetType(thenType)
		return thenType
	case CanMixForArithmetic(thenType, elseType):
		result := BinaryPromoted(thenType, elseType)
		if !StructurallyEqual(result, thenType.Canonical()) {
			n.Then = wrapImplicitCast(n.Then, result)
		}
		if !StructurallyEqual(result, elseType.Canonical()) {
			n.Else = wrapImplicitCast(n.Else, result)
		}
		n.SetType(result)
		return result
	default:
		s.errorf(n.SourceSpan(), "sema.ternary-mismatch", "ternary branches have incompatible types %s and %s", thenType, elseType)
		n.SetType(thenType)
		return thenType
	}
}

// assignCheck implements spec §4.5's "Assignment" type-check, used
// for plain/compound assignment, initialisers, return values, and
// call arguments alike. It returns the (possibly cast-wrapped) value
// expression the caller should store back in place of its original
// argument.
func (s *Sema) assignCheck(target *TypeSpecifier, value Expr, allowNarrowing bool) Expr {
	if target == nil || value == nil {
		if value != nil {
			s.checkExpr(value)
		}
		return value
	}

	if list, ok := value.(*InitializerList); ok {
		for _, el := range list.Elements {
			s.checkExpr(el)
		}
		list.SetType(target)
		return list
	}

	valueType := s.checkExpr(value)
	if valueType == nil {
		return value
	}
	tc, vc := target.Canonical(), valueType.Canonical()
	if tc == nil || vc == nil {
		return value
	}

	// 1. Pointer-target / void-pointer propagation / array decay.
	if tc.Kind == KindPointer && isNullPointerType(valueType) {
		value.SetType(target)
		return value
	}
	effective := valueType
	if vc.Kind == KindArray && tc.Kind == KindPointer {
		effective = WrapPointer(vc.Child, 1)
		vc = effective.Canonical()
	}

	// 2. Same-type (after decay) accept.
	if Compatible(target, effective) {
		return value
	}

	// 3. Enum handling.
	tIsEnum := tc.Kind == KindNamed && tc.Basic == TEnum
	vIsEnum := vc.Kind == KindNamed && vc.Basic == TEnum
	if tIsEnum && vIsEnum {
		if tc.Identity.Name != vc.Identity.Name {
			s.errorf(value.SourceSpan(), "sema.enum-mismatch", "cannot assign %s to %s", valueType, target)
		}
		return value
	}
	if tIsEnum || vIsEnum {
		return value // enum<->int accepted
	}

	// 4. Numeric.
	if tc.Kind == KindBasic && vc.Kind == KindBasic && isArithmeticBasic(tc.Basic) && isArithmeticBasic(vc.Basic) {
		return s.assignNumeric(target, tc, value, vc, allowNarrowing)
	}

	// Pointer assignment where only one side is void* (the other
	// branch of rule 1, for non-NULL pointer expressions).
	if tc.Kind == KindPointer && vc.Kind == KindPointer {
		if isBasicTagged(tc.Child, TVoid) {
			return value
		}
		if isBasicTagged(vc.Child, TVoid) {
			value.SetType(target)
			return value
		}
	}

	s.errorf(value.SourceSpan(), "sema.type-mismatch", "cannot assign %s to %s", valueType, target)
	return value
}

// isSmallIntegral reports whether b is one of char/short/int (in
// either signedness): the VM's stack machine stores all three as a
// single int-sized word, so conversions within this group never need
// a cast, per the original's cs_type_assignment_compatible (only a
// long/float/double crossing that group ever builds a cast node).
func isSmallIntegral(b BasicType) bool {
	return b == TChar || b == TShort || b == TInt
}

func (s *Sema) assignNumeric(target, tc *TypeSpecifier, value Expr, vc *TypeSpecifier, allowNarrowing bool) Expr {
	if isSmallIntegral(tc.Basic) && isSmallIntegral(vc.Basic) {
		return value
	}

	if lv, ok := value.ConstantValue(); ok && isIntegralBasic(tc.Basic) && ValueFitsIn(lv, tc.Basic, tc.IsUnsigned) {
		return wrapImplicitCast(value, target)
	}

	sameWidthSignMismatch := tc.Basic == vc.Basic && tc.IsUnsigned != vc.IsUnsigned
	if sameWidthSignMismatch {
		return value // accept silently: identical bit pattern at the target width
	}

	targetRank, valueRank := basicRank(tc.Basic), basicRank(vc.Basic)
	if targetRank > valueRank {
		return wrapImplicitCast(value, target)
	}
	if targetRank == valueRank {
		return value
	}

	// Narrowing.
	if allowNarrowing {
		return wrapImplicitCast(value, target)
	}
	if lv, ok := value.ConstantValue(); ok && ValueFitsIn(lv, tc.Basic, tc.IsUnsigned) {
		return wrapImplicitCast(value, target)
	}
	s.errorf(value.SourceSpan(), "sema.narrowing", "implicit narrowing conversion from %s to %s requires an explicit cast", vc, tc)
	return value
}

func wrapImplicitCast(value Expr, target *TypeSpecifier) Expr {
	return NewCastExpr(target, value, true, value.SourceSpan())
}
