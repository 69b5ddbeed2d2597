package cminor

import "fmt"

// Visitor is the full double-dispatch interface every AST node
// accepts into, grounded on the teacher's AstNodeVisitor
// (grammar_ast_visitor.go) and generalized from PEG grammar nodes to
// Cminor's declaration/statement/expression kinds. The semantic
// analyser (sema.go) does not use it: it walks the tree with its own
// checkStmt/checkExpr methods. Anything that just needs a read-only
// pass (e.g. a pretty-printer) can implement Visitor directly.
type Visitor interface {
	VisitVarDecl(*VarDecl) error
	VisitFunctionDecl(*FunctionDecl) error
	VisitStructDefinition(*StructDefinition) error
	VisitEnumDefinition(*EnumDefinition) error
	VisitTypedefDefinition(*TypedefDefinition) error

	VisitBlockStmt(*BlockStmt) error
	VisitExprStmt(*ExprStmt) error
	VisitDeclStmt(*DeclStmt) error
	VisitIfStmt(*IfStmt) error
	VisitWhileStmt(*WhileStmt) error
	VisitDoWhileStmt(*DoWhileStmt) error
	VisitForStmt(*ForStmt) error
	VisitReturnStmt(*ReturnStmt) error
	VisitBreakStmt(*BreakStmt) error
	VisitContinueStmt(*ContinueStmt) error
	VisitGotoStmt(*GotoStmt) error
	VisitLabelStmt(*LabelStmt) error
	VisitSwitchStmt(*SwitchStmt) error

	VisitIntLiteral(*IntLiteral) error
	VisitFloatLiteral(*FloatLiteral) error
	VisitCharLiteral(*CharLiteral) error
	VisitStringLiteral(*StringLiteral) error
	VisitBoolLiteral(*BoolLiteral) error
	VisitNullLiteral(*NullLiteral) error
	VisitIdentifierExpr(*IdentifierExpr) error
	VisitUnaryExpr(*UnaryExpr) error
	VisitAddressOfExpr(*AddressOfExpr) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitLogicalExpr(*LogicalExpr) error
	VisitAssignExpr(*AssignExpr) error
	VisitCallExpr(*CallExpr) error
	VisitSizeofTypeExpr(*SizeofTypeExpr) error
	VisitSizeofExpr(*SizeofExpr) error
	VisitIndexExpr(*IndexExpr) error
	VisitMemberExpr(*MemberExpr) error
	VisitTernaryExpr(*TernaryExpr) error
	VisitCastExpr(*CastExpr) error
	VisitInitializerList(*InitializerList) error
}

// Inspect traverses an AST in depth-first order, calling f for each
// node. If f returns false, Inspect skips that node's children.
// Grounded on the teacher's Inspect (grammar_ast_visitor.go): same
// single type-switch shape, generalized to Cminor's node set, with
// the PEG grammar's cycle guard dropped since this AST is a tree, not
// a graph that can alias back on itself (a Named type's Members are
// a slice alias, never an Expr/Stmt/Decl node).
func Inspect(node Node, f func(Node) bool) {
	if node == nil {
		return
	}
	if !f(node) {
		return
	}

	switch n := node.(type) {
	case *VarDecl:
		Inspect(exprOrNil(n.Initializer), f)

	case *FunctionDecl:
		if n.Body != nil {
			Inspect(n.Body, f)
		}

	case *StructDefinition, *EnumDefinition, *TypedefDefinition:
		// Leaf from the traversal's point of view: member/enum lists
		// are walked directly by sema's resolution passes, not via
		// this generic Inspect.

	case *BlockStmt:
		for _, st := range n.Stmts {
			Inspect(st, f)
		}

	case *ExprStmt:
		Inspect(n.Expr, f)

	case *DeclStmt:
		Inspect(n.Decl, f)

	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}

	case *WhileStmt:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)

	case *DoWhileStmt:
		Inspect(n.Body, f)
		Inspect(n.Cond, f)

	case *ForStmt:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
		Inspect(exprOrNil(n.Cond), f)
		Inspect(exprOrNil(n.Post), f)
		Inspect(n.Body, f)

	case *ReturnStmt:
		Inspect(exprOrNil(n.Value), f)

	case *BreakStmt, *ContinueStmt, *GotoStmt:
		// Leaf.

	case *LabelStmt:
		Inspect(n.Stmt, f)

	case *SwitchStmt:
		Inspect(n.Tag, f)
		for _, c := range n.Cases {
			if c.Value != nil {
				Inspect(c.Value, f)
			}
			for _, st := range c.Body {
				Inspect(st, f)
			}
		}

	case *UnaryExpr:
		Inspect(n.Operand, f)
	case *AddressOfExpr:
		Inspect(n.Operand, f)
	case *BinaryExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *LogicalExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *AssignExpr:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *CallExpr:
		Inspect(n.Callee, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *SizeofExpr:
		Inspect(n.Operand, f)
	case *IndexExpr:
		Inspect(n.Base, f)
		Inspect(n.Index, f)
	case *MemberExpr:
		Inspect(n.Base, f)
	case *TernaryExpr:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *CastExpr:
		Inspect(n.Operand, f)
	case *InitializerList:
		for _, el := range n.Elements {
			Inspect(el, f)
		}

	case *IntLiteral, *FloatLiteral, *CharLiteral, *StringLiteral,
		*BoolLiteral, *NullLiteral, *IdentifierExpr, *SizeofTypeExpr:
		// Leaf.

	default:
		panic(fmt.Sprintf("Inspect is missing a case for node type %T", n))
	}
}

func exprOrNil(e Expr) Node {
	if e == nil {
		return nil
	}
	return e
}
