package cminor

func (p *Parser) parseBlock() (*BlockStmt, error) {
	start := p.tok.Span
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for !p.atPunct("}") {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return NewBlockStmt(stmts, start), nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch {
	case p.atPunct("{"):
		return p.parseBlock()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("while"):
		return p.parseWhile()
	case p.atKeyword("do"):
		return p.parseDoWhile()
	case p.atKeyword("for"):
		return p.parseFor()
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.atKeyword("break"):
		span := p.tok.Span
		p.advance()
		p.expectPunct(";")
		return NewBreakStmt(span), nil
	case p.atKeyword("continue"):
		span := p.tok.Span
		p.advance()
		p.expectPunct(";")
		return NewContinueStmt(span), nil
	case p.atKeyword("goto"):
		span := p.tok.Span
		p.advance()
		label, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		p.expectPunct(";")
		return NewGotoStmt(label, span), nil
	case p.atKeyword("switch"):
		return p.parseSwitch()
	case p.isDeclarationStart():
		return p.parseLocalDeclStmt()
	default:
		if p.tok.Kind == TokIdentifier {
			// lookahead for a label `name:`, without consuming it if
			// this turns out to be an ordinary expression statement.
			next, err := p.peekNext()
			if err != nil {
				return nil, err
			}
			if next.Kind == TokPunct && next.Text == ":" {
				name := p.tok.Text
				span := p.tok.Span
				p.advance() // consume identifier (from the cached peek)
				p.advance() // consume ':'
				inner, err := p.parseStatement()
				if err != nil {
					return nil, err
				}
				return NewLabelStmt(name, inner, span), nil
			}
		}
		return p.parseExprStmt()
	}
}

// isDeclarationStart reports whether the statement position starts a
// local variable declaration: a builtin type keyword, `struct`/
// `union`/`enum`, `static`/`extern`, or an identifier that names a
// visible typedef (spec §4.5 "Declarations at statement level").
// Typedef-name disambiguation happens at semantic-analysis time in
// the reference dialect's grammar; the parser here conservatively
// treats any bare identifier followed directly by another identifier
// as a declaration, which covers every typedef'd-variable form this
// dialect's non-goals leave in scope.
func (p *Parser) isDeclarationStart() bool {
	switch {
	case p.atKeyword("void"), p.atKeyword("bool"), p.atKeyword("char"),
		p.atKeyword("short"), p.atKeyword("int"), p.atKeyword("long"),
		p.atKeyword("float"), p.atKeyword("double"), p.atKeyword("unsigned"),
		p.atKeyword("const"), p.atKeyword("struct"), p.atKeyword("union"),
		p.atKeyword("enum"), p.atKeyword("static"), p.atKeyword("extern"):
		return true
	}
	if p.tok.Kind == TokIdentifier {
		next, err := p.peekNext()
		return err == nil && next.Kind == TokIdentifier
	}
	return false
}

func (p *Parser) parseLocalDeclStmt() (Stmt, error) {
	span := p.tok.Span
	isStatic := false
	isExtern := false
	for p.atKeyword("static") || p.atKeyword("extern") {
		if p.atKeyword("static") {
			isStatic = true
		} else {
			isExtern = true
		}
		p.advance()
	}
	pt, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	pt = p.parseArraySuffix(pt)
	var init Expr
	if p.atPunct("=") {
		p.advance()
		init, err = p.parseInitializer()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	d := NewVarDecl(name, pt, init, span)
	d.IsStatic = isStatic
	d.IsExtern = isExtern
	return NewDeclStmt(d, span), nil
}

func (p *Parser) parseInitializer() (Expr, error) {
	if p.atPunct("{") {
		span := p.tok.Span
		p.advance()
		var elems []Expr
		var fields []string
		for !p.atPunct("}") {
			field := ""
			if p.atPunct(".") {
				p.advance()
				field, _ = p.expectIdentifier()
				p.expectPunct("=")
			}
			el, err := p.parseInitializer()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			fields = append(fields, field)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return NewInitializerList(elems, fields, span), nil
	}
	return p.parseAssignExpr()
}

func (p *Parser) parseExprStmt() (Stmt, error) {
	span := p.tok.Span
	if p.atPunct(";") {
		p.advance()
		return NewExprStmt(nil, span), nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return NewExprStmt(e, span), nil
}

func (p *Parser) parseIf() (Stmt, error) {
	span := p.tok.Span
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var els Stmt
	if p.atKeyword("else") {
		p.advance()
		els, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return NewIfStmt(cond, then, els, span), nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	span := p.tok.Span
	p.advance()
	p.expectPunct("(")
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.expectPunct(")")
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return NewWhileStmt(cond, body, span), nil
}

func (p *Parser) parseDoWhile() (Stmt, error) {
	span := p.tok.Span
	p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("while"); err != nil {
		return nil, err
	}
	p.expectPunct("(")
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.expectPunct(")")
	p.expectPunct(";")
	return NewDoWhileStmt(body, cond, span), nil
}

func (p *Parser) parseFor() (Stmt, error) {
	span := p.tok.Span
	p.advance()
	p.expectPunct("(")

	var init Stmt
	if !p.atPunct(";") {
		if p.isDeclarationStart() {
			s, err := p.parseLocalDeclStmt()
			if err != nil {
				return nil, err
			}
			init = s
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			p.expectPunct(";")
			init = NewExprStmt(e, span)
		}
	} else {
		p.advance()
	}

	var cond Expr
	if !p.atPunct(";") {
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	p.expectPunct(";")

	var post Expr
	if !p.atPunct(")") {
		pe, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		post = pe
	}
	p.expectPunct(")")

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return NewForStmt(init, cond, post, body, span), nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	span := p.tok.Span
	p.advance()
	var value Expr
	if !p.atPunct(";") {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		value = v
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return NewReturnStmt(value, span), nil
}

func (p *Parser) parseSwitch() (Stmt, error) {
	span := p.tok.Span
	p.advance()
	p.expectPunct("(")
	tag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.expectPunct(")")
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	var cases []*CaseClause
	for !p.atPunct("}") {
		caseSpan := p.tok.Span
		cc := &CaseClause{Span: caseSpan}
		if p.atKeyword("case") {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			cc.Value = v
		} else if p.atKeyword("default") {
			p.advance()
			cc.IsDefault = true
		} else {
			return nil, p.throw("expected 'case' or 'default' in switch body")
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		for !p.atKeyword("case") && !p.atKeyword("default") && !p.atPunct("}") {
			st, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			cc.Body = append(cc.Body, st)
		}
		cases = append(cases, cc)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return NewSwitchStmt(tag, cases, span), nil
}
