package cminor

import "fmt"

// Parser is a hand-written recursive-descent/Pratt parser that turns
// a preprocessed token stream into the AST node set of ast.go/
// ast_stmt.go/ast_expr.go, registering finalised declarations into
// the current TU's FileDecl as it goes — the "creator constructors"
// and "registers declarations into the current translation-unit
// context" abstraction spec §1 calls out as the grammar's external
// contract. Its cursor is grounded on the teacher's BaseParser
// (base_parser.go), generalized from a rune cursor over raw source to
// a token cursor over preprocessed tokens; it keeps one token of
// lookahead (peekNext) and never saves or restores its position.
type Parser struct {
	lx     *Lexer
	tok    Token
	peeked *Token
	file   *FileDecl
	log    *Log
	path   string
}

func NewParser(lx *Lexer, file *FileDecl, log *Log, path string) (*Parser, error) {
	p := &Parser{lx: lx, file: file, log: log, path: path}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// peekNext returns the token after the current one without consuming
// it, caching it so the following advance() call doesn't re-read the
// stream. One-token-of-lookahead label disambiguation (`name:` vs. a
// bare expression statement) uses this instead of a full
// save/restore, since the preprocessor's character stream cannot be
// rewound once macro expansion has consumed from it.
func (p *Parser) peekNext() (Token, error) {
	if p.peeked == nil {
		t, err := p.lx.Next()
		if err != nil {
			return Token{}, err
		}
		p.peeked = &t
	}
	return *p.peeked, nil
}

func (p *Parser) advance() error {
	if p.peeked != nil {
		p.tok = *p.peeked
		p.peeked = nil
		return nil
	}
	t, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *Parser) at(kind TokenKind, text string) bool {
	return p.tok.Kind == kind && (text == "" || p.tok.Text == text)
}

func (p *Parser) atKeyword(kw string) bool { return p.at(TokKeyword, kw) }
func (p *Parser) atPunct(s string) bool    { return p.at(TokPunct, s) }

func (p *Parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return p.throw(fmt.Sprintf("expected %q but found %s", s, p.tok))
	}
	return p.advance()
}

func (p *Parser) expectKeyword(s string) error {
	if !p.atKeyword(s) {
		return p.throw(fmt.Sprintf("expected keyword %q but found %s", s, p.tok))
	}
	return p.advance()
}

func (p *Parser) expectIdentifier() (string, error) {
	if p.tok.Kind != TokIdentifier {
		return "", p.throw(fmt.Sprintf("expected identifier but found %s", p.tok))
	}
	name := p.tok.Text
	return name, p.advance()
}

func (p *Parser) throw(msg string) error {
	return ParsingError{Message: msg, Path: p.path, Span: p.tok.Span}
}

// ParseTranslationUnit parses every top-level declaration until EOF,
// registering each into the parser's FileDecl (spec §4.4 step 3) and
// returning the accumulated top-level statement/declaration list the
// driver folds into the compilation context.
func (p *Parser) ParseTranslationUnit() ([]Decl, error) {
	var decls []Decl
	for p.tok.Kind != TokEOF {
		d, err := p.parseTopLevel()
		if err != nil {
			return decls, err
		}
		if d != nil {
			decls = append(decls, d)
		}
	}
	return decls, nil
}

func (p *Parser) parseTopLevel() (Decl, error) {
	if p.atKeyword("typedef") {
		return p.parseTypedef()
	}
	if p.atKeyword("struct") || p.atKeyword("union") {
		return p.parseStructOrUnionDecl(false)
	}
	if p.atKeyword("enum") {
		return p.parseEnumDecl(false)
	}

	isStatic := false
	isExtern := false
	for p.atKeyword("static") || p.atKeyword("extern") {
		if p.atKeyword("static") {
			isStatic = true
		} else {
			isExtern = true
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	pt, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	if p.atPunct("(") {
		return p.parseFunctionRest(name, pt, isStatic)
	}

	pt = p.parseArraySuffix(pt)
	var init Expr
	if p.atPunct("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		init, err = p.parseInitializer()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	decl := NewVarDecl(name, pt, init, p.tok.Span)
	decl.IsStatic = isStatic
	decl.IsExtern = isExtern
	decl.OwningClass = p.file.ClassName
	decl.SourcePath = p.path
	p.file.AddExtern(decl)
	return decl, nil
}

func (p *Parser) parseFunctionRest(name string, ret *ParsedType, isStatic bool) (Decl, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var params []*ParamDecl
	variadic := false
	for !p.atPunct(")") {
		if p.atPunct("...") {
			variadic = true
			if err := p.advance(); err != nil {
				return nil, err
			}
			break
		}
		ppt, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		pname := ""
		if p.tok.Kind == TokIdentifier {
			pname = p.tok.Text
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		ppt = p.parseArraySuffix(ppt)
		params = append(params, &ParamDecl{Name: pname, ParsedType: ppt})
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	var body *BlockStmt
	if p.atPunct("{") {
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		body = b
	} else {
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}

	fn := NewFunctionDecl(name, ret, params, variadic, body, p.tok.Span)
	fn.IsStatic = isStatic
	p.file.AddFunction(fn)
	return fn, nil
}

// parseTypeSpec parses a base type name (a builtin keyword, or a
// struct/union/enum tag, or an identifier standing for a typedef
// name) followed by any number of `*` qualifiers, building the
// syntactic ParsedType spec §3 describes.
func (p *Parser) parseTypeSpec() (*ParsedType, error) {
	unsigned := false
	if p.atKeyword("unsigned") {
		unsigned = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.atKeyword("const") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var pt *ParsedType
	switch {
	case p.atKeyword("void"):
		pt = &ParsedType{Kind: KindBasic, Basic: TVoid}
		p.advance()
	case p.atKeyword("bool"):
		pt = &ParsedType{Kind: KindBasic, Basic: TBool}
		p.advance()
	case p.atKeyword("char"):
		pt = &ParsedType{Kind: KindBasic, Basic: TChar, IsUnsigned: unsigned}
		p.advance()
	case p.atKeyword("short"):
		pt = &ParsedType{Kind: KindBasic, Basic: TShort, IsUnsigned: unsigned}
		p.advance()
	case p.atKeyword("int"):
		pt = &ParsedType{Kind: KindBasic, Basic: TInt, IsUnsigned: unsigned}
		p.advance()
	case p.atKeyword("long"):
		pt = &ParsedType{Kind: KindBasic, Basic: TLong, IsUnsigned: unsigned}
		p.advance()
	case p.atKeyword("float"):
		pt = &ParsedType{Kind: KindBasic, Basic: TFloat}
		p.advance()
	case p.atKeyword("double"):
		pt = &ParsedType{Kind: KindBasic, Basic: TDouble}
		p.advance()
	case p.atKeyword("struct"), p.atKeyword("union"):
		isUnion := p.atKeyword("union")
		p.advance()
		tag := ""
		if p.tok.Kind == TokIdentifier {
			tag = p.tok.Text
			p.advance()
		}
		basic := TStruct
		if isUnion {
			basic = TUnion
		}
		pt = &ParsedType{Kind: KindNamed, Basic: basic, Name: tag}
	case p.atKeyword("enum"):
		p.advance()
		tag, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		pt = &ParsedType{Kind: KindNamed, Basic: TEnum, Name: tag}
	case p.tok.Kind == TokIdentifier:
		name := p.tok.Text
		p.advance()
		pt = &ParsedType{Kind: KindNamed, Basic: TTypedefName, Name: name, IsTypedef: true}
	default:
		return nil, p.throw(fmt.Sprintf("expected a type but found %s", p.tok))
	}

	for p.atPunct("*") {
		pt = &ParsedType{Kind: KindPointer, Child: pt, PointerDepth: 1}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return pt, nil
}

// parseArraySuffix wraps pt in Array ParsedTypes for each trailing
// `[expr]`/`[]` the declarator has.
func (p *Parser) parseArraySuffix(pt *ParsedType) *ParsedType {
	for p.atPunct("[") {
		p.advance()
		var size Expr
		if !p.atPunct("]") {
			size, _ = p.parseExpr()
		}
		p.expectPunct("]")
		pt = &ParsedType{Kind: KindArray, Child: pt, ArraySize: size}
	}
	return pt
}

func (p *Parser) parseTypedef() (Decl, error) {
	if err := p.advance(); err != nil { // consume 'typedef'
		return nil, err
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
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	td := &TypedefDefinition{Name: name, ParsedType: pt, SourcePath: p.path}
	p.file.AddTypedef(td)
	return td, nil
}

func (p *Parser) parseStructOrUnionDecl(anonOK bool) (Decl, error) {
	isUnion := p.atKeyword("union")
	if err := p.advance(); err != nil {
		return nil, err
	}
	tag := ""
	if p.tok.Kind == TokIdentifier {
		tag = p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var members []*StructMember
	if p.atPunct("{") {
		p.advance()
		for !p.atPunct("}") {
			mpt, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			mname, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			mpt = p.parseArraySuffix(mpt)
			if err := p.expectPunct(";"); err != nil {
				return nil, err
			}
			members = append(members, &StructMember{Name: mname, ParsedType: mpt})
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
	}

	anonIdx := 0
	if tag == "" {
		if isUnion {
			anonIdx = p.file.NextAnonStructIndex()
		} else {
			anonIdx = p.file.NextAnonStructIndex()
		}
	}
	identity := NewTypeIdentity(p.file.ClassName, p.file.IsHeader, tag, anonIdx)
	def := &StructDefinition{Identity: identity, IsUnion: isUnion, Members: members}
	p.file.AddStruct(def)

	if p.atPunct(";") {
		p.advance()
	}
	return def, nil
}

func (p *Parser) parseEnumDecl(anonOK bool) (Decl, error) {
	if err := p.advance(); err != nil { // consume 'enum'
		return nil, err
	}
	tag := ""
	if p.tok.Kind == TokIdentifier {
		tag = p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var members []*EnumMember
	if p.atPunct("{") {
		p.advance()
		next := int64(0)
		for !p.atPunct("}") {
			mname, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			value := next
			if p.atPunct("=") {
				p.advance()
				lit, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if v, ok := lit.ConstantValue(); ok {
					value = v
				}
			}
			members = append(members, &EnumMember{Name: mname, Value: value})
			next = value + 1
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
	}

	anonIdx := 0
	if tag == "" {
		anonIdx = p.file.NextAnonEnumIndex()
	}
	identity := NewTypeIdentity(p.file.ClassName, p.file.IsHeader, tag, anonIdx)
	def := &EnumDefinition{Identity: identity, Members: members}
	p.file.AddEnum(def)

	if p.atPunct(";") {
		p.advance()
	}
	return def, nil
}
