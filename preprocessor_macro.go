package cminor

import "strings"

// expandIdentifier is invoked by the lexer (preprocessor_token.go)
// whenever it reads a bare identifier: if it names a non-busy macro,
// the macro is expanded and true is returned so the lexer re-reads
// from the new expansion frame instead of emitting an identifier
// token; builtins (__FILE__, __LINE__) are handled inline without a
// macro-table entry, per spec §4.1 "Built-in macros".
func (p *Preprocessor) expandIdentifier(name string) (bool, error) {
	if name == "__FILE__" {
		path, _ := p.currentLogicalLocation()
		p.pushExpansion(&macro{name: "__FILE__"}, `"`+path+`"`)
		return true, nil
	}
	if name == "__LINE__" {
		_, line := p.currentLogicalLocation()
		p.pushExpansion(&macro{name: "__LINE__"}, itoa(line))
		return true, nil
	}
	if name == "va_arg" {
		return p.expandVaArg()
	}

	m, ok := p.macros[name]
	if !ok || p.isBusy(m) {
		return false, nil
	}

	var body string
	if m.isFunction {
		if p.peekNonBlank() != '(' {
			return false, nil
		}
		args, err := p.readMacroArguments()
		if err != nil {
			return false, err
		}
		body = p.substituteArguments(m, args)
	} else {
		body = m.body
	}
	p.pushExpansion(m, body)
	return true, nil
}

// expandVaArg rewrites `va_arg(ap, type)` to
// `__builtin_va_arg(ap, sizeof(type))`, per spec §4.1's built-in
// macro rule, so the declared type still reaches semantic analysis
// via a `sizeof` expression.
func (p *Preprocessor) expandVaArg() (bool, error) {
	if p.peekNonBlank() != '(' {
		return false, nil
	}
	args, err := p.readMacroArguments()
	if err != nil {
		return false, err
	}
	if len(args) != 2 {
		return false, p.errorf("va_arg expects 2 arguments, got %d", len(args))
	}
	body := "__builtin_va_arg(" + args[0] + ", sizeof(" + args[1] + "))"
	p.pushExpansion(&macro{name: "va_arg"}, body)
	return true, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

// peekNonBlank looks at the next meaningful character without
// consuming it, skipping only plain spaces/tabs so a function-like
// macro invocation can have whitespace before its `(`.
func (p *Preprocessor) peekNonBlank() int {
	if len(p.expansions) > 0 {
		top := p.expansions[len(p.expansions)-1]
		i := top.pos
		for i < len(top.text) && (top.text[i] == ' ' || top.text[i] == '\t') {
			i++
		}
		if i < len(top.text) {
			return int(top.text[i])
		}
	}
	f := p.currentFrame()
	if f == nil {
		return eof
	}
	i := f.pos
	for i < len(f.data) && (f.data[i] == ' ' || f.data[i] == '\t') {
		i++
	}
	if i >= len(f.data) {
		return eof
	}
	return int(f.data[i])
}

// readMacroArguments implements spec §4.1's "Macro argument
// parsing": reads from `(` to the matching `)`, splitting on
// top-level commas while respecting nested parens, quoted strings
// and char literals.
func (p *Preprocessor) readMacroArguments() ([]string, error) {
	c, err := p.readChar()
	if err != nil {
		return nil, err
	}
	for c == ' ' || c == '\t' {
		if c, err = p.readChar(); err != nil {
			return nil, err
		}
	}
	if c != '(' {
		return nil, p.errorf("expected '(' to start macro arguments")
	}

	var args []string
	var cur strings.Builder
	depth := 1
	for {
		c, err := p.readChar()
		if err != nil {
			return nil, err
		}
		if c == eof {
			return nil, p.errorf("unterminated macro argument list")
		}
		switch c {
		case '(':
			depth++
			cur.WriteByte(byte(c))
		case ')':
			depth--
			if depth == 0 {
				args = append(args, strings.TrimSpace(cur.String()))
				return args, nil
			}
			cur.WriteByte(byte(c))
		case ',':
			if depth == 1 {
				args = append(args, strings.TrimSpace(cur.String()))
				cur.Reset()
			} else {
				cur.WriteByte(byte(c))
			}
		case '"', '\'':
			cur.WriteByte(byte(c))
			quote := c
			for {
				c, err := p.readChar()
				if err != nil {
					return nil, err
				}
				if c == eof {
					return nil, p.errorf("unterminated string/char literal in macro argument")
				}
				cur.WriteByte(byte(c))
				if c == '\\' {
					if c2, err := p.readChar(); err == nil && c2 != eof {
						cur.WriteByte(byte(c2))
					}
					continue
				}
				if c == quote {
					break
				}
			}
		default:
			cur.WriteByte(byte(c))
		}
	}
}

// substituteArguments implements spec §4.1's "Argument substitution":
// parameter-name tokens in the body are replaced by the matching
// argument text; `__VA_ARGS__` becomes the comma-joined variadic
// tail; adjacent identifier-like tokens are joined with a single
// space to block accidental fusion.
func (p *Preprocessor) substituteArguments(m *macro, args []string) string {
	paramValue := make(map[string]string, len(m.params))
	for i, name := range m.params {
		if i < len(args) {
			paramValue[name] = args[i]
		}
	}
	variadic := ""
	if m.isVariadic && len(args) > len(m.params) {
		variadic = strings.Join(args[len(m.params):], ", ")
	}

	var out strings.Builder
	lastWasIdent := false
	for _, tok := range splitIdentLikeTokens(m.body) {
		replacement := tok
		identLike := isIdentToken(tok)
		if identLike {
			if tok == "__VA_ARGS__" {
				replacement = variadic
			} else if v, ok := paramValue[tok]; ok {
				replacement = v
			}
		}
		if lastWasIdent && identLike && replacement != "" {
			out.WriteByte(' ')
		}
		out.WriteString(replacement)
		if replacement != "" {
			lastWasIdent = identLike
		}
	}
	return out.String()
}

func isIdentToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !isIdentRune(r) {
			return false
		}
	}
	return !(tok[0] >= '0' && tok[0] <= '9')
}

// splitIdentLikeTokens performs the minimal tokenisation substitution
// needs: runs of identifier characters form one token, everything
// else passes through as single-character tokens (punctuation and
// whitespace are never parameter names, so they never need
// replacing).
func splitIdentLikeTokens(body string) []string {
	var toks []string
	i := 0
	for i < len(body) {
		if isIdentRune(rune(body[i])) && !(body[i] >= '0' && body[i] <= '9') {
			j := i
			for j < len(body) && isIdentRune(rune(body[j])) {
				j++
			}
			toks = append(toks, body[i:j])
			i = j
		} else {
			toks = append(toks, string(body[i]))
			i++
		}
	}
	return toks
}
