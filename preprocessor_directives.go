package cminor

import (
	"strconv"
	"strings"
)

// handleDirective is invoked by readChar the moment it sees a `#` at
// the start of a logical line; it consumes the entire directive line
// and produces no output characters itself (spec §4.1 rule 4).
func (p *Preprocessor) handleDirective(f *sourceFrame) error {
	f.advance() // consume '#'
	line := p.consumeRestOfLine(f)
	p.atLineStart = true

	line = strings.TrimSpace(line)
	if line == "" {
		return nil // a lone '#' is a null directive, silently ignored
	}

	word, rest := splitFirstWord(line)
	switch word {
	case "include":
		return p.directiveInclude(rest)
	case "define":
		return p.directiveDefine(rest)
	case "undef":
		delete(p.macros, strings.TrimSpace(rest))
		return nil
	case "if":
		return p.directiveIf(rest)
	case "ifdef":
		_, defined := p.macros[strings.TrimSpace(rest)]
		return p.pushConditional(defined)
	case "ifndef":
		_, defined := p.macros[strings.TrimSpace(rest)]
		return p.pushConditional(!defined)
	case "elif":
		return p.directiveElif(rest)
	case "else":
		return p.directiveElse()
	case "endif":
		return p.directiveEndif()
	case "line":
		return p.directiveLine(rest)
	case "pragma":
		return nil // deliberately ignored, per spec §4.1
	default:
		return nil // unknown directive: silently consumed, per spec §4.1 "Errors"
	}
}

func (p *Preprocessor) consumeRestOfLine(f *sourceFrame) string {
	var b strings.Builder
	for {
		c := f.peek()
		if c == eof || c == '\n' {
			break
		}
		if c == '\\' && f.peekAt(1) == '\n' {
			f.advance()
			f.advance()
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(byte(c))
		f.advance()
	}
	if f.peek() == '\n' {
		f.advance()
	}
	return b.String()
}

func splitFirstWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && (isIdentRune(rune(s[i])) ) {
		i++
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func (p *Preprocessor) directiveInclude(rest string) error {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return p.errorf("malformed #include directive")
	}
	quoted := rest[0] == '"'
	var target string
	if quoted {
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return p.errorf("unterminated #include target")
		}
		target = rest[1 : 1+end]
	} else if rest[0] == '<' {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return p.errorf("unterminated #include target")
		}
		target = rest[1:end]
	} else {
		return p.errorf("malformed #include directive")
	}

	if !p.conditionalActive() {
		return nil
	}

	dir := ""
	if f := p.currentFrame(); f != nil {
		dir = f.dir
	}
	resolved, err := p.resolver.Resolve(target, quoted, dir)
	path, isEmbedded := target, false
	if err == nil {
		path, isEmbedded = resolved.Path, resolved.IsEmbedded
	}
	p.deps = append(p.deps, includeDependency{Path: path, Quoted: quoted, IsEmbedded: isEmbedded})
	return nil
}

// directiveDefine implements `#define NAME[(P1,…,Pn[,…])] body`, per
// spec §4.1: function-like iff '(' immediately follows the name with
// no intervening space, variadic iff the parameter list ends in `…`
// (spelled `...` in source).
func (p *Preprocessor) directiveDefine(rest string) error {
	if !p.conditionalActive() {
		return nil
	}
	i := 0
	for i < len(rest) && isIdentRune(rune(rest[i])) {
		i++
	}
	name := rest[:i]
	if name == "" {
		return p.errorf("malformed #define: missing macro name")
	}

	m := &macro{name: name}
	if i < len(rest) && rest[i] == '(' {
		m.isFunction = true
		close := strings.IndexByte(rest[i:], ')')
		if close < 0 {
			return p.errorf("unterminated macro parameter list")
		}
		paramList := rest[i+1 : i+close]
		for _, raw := range strings.Split(paramList, ",") {
			param := strings.TrimSpace(raw)
			if param == "" {
				continue
			}
			if param == "..." {
				m.isVariadic = true
				continue
			}
			m.params = append(m.params, param)
		}
		m.body = strings.TrimSpace(rest[i+close+1:])
	} else {
		m.body = strings.TrimSpace(rest[i:])
	}
	p.macros[name] = m
	return nil
}

func (p *Preprocessor) pushConditional(predicate bool) error {
	parentActive := p.conditionalActive()
	p.conditionals = append(p.conditionals, &conditionalFrame{
		active:         parentActive && predicate,
		seenTrueBranch: predicate,
		parentActive:   parentActive,
	})
	return nil
}

func (p *Preprocessor) directiveIf(rest string) error {
	value, err := p.evalIfExpr(rest)
	if err != nil {
		return err
	}
	return p.pushConditional(value != 0)
}

func (p *Preprocessor) directiveElif(rest string) error {
	if len(p.conditionals) == 0 {
		return p.errorf("#elif without #if")
	}
	top := p.conditionals[len(p.conditionals)-1]
	if top.inElse || top.seenTrueBranch {
		top.active = false
		return nil
	}
	value, err := p.evalIfExpr(rest)
	if err != nil {
		return err
	}
	top.active = top.parentActive && value != 0
	if top.active {
		top.seenTrueBranch = true
	}
	return nil
}

func (p *Preprocessor) directiveElse() error {
	if len(p.conditionals) == 0 {
		return p.errorf("#else without #if")
	}
	top := p.conditionals[len(p.conditionals)-1]
	top.inElse = true
	top.active = top.parentActive && !top.seenTrueBranch
	if top.active {
		top.seenTrueBranch = true
	}
	return nil
}

func (p *Preprocessor) directiveEndif() error {
	if len(p.conditionals) == 0 {
		return p.errorf("#endif without #if")
	}
	p.conditionals = p.conditionals[:len(p.conditionals)-1]
	return nil
}

func (p *Preprocessor) directiveLine(rest string) error {
	word, rest := splitFirstWord(rest)
	n, err := strconv.Atoi(word)
	if err != nil {
		return p.errorf("malformed #line directive")
	}
	f := p.currentFrame()
	if f == nil {
		return nil
	}
	f.logicalLine = n
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "\"") {
		if end := strings.IndexByte(rest[1:], '"'); end >= 0 {
			f.logicalPath = rest[1 : 1+end]
		}
	}
	return nil
}
