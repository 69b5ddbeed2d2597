package cminor

import (
	"fmt"
	"strings"
)

// sourceFrame is one entry in the preprocessor's source stack: a
// byte buffer plus the bookkeeping needed for `#include`-relative
// resolution and for `__FILE__`/`__LINE__`/diagnostics, grounded on
// _examples/original_source/preprocessor.h's SourceFrame/ByteBuffer.
type sourceFrame struct {
	data        []byte
	pos         int
	path        string // the real path, used for #include resolution
	dir         string
	logicalPath string // what #line / __FILE__ report
	logicalLine int
}

func newSourceFrame(path, dir string, data []byte) *sourceFrame {
	return &sourceFrame{data: data, path: path, dir: dir, logicalPath: path, logicalLine: 1}
}

func (f *sourceFrame) peek() int {
	if f.pos >= len(f.data) {
		return eof
	}
	return int(f.data[f.pos])
}

func (f *sourceFrame) peekAt(off int) int {
	if f.pos+off >= len(f.data) {
		return eof
	}
	return int(f.data[f.pos+off])
}

func (f *sourceFrame) advance() int {
	c := f.peek()
	if c == eof {
		return eof
	}
	f.pos++
	if c == '\n' {
		f.logicalLine++
	}
	return c
}

// macroExpansion is one entry of the parallel expansion stack: the
// substituted macro body text being re-scanned, plus the macro it
// came from (kept busy for the lifetime of this frame to block
// self-recursion), per spec §4.1 "Macro expansion stack".
type macroExpansion struct {
	text   string
	pos    int
	macro  *macro
}

func (m *macroExpansion) peek() int {
	if m.pos >= len(m.text) {
		return eof
	}
	return int(m.text[m.pos])
}

func (m *macroExpansion) advance() int {
	c := m.peek()
	if c != eof {
		m.pos++
	}
	return c
}

// conditionalFrame tracks one nested `#if`/`#ifdef` block, per spec
// §4.1's "push/pop conditional frames {active, seen_true_branch,
// in_else}". A frame is active iff its parent is active and its own
// predicate currently holds.
type conditionalFrame struct {
	active         bool
	seenTrueBranch bool
	inElse         bool
	parentActive   bool
}

// macro is an object-like or function-like macro definition, per
// spec §4.1 "#define" and grounded on
// _examples/original_source/preprocessor.h's Macro struct.
type macro struct {
	name       string
	isFunction bool
	isVariadic bool
	params     []string
	body       string
	expanding  bool
	builtinFile bool
	builtinLine bool
}

// Preprocessor implements C1: a character stream that applies line
// continuation, comment elision, conditional compilation and macro
// expansion, and hands the driver a dependency list for every
// `#include` it sees (without expanding the included content inline —
// that happens through the driver's work queue instead, per spec
// §4.1).
type Preprocessor struct {
	cfg      *Config
	resolver *IncludeResolver

	sources     []*sourceFrame
	expansions  []*macroExpansion
	macros      map[string]*macro
	conditionals []*conditionalFrame

	atLineStart bool
	deps        []includeDependency
	log         *Log
	fatal       error
}

// includeDependency is the `{path, is_embedded}` record spec §3's
// FileDecl stores per #include target.
type includeDependency struct {
	Path       string
	Quoted     bool
	IsEmbedded bool
}

// NewPreprocessor creates a preprocessor seeded with the given
// top-level source, ready to have its output tokenised by Lex.
func NewPreprocessor(path, dir string, data []byte, cfg *Config, log *Log) *Preprocessor {
	p := &Preprocessor{
		cfg:         cfg,
		resolver:    NewIncludeResolver(cfg),
		macros:      make(map[string]*macro),
		atLineStart: true,
		log:         log,
	}
	p.sources = append(p.sources, newSourceFrame(path, dir, data))
	return p
}

// Dependencies returns every `#include` target seen so far, in
// source order, for the driver to split into header/source queues
// (spec §4.4).
func (p *Preprocessor) Dependencies() []includeDependency { return p.deps }

func (p *Preprocessor) currentFrame() *sourceFrame {
	if len(p.sources) == 0 {
		return nil
	}
	return p.sources[len(p.sources)-1]
}

func (p *Preprocessor) conditionalActive() bool {
	for _, c := range p.conditionals {
		if !c.active {
			return false
		}
	}
	return true
}

// readChar implements spec §4.1's read_char: backslash-newline
// elision, `//`/`/* */` comment stripping, directive-line handling,
// and dropping dead-conditional-block bytes, in priority order.
func (p *Preprocessor) readChar() (int, error) {
	for {
		if len(p.expansions) > 0 {
			top := p.expansions[len(p.expansions)-1]
			c := top.advance()
			if c == eof {
				top.macro.expanding = false
				p.expansions = p.expansions[:len(p.expansions)-1]
				continue
			}
			return c, nil
		}

		f := p.currentFrame()
		if f == nil {
			return eof, nil
		}
		if f.pos >= len(f.data) {
			p.sources = p.sources[:len(p.sources)-1]
			if len(p.sources) == 0 {
				return eof, nil
			}
			continue
		}

		// Rule 1: backslash-newline elision.
		if f.peek() == '\\' && f.peekAt(1) == '\n' {
			f.advance()
			f.advance()
			continue
		}

		// Rule 4: directive line.
		if p.atLineStart && f.peek() == '#' {
			if err := p.handleDirective(f); err != nil {
				return eof, err
			}
			continue
		}

		// Rule 5: dead conditional block drops everything but '#'/'\n'.
		if !p.conditionalActive() {
			c := f.peek()
			if c == '\n' {
				p.atLineStart = true
				f.advance()
				return '\n', nil
			}
			f.advance()
			continue
		}

		// Rule 2: line comment.
		if f.peek() == '/' && f.peekAt(1) == '/' {
			for f.peek() != '\n' && f.peek() != eof {
				f.advance()
			}
			continue
		}

		// Rule 3: block comment.
		if f.peek() == '/' && f.peekAt(1) == '*' {
			f.advance()
			f.advance()
			for !(f.peek() == '*' && f.peekAt(1) == '/') {
				if f.peek() == eof {
					return eof, FatalHostError{Path: f.logicalPath, Err: fmt.Errorf("unterminated block comment")}
				}
				f.advance()
			}
			f.advance()
			f.advance()
			continue
		}

		c := f.advance()
		p.atLineStart = c == '\n'
		return c, nil
	}
}

// currentLogicalLocation reports the logical path/line diagnostics
// and __FILE__/__LINE__ should use right now.
func (p *Preprocessor) currentLogicalLocation() (string, int) {
	f := p.currentFrame()
	if f == nil {
		return "", 0
	}
	return f.logicalPath, f.logicalLine
}

func (p *Preprocessor) errorf(format string, args ...any) error {
	path, line := p.currentLogicalLocation()
	return ParsingError{Message: fmt.Sprintf(format, args...), Path: path, Span: Span{Start: Location{Line: int32(line)}, End: Location{Line: int32(line)}}}
}

// pushExpansion pushes a macro's substituted body as a new expansion
// frame and marks the macro busy, per spec §4.1 "Argument
// substitution".
func (p *Preprocessor) pushExpansion(m *macro, text string) {
	m.expanding = true
	p.expansions = append(p.expansions, &macroExpansion{text: text, macro: m})
}

func (p *Preprocessor) isBusy(m *macro) bool { return m.expanding }

// joinIdentifierLike joins two token texts with a single space when
// both look identifier-like, preventing accidental token fusion
// during substitution (spec §4.1 "Argument substitution").
func joinIdentifierLike(a, b string) string {
	if a == "" {
		return b
	}
	lastIdentLike := isIdentRune(rune(a[len(a)-1]))
	firstIdentLike := len(b) > 0 && isIdentRune(rune(b[0]))
	if lastIdentLike && firstIdentLike {
		return a + " " + b
	}
	return a + b
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (p *Preprocessor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Preprocessor(%d frames, %d macros)", len(p.sources), len(p.macros))
	return b.String()
}
