package cminor

import "fmt"

// TokenKind enumerates everything the preprocessor's token emitter
// (spec §4.1 "Token emission") can produce and the parser consumes.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdentifier
	TokKeyword
	TokIntLiteral
	TokUintLiteral
	TokLongLiteral
	TokUlongLiteral
	TokFloatLiteral
	TokDoubleLiteral
	TokCharLiteral
	TokStringLiteral
	TokAttribute // a balanced [[ ... ]] block; Text is the interior
	TokPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdentifier:
		return "identifier"
	case TokKeyword:
		return "keyword"
	case TokIntLiteral:
		return "int-literal"
	case TokUintLiteral:
		return "uint-literal"
	case TokLongLiteral:
		return "long-literal"
	case TokUlongLiteral:
		return "ulong-literal"
	case TokFloatLiteral:
		return "float-literal"
	case TokDoubleLiteral:
		return "double-literal"
	case TokCharLiteral:
		return "char-literal"
	case TokStringLiteral:
		return "string-literal"
	case TokAttribute:
		return "attribute"
	case TokPunct:
		return "punctuation"
	default:
		return "?"
	}
}

// Token is one lexical unit produced by the preprocessor's character
// reader and consumed by the parser. Text carries the punctuation
// spelling, keyword spelling, identifier name, attribute interior,
// the source spelling of a numeric literal, or a string literal's
// contents after escape processing; a character literal has no Text.
// IntValue/FloatValue hold the already-computed value for literal
// kinds.
type Token struct {
	Kind       TokenKind
	Text       string
	IntValue   int64
	FloatValue float64
	Span       Span
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "<eof>"
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// keywords is the exact keyword set from spec §6: "NULL bool break
// case char const continue default do double else enum extern false
// float for goto if int long return short sizeof static struct switch
// true typedef union unsigned void while".
var keywords = map[string]bool{
	"NULL": true, "bool": true, "break": true, "case": true, "char": true,
	"const": true, "continue": true, "default": true, "do": true,
	"double": true, "else": true, "enum": true, "extern": true,
	"false": true, "float": true, "for": true, "goto": true, "if": true,
	"int": true, "long": true, "return": true, "short": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"true": true, "typedef": true, "union": true, "unsigned": true,
	"void": true, "while": true,
}

func isKeyword(s string) bool { return keywords[s] }
