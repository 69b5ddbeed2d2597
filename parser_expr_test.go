package cminor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpr_Precedence(t *testing.T) {
	for _, test := range []struct {
		Name   string
		Src    string
		Expect string
	}{
		{Name: "AddMul", Src: "1 + 2 * 3", Expect: "(1 + (2 * 3))"},
		{Name: "MulAdd", Src: "1 * 2 + 3", Expect: "((1 * 2) + 3)"},
		{Name: "Relational", Src: "a < b + 1", Expect: "(a < (b + 1))"},
		{Name: "LogicalAndOr", Src: "a || b && c", Expect: "(a || (b && c))"},
		{Name: "Assignment", Src: "a = b = 1", Expect: "a = b = 1"},
		{Name: "Ternary", Src: "a ? b : c ? d : e", Expect: "a ? b : c ? d : e"},
		{Name: "UnaryDeref", Src: "*p + 1", Expect: "(*p + 1)"},
		{Name: "AddressOf", Src: "&x", Expect: "&x"},
		{Name: "Shift", Src: "1 << 2 + 3", Expect: "(1 << (2 + 3))"},
	} {
		t.Run(test.Name, func(t *testing.T) {
			p, _, log, err := newTestParser(test.Src + ";")
			require.NoError(t, err)
			e, err := p.parseExpr()
			require.NoError(t, err)
			assert.Empty(t, log.Entries())
			assert.Equal(t, test.Expect, e.String())
		})
	}
}

func TestParsePostfix_CallIndexMember(t *testing.T) {
	for _, test := range []struct {
		Name string
		Src  string
	}{
		{Name: "Call", Src: "f(1, 2)"},
		{Name: "Index", Src: "a[0]"},
		{Name: "Dot", Src: "s.field"},
		{Name: "Arrow", Src: "p->field"},
		{Name: "Chained", Src: "a[0].b->c(1)"},
	} {
		t.Run(test.Name, func(t *testing.T) {
			p, _, _, err := newTestParser(test.Src + ";")
			require.NoError(t, err)
			_, err = p.parseExpr()
			require.NoError(t, err)
		})
	}
}

func TestParseSizeof_TypeVsExpr(t *testing.T) {
	p, _, _, err := newTestParser("sizeof(int);")
	require.NoError(t, err)
	e, err := p.parseExpr()
	require.NoError(t, err)
	_, ok := e.(*SizeofTypeExpr)
	assert.True(t, ok, "expected sizeof(int) to parse as a type form")

	p2, _, _, err := newTestParser("sizeof arr;")
	require.NoError(t, err)
	e2, err := p2.parseExpr()
	require.NoError(t, err)
	_, ok = e2.(*SizeofExpr)
	assert.True(t, ok, "expected sizeof arr to parse as an expr form")
}

func TestParseCast(t *testing.T) {
	p, _, _, err := newTestParser("(int) x;")
	require.NoError(t, err)
	e, err := p.parseExpr()
	require.NoError(t, err)
	cast, ok := e.(*CastExpr)
	require.True(t, ok, "expected a cast expression")
	assert.False(t, cast.Implicit)
	assert.Equal(t, TInt, cast.Target.Basic)
}
