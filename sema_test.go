package cminor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagCodes(diags []Diagnostic) []string {
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	return codes
}

func TestSema_NarrowingRequiresExplicitCast(t *testing.T) {
	diags, err := compileSource(`
int f() {
    long big;
    int small = big;
    return 0;
}
`)
	require.NoError(t, err)
	assert.Contains(t, diagCodes(diags), "sema.narrowing")
}

func TestSema_NarrowingLiteralThatFitsIsAccepted(t *testing.T) {
	diags, err := compileSource(`
int f() {
    char c = 65;
    return 0;
}
`)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

// TestSema_SmallIntegralConversionInsertsNoCast guards the VM's
// int-word storage rule: char/short/int assignments never wrap the
// value in a CastExpr, in either narrowing or widening direction,
// literal or not.
func TestSema_SmallIntegralConversionInsertsNoCast(t *testing.T) {
	ctx, err := compileSourceCtx(`
int f() {
    int n;
    char c1 = 65;
    char c2 = n;
    short s = n;
    int i = c1;
    return 0;
}
`)
	require.NoError(t, err)
	require.Empty(t, ctx.Log.Entries())
	require.Len(t, ctx.Functions, 1)

	for _, st := range ctx.Functions[0].Body.Stmts {
		decl, ok := st.(*DeclStmt)
		if !ok || decl.Decl.Initializer == nil {
			continue
		}
		_, isCast := decl.Decl.Initializer.(*CastExpr)
		assert.Falsef(t, isCast, "%s = %s got wrapped in an implicit cast", decl.Decl.Name, decl.Decl.Initializer)
	}
}

func TestSema_NullPropagatesToReturnPointerType(t *testing.T) {
	ctx, err := compileSourceCtx(`
int* make() {
    return NULL;
}
`)
	require.NoError(t, err)
	assert.Empty(t, ctx.Log.Entries())
	require.Len(t, ctx.Functions, 1)

	ret, ok := ctx.Functions[0].Body.Stmts[0].(*ReturnStmt)
	require.True(t, ok)
	assert.Equal(t, "int*", ret.Value.Type().String())
}

func TestSema_SwitchCaseOutOfRange(t *testing.T) {
	diags, err := compileSource(`
int f() {
    char c;
    switch (c) {
    case 1000:
        break;
    }
    return 0;
}
`)
	require.NoError(t, err)
	assert.Contains(t, diagCodes(diags), "sema.case-out-of-range")
}

func TestSema_UndefinedIdentifier(t *testing.T) {
	diags, err := compileSource(`
int f() {
    return undefined_name;
}
`)
	require.NoError(t, err)
	assert.Contains(t, diagCodes(diags), "sema.undefined")
}

func TestSema_HeapLiftMarksLocalWhoseAddressIsTaken(t *testing.T) {
	ctx, err := compileSourceCtx(`
int f() {
    int x;
    int* p = &x;
    return *p;
}
`)
	require.NoError(t, err)
	assert.Empty(t, ctx.Log.Entries())
	require.Len(t, ctx.Functions, 1)

	decl, ok := ctx.Functions[0].Body.Stmts[0].(*DeclStmt)
	require.True(t, ok)
	assert.True(t, decl.Decl.NeedsHeapLift, "x's address is taken, so it must be heap-lifted")
}

func TestSema_ConditionRejectsFloat(t *testing.T) {
	diags, err := compileSource(`
int f() {
    float x;
    if (x) {
        return 1;
    }
    return 0;
}
`)
	require.NoError(t, err)
	assert.Contains(t, diagCodes(diags), "sema.bad-condition")
}

func TestSema_SizeofArrayComputesDimensionProduct(t *testing.T) {
	ctx, err := compileSourceCtx(`
int f() {
    int arr[3][4];
    int single[5];
    int n = sizeof arr;
    int m = sizeof *single;
    return 0;
}
`)
	require.NoError(t, err)
	require.Empty(t, ctx.Log.Entries())
	require.Len(t, ctx.Functions, 1)

	var nInit, mInit *SizeofExpr
	for _, st := range ctx.Functions[0].Body.Stmts {
		decl, ok := st.(*DeclStmt)
		if !ok {
			continue
		}
		switch decl.Decl.Name {
		case "n":
			nInit, _ = decl.Decl.Initializer.(*SizeofExpr)
		case "m":
			mInit, _ = decl.Decl.Initializer.(*SizeofExpr)
		}
	}
	require.NotNil(t, nInit)
	require.NotNil(t, mInit)
	assert.EqualValues(t, 12, nInit.ComputedValue, "sizeof a two-dimensional array is the product of both dimensions")
	assert.EqualValues(t, 1, mInit.ComputedValue, "sizeof *arr on a single-dimension array is the degenerate non-array case")
}

func TestSema_ArithmeticOnPointersRejected(t *testing.T) {
	diags, err := compileSource(`
int f() {
    int* p;
    int* q;
    int r = p * q;
    return r;
}
`)
	require.NoError(t, err)
	assert.NotEmpty(t, diags)
}
