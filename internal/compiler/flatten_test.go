package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_StripsWhitespace(t *testing.T) {
	flat, err := Flatten(" x + y *\n\tz ", 0)
	require.NoError(t, err)
	assert.Equal(t, "x+y*z", flat)
}

func TestFlatten_EmptyExpression(t *testing.T) {
	_, err := Flatten("  \n ", 0)
	assertCompileError(t, err, ErrCodeMalformed)
}

func TestFlatten_RejectsUnknownCharacters(t *testing.T) {
	_, err := Flatten("x+y%z", 2)
	assertCompileError(t, err, ErrCodeMalformed)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Expr)
	assert.Equal(t, 3, ce.Offset, "offset points into the flattened text")
}

func TestFlatten_RejectsUnbalancedParens(t *testing.T) {
	_, err := Flatten("f(x+y", 0)
	assertCompileError(t, err, ErrCodeMalformed)

	_, err = Flatten("x+y)", 0)
	assertCompileError(t, err, ErrCodeMalformed)
}

func TestFlatten_RejectsTopLevelComma(t *testing.T) {
	_, err := Flatten("x,y", 0)
	assertCompileError(t, err, ErrCodeMalformed)
}

func TestFlatten_RejectsEmptyArguments(t *testing.T) {
	for _, bad := range []string{"f()", "f(x,)", "f(,x)", "f(x,,y)"} {
		_, err := Flatten(bad, 0)
		assertCompileError(t, err, ErrCodeMalformed)
	}
}

func TestCheckReserved_RejectsGeneratedForms(t *testing.T) {
	for _, bad := range []string{"x+frag0", "tmp3*y", "res0", "pow1+1", "frag12(x)"} {
		flat, err := Flatten(bad, 0)
		require.NoError(t, err)
		err = CheckReserved(flat, 0)
		assertCompileError(t, err, ErrCodeReservedIdent)
	}
}

func TestCheckReserved_AllowsPrefixLookalikes(t *testing.T) {
	flat, err := Flatten("tmpRate+resolution*fragment", 0)
	require.NoError(t, err)
	assert.NoError(t, CheckReserved(flat, 0))
}

func assertCompileError(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var ce *CompileError
	require.True(t, errors.As(err, &ce), "expected *CompileError, got %T", err)
	assert.Equal(t, code, ce.Code)
}
