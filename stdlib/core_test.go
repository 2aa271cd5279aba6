package stdlib

import (
	"testing"

	forthic "github.com/forthic-lang/forthic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterpreter() *forthic.Interpreter {
	ip := forthic.Create()
	Install(ip)
	return ip
}

func TestStackShuffling(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run("1 2 DUP"))
	assert.Equal(t, 3, ip.Length())
	v, _ := ip.Pop()
	assert.Equal(t, int64(2), v.AsInt())

	ip = newTestInterpreter()
	require.NoError(t, ip.Run("1 2 SWAP"))
	v, _ = ip.Pop()
	assert.Equal(t, int64(1), v.AsInt())
	v, _ = ip.Pop()
	assert.Equal(t, int64(2), v.AsInt())

	ip = newTestInterpreter()
	require.NoError(t, ip.Run("1 2 POP"))
	assert.Equal(t, 1, ip.Length())
}

func TestVariablesSetGet(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`[ "x" ] VARIABLES`))
	require.NoError(t, ip.Run(`42 "x" !`))
	require.NoError(t, ip.Run(`"x" @`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.AsInt())
}

func TestSetAndGetRoundTrip(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`[ "y" ] VARIABLES`))
	require.NoError(t, ip.Run(`7 "y" !@`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.AsInt())
}

func TestDefaultUsesFallbackOnlyWhenEmpty(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`NULL 5 DEFAULT`))
	v, _ := ip.Pop()
	assert.Equal(t, int64(5), v.AsInt())

	ip = newTestInterpreter()
	require.NoError(t, ip.Run(`1 5 DEFAULT`))
	v, _ = ip.Pop()
	assert.Equal(t, int64(1), v.AsInt())
}

func TestLazyDefaultRunsSnippetOnlyWhenEmpty(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`1 '99 POP 1' *DEFAULT`))
	v, _ := ip.Pop()
	assert.Equal(t, int64(1), v.AsInt())

	ip = newTestInterpreter()
	require.NoError(t, ip.Run(`NULL '42' *DEFAULT`))
	v, _ = ip.Pop()
	assert.Equal(t, int64(42), v.AsInt())
}

func TestInterpretRunsNestedSource(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`'1 2 +' INTERPRET`))
	v, _ := ip.Pop()
	assert.Equal(t, int64(3), v.AsInt())
}

func TestArrayPredicate(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`[ 1 2 ] ARRAY?`))
	v, _ := ip.Pop()
	assert.True(t, v.AsBool())

	ip = newTestInterpreter()
	require.NoError(t, ip.Run(`1 ARRAY?`))
	v, _ = ip.Pop()
	assert.False(t, v.AsBool())
}

func TestInterpolateSubstitutesVariables(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`[ "name" ] VARIABLES`))
	require.NoError(t, ip.Run(`"world" "name" !`))
	require.NoError(t, ip.Run(`"hello, .name!" INTERPOLATE`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", v.AsString())
}

func TestInterpolateLeavesUndeclaredNameBlank(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`"a = .missing" INTERPOLATE`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, "a = ", v.AsString())
}

func TestInterpolateOnlyMatchesAtBoundary(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`[ "5" ] VARIABLES`))
	require.NoError(t, ip.Run(`99 "5" !`))
	require.NoError(t, ip.Run(`"3.5 is not a variable" INTERPOLATE`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, "3.5 is not a variable", v.AsString())
}

func TestInterpolateEscapesLiteralDot(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`"end\." INTERPOLATE`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, "end.", v.AsString())
}

func TestArithmeticIntPreservingAddAndSub(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`1 2 +`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, forthic.KindInt, v.Kind())
	assert.Equal(t, int64(3), v.AsInt())

	ip = newTestInterpreter()
	require.NoError(t, ip.Run(`5 2 -`))
	v, err = ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, forthic.KindInt, v.Kind())
	assert.Equal(t, int64(3), v.AsInt())
}

func TestArithmeticMixedOperandsPromoteToFloat(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`1 2.5 +`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, forthic.KindFloat, v.Kind())
	assert.InDelta(t, 3.5, v.AsFloat(), 1e-9)
}

func TestArithmeticMulAlwaysPromotesToFloat(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`: DOUBLE 2 * ; 21 DOUBLE`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, forthic.KindFloat, v.Kind())
	assert.InDelta(t, 42.0, v.AsFloat(), 1e-9)
}

func TestArithmeticDivByZeroErrors(t *testing.T) {
	ip := newTestInterpreter()
	err := ip.Run(`1 0 /`)
	require.Error(t, err)
	assert.IsType(t, forthic.ArithmeticError{}, err)
}

func TestArithmeticNonNumericOperandErrors(t *testing.T) {
	ip := newTestInterpreter()
	err := ip.Run(`"x" 1 +`)
	require.Error(t, err)
	assert.IsType(t, forthic.ArithmeticError{}, err)
}

func TestLengthOfArrayAndString(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`[ "a" "b" "c" ] LENGTH`))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.AsInt())

	ip = newTestInterpreter()
	require.NoError(t, ip.Run(`"hello" LENGTH`))
	v, err = ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.AsInt())
}

func TestExportMarksWordExportable(t *testing.T) {
	ip := newTestInterpreter()
	require.NoError(t, ip.Run(`: HELPER 1 ;`))
	require.NoError(t, ip.Run(`[ "HELPER" ] EXPORT`))
	require.Error(t, ip.Run(`[ "NOPE" ] EXPORT`))
}
