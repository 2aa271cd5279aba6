package forthic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushWord(name string, v Value) Word {
	return &pushValueWord{name: name, value: v}
}

func TestModuleLookupIsNewestFirst(t *testing.T) {
	m := NewModule("", nil)
	m.DefineWord(pushWord("X", Int(1)))
	m.DefineWord(pushWord("X", Int(2)))
	w, ok := m.lookupWord("X")
	require.True(t, ok)
	ip := &Interpreter{}
	require.NoError(t, w.Execute(ip))
	v, err := ip.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.AsInt())
}

func TestModuleExportRequiresExistingWord(t *testing.T) {
	m := NewModule("", nil)
	err := m.Export("MISSING")
	assert.Error(t, err)
	assert.IsType(t, ModuleError{}, err)
}

func TestModuleExportThenImportWithPrefix(t *testing.T) {
	sub := NewModule("math", nil)
	sub.AddExportable(pushWord("PI", Float(3.14)))

	app := NewModule("", nil)
	require.NoError(t, app.Import(sub, "math"))

	w, ok := app.lookupWord("math.PI")
	require.True(t, ok)
	ip := &Interpreter{}
	require.NoError(t, w.Execute(ip))
	v, _ := ip.Pop()
	assert.Equal(t, 3.14, v.AsFloat())
}

func TestModuleImportWithEmptyPrefixKeepsName(t *testing.T) {
	sub := NewModule("math", nil)
	sub.AddExportable(pushWord("PI", Float(3.14)))

	app := NewModule("", nil)
	require.NoError(t, app.Import(sub, ""))

	_, ok := app.lookupWord("PI")
	assert.True(t, ok)
}

func TestModuleVariableRoundTrip(t *testing.T) {
	m := NewModule("", nil)
	_, err := m.DeclareVariable("x")
	require.NoError(t, err)
	v, ok := m.LookupVariable("x")
	require.True(t, ok)
	assert.True(t, v.Value.IsNull())

	_, err = m.SetVariable("x", Int(42))
	require.NoError(t, err)
	v, _ = m.LookupVariable("x")
	assert.Equal(t, int64(42), v.Value.AsInt())
}

func TestModuleReservedVariableNameRejected(t *testing.T) {
	m := NewModule("", nil)
	_, err := m.DeclareVariable("__private")
	assert.IsType(t, InvalidVariableNameError{}, err)

	_, err = m.SetVariable("__private", Int(1))
	assert.IsType(t, InvalidVariableNameError{}, err)
}

func TestModuleDefineMemoReplacesInPlace(t *testing.T) {
	m := NewModule("", nil)

	calls := 0
	counting := NewBuiltin("body", func(ip *Interpreter) error {
		calls++
		return ip.Push(Int(int64(calls)))
	})
	m.DefineMemo("TOTAL", counting, Position{})
	assert.Len(t, m.words, 3)

	replaced := NewBuiltin("body2", func(ip *Interpreter) error {
		return ip.Push(Int(99))
	})
	m.DefineMemo("TOTAL", replaced, Position{})
	// Still exactly 3 dictionary entries: the slot was swapped, not appended.
	assert.Len(t, m.words, 3)

	w, ok := m.lookupWord("TOTAL")
	require.True(t, ok)
	ip := &Interpreter{}
	require.NoError(t, w.Execute(ip))
	v, _ := ip.Pop()
	assert.Equal(t, int64(99), v.AsInt())
}

func TestModuleSubModuleCreatedOnDemand(t *testing.T) {
	m := NewModule("", nil)
	_, ok := m.SubModule("nested")
	assert.False(t, ok)

	sub := m.EnsureSubModule("nested")
	require.NotNil(t, sub)
	again, ok := m.SubModule("nested")
	assert.True(t, ok)
	assert.Same(t, sub, again)
}
