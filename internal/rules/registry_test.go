package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frscan/internal/types"
)

func TestRegistry_UnknownLanguageYieldsEmpty(t *testing.T) {
	reg := Default()
	for _, lang := range []string{"", "Brainfuck", "python"} {
		got := reg.Scan(lang, "eval(os.system('rm -rf /'))")
		require.NotNil(t, got, lang)
		assert.Empty(t, got, lang)
	}
}

func TestRegistry_TypeScriptSharesJavaScriptRules(t *testing.T) {
	reg := Default()
	code := "const x = eval(input);"
	assert.Equal(t, reg.Scan(LangJavaScript, code), reg.Scan(LangTypeScript, code))
}

func TestRegistry_Languages(t *testing.T) {
	langs := Default().Languages()
	assert.Len(t, langs, 15)
	assert.Contains(t, langs, LangJSON)
	assert.Contains(t, langs, LangCSharp)
	assert.IsIncreasing(t, langs)
}

type constRules []types.Finding

func (c constRules) Scan(string) []types.Finding { return c }

func TestRegistry_RegisterCustomLanguage(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Lua", constRules{{Pattern: "os.execute", Line: 1}})
	reg.Register("Nil", constRules(nil))

	got := reg.Scan("Lua", "")
	require.Len(t, got, 1)
	assert.Equal(t, "os.execute", got[0].Pattern)

	assert.NotNil(t, reg.Scan("Nil", "x"))
	_, ok := reg.Lookup("")
	assert.False(t, ok)
}

func TestPatternCount(t *testing.T) {
	reg := Default()
	py, _ := reg.Lookup(LangPython)
	js, _ := reg.Lookup(LangJSON)
	assert.Equal(t, len(pythonPatterns), PatternCount(py))
	assert.Equal(t, len(SuspiciousCommands), PatternCount(js))
	assert.Zero(t, PatternCount(constRules{}))
}
