package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frscan/internal/types"
)

func TestSubstrings_OrderIsLineThenRegistration(t *testing.T) {
	rs := Substrings("exec", "eval", "open")
	code := "x = 1\n  eval(open(f).read())  \r\nexec(eval(y))\n"

	got := rs.Scan(code)
	want := []types.Finding{
		{Pattern: "eval", Line: 2, Context: "eval(open(f).read())"},
		{Pattern: "open", Line: 2, Context: "eval(open(f).read())"},
		{Pattern: "exec", Line: 3, Context: "exec(eval(y))"},
		{Pattern: "eval", Line: 3, Context: "exec(eval(y))"},
	}
	assert.Equal(t, want, got)
}

func TestSubstrings_CountMatchesLinePatternPairs(t *testing.T) {
	rs := Substrings(pythonPatterns...)
	code := strings.Join([]string{
		"import os",
		"os.system('ls')",
		"data = pickle.loads(base64.b64decode(blob))",
		"name = input()",
		"print('hello')",
	}, "\n")

	want := 0
	for _, line := range strings.Split(code, "\n") {
		for _, p := range pythonPatterns {
			if strings.Contains(line, p) {
				want++
			}
		}
	}
	got := rs.Scan(code)
	assert.Len(t, got, want)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Line, got[i].Line)
	}
}

func TestWordBoundary_C(t *testing.T) {
	rs := Default()
	got := rs.Scan(LangC, "execvp(argv[0], argv);\nmy_system_call();\nsystem(\"id\");")
	require.Len(t, got, 2)
	assert.Equal(t, "execvp", got[0].Pattern)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, "system", got[1].Pattern)
	assert.Equal(t, 3, got[1].Line)
}

func TestRegexpsFold_CSS(t *testing.T) {
	got := Default().Scan(LangCSS, "a { background: URL( \"JavaScript:alert(1)\") }\nb { width: EXPRESSION(1) }")
	require.Len(t, got, 2)
	assert.Equal(t, `url\(\s*['\"]?javascript:`, got[0].Pattern)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, `expression\(`, got[1].Pattern)
	assert.Equal(t, 2, got[1].Line)
}

func TestRegexps_NodeIsCaseSensitive(t *testing.T) {
	reg := Default()
	got := reg.Scan(LangNode, "const cp = require('child_process');\nconst lib = require(\"./native.so\");\nEVAL(x)")
	require.Len(t, got, 2)
	assert.Equal(t, `require\s*\(\s*['\"]child_process['\"]\s*\)`, got[0].Pattern)
	assert.Equal(t, `require\s*\(\s*['\"].+\.so['\"]\s*\)`, got[1].Pattern)
	assert.Equal(t, 2, got[1].Line)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a\n"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\n\n"))
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\r\nb\rc"))
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		splitLines("a\vb\fc\x1cd\x1de\x1ef\u0085g\u2028h\u2029i\nj"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\f\n"))
}

func TestLineRules_FormFeedStartsNewLine(t *testing.T) {
	got := Default().Scan(LangC, "int a;\f\nsystem(x);")
	require.Len(t, got, 1)
	assert.Equal(t, "system", got[0].Pattern)
	assert.Equal(t, 3, got[0].Line)
}
