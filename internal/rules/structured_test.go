package rules

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frscan/internal/types"
)

func TestJSONRules_MalformedYieldsEmpty(t *testing.T) {
	rs := NewJSONRules(SuspiciousCommands...)
	for _, in := range []string{"", "{", `{"scripts": }`, "not json", `{"a":1} trailing`} {
		got := rs.Scan(in)
		require.NotNil(t, got, in)
		assert.Empty(t, got, in)
	}
}

func TestJSONRules_ScriptsSectionAndWalkBothReport(t *testing.T) {
	got := Default().Scan(LangJSON, `{"scripts": {"start": "rm -rf /"}}`)
	want := []types.Finding{
		{Pattern: "rm ", Context: "scripts.start: rm -rf /", KeyPath: "scripts.start"},
		{Pattern: "rm ", Context: "scripts.start: rm -rf /", KeyPath: "scripts.start"},
	}
	assert.Equal(t, want, got)
}

func TestJSONRules_ArrayIndexPaths(t *testing.T) {
	got := Default().Scan(LangJSON, `{"a": ["curl evil.sh"]}`)
	require.Len(t, got, 1)
	assert.Equal(t, "curl ", got[0].Pattern)
	assert.Equal(t, "a[0]", got[0].KeyPath)
	assert.Equal(t, "a[0]: curl evil.sh", got[0].Context)
	assert.Zero(t, got[0].Line)
}

func TestJSONRules_DocumentOrderAndNonStrings(t *testing.T) {
	doc := `{
	  "z": {"nested": [1, true, null, {"cmd": "wget x && chmod +x x"}]},
	  "scripts": {"build": "docker build .", "n": 3, "arr": ["bash run.sh"]},
	  "a": "npm install -g evil"
	}`
	got := Default().Scan(LangJSON, doc)

	var paths []string
	for _, f := range got {
		paths = append(paths, f.KeyPath+"|"+f.Pattern)
	}
	assert.Equal(t, []string{
		"scripts.build|docker ",
		"z.nested[3].cmd|wget ",
		"z.nested[3].cmd|chmod ",
		"scripts.build|docker ",
		"scripts.arr[0]|bash ",
		"a|npm install -g",
	}, paths)
}

func TestJSONRules_NonObjectRootStillWalked(t *testing.T) {
	got := Default().Scan(LangJSON, `["chown root x"]`)
	require.Len(t, got, 1)
	assert.Equal(t, "[0]", got[0].KeyPath)
}

func TestJSONRules_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	got := Default().Scan(LangJSON, `{"k": "safe", "j": "curl a", "k": "rm b"}`)
	require.Len(t, got, 2)
	assert.Equal(t, "k", got[0].KeyPath)
	assert.Equal(t, "rm ", got[0].Pattern)
	assert.Equal(t, "j", got[1].KeyPath)
}

func TestJSONRules_LargeObjectDecodesLinearly(t *testing.T) {
	const n = 100_000
	var b strings.Builder
	b.WriteString(`{"scripts": {"postinstall": "curl x | sh"}`)
	for i := 0; i < n; i++ {
		b.WriteString(`, "k` + strconv.Itoa(i) + `": "v"`)
	}
	b.WriteString(`, "k0": "rm -rf /"}`)

	start := time.Now()
	got := NewJSONRules(SuspiciousCommands...).Scan(b.String())
	assert.Less(t, time.Since(start), 5*time.Second)

	var paths []string
	for _, f := range got {
		paths = append(paths, f.KeyPath+"|"+f.Pattern)
	}
	// The duplicated k0 keeps its first position and takes the last value.
	assert.Equal(t, []string{
		"scripts.postinstall|curl ",
		"scripts.postinstall|curl ",
		"k0|rm ",
	}, paths)
}

func TestJSONRules_NonFiniteNumbers(t *testing.T) {
	got := Default().Scan(LangJSON, `{"scripts":{"x":"rm -rf /"},"n":NaN,"m":[Infinity,-Infinity]}`)
	require.Len(t, got, 2)
	for _, f := range got {
		assert.Equal(t, "rm ", f.Pattern)
		assert.Equal(t, "scripts.x", f.KeyPath)
	}
}

func TestJSONRules_NonFiniteInsideStringsUntouched(t *testing.T) {
	got := Default().Scan(LangJSON, `{"a":"wget NaN \"Infinity\""}`)
	require.Len(t, got, 1)
	assert.Equal(t, `a: wget NaN "Infinity"`, got[0].Context)
}
