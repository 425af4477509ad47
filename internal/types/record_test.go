package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frscan/internal/util/jsonutil"
)

func TestRecord_EntryIsFlat(t *testing.T) {
	summary := "a small tool"
	rec := EntryRecord(EnrichedEntry{
		FileEntry:      FileEntry{Filename: "src/a.js", Folder: "src", Language: "JavaScript", Code: "eval(x) && a < b"},
		StaticFindings: []Finding{{Pattern: "eval", Line: 1, Context: "eval(x) && a < b"}},
		FileSummary:    "evaluates input",
		ProjectSummary: &summary,
		Danger:         VerdictYes,
		Reason:         "eval of input",
	})

	b, err := jsonutil.MarshalNoEscape(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "src/a.js", m["filename"])
	assert.Equal(t, "src", m["folder"])
	assert.Equal(t, "a small tool", m["project_summary"])
	assert.Equal(t, "yes", m["danger"])
	assert.NotContains(t, m, "overall_analysis")
	assert.Contains(t, string(b), "a < b", "HTML characters must not be escaped")

	findings := m["static_findings"].([]any)
	require.Len(t, findings, 1)
	f := findings[0].(map[string]any)
	assert.EqualValues(t, 1, f["line"])
	assert.NotContains(t, f, "keyPath")
}

func TestRecord_NoProjectSummaryKeyWhenAbsent(t *testing.T) {
	b, err := json.Marshal(EntryRecord(EnrichedEntry{
		FileEntry:      FileEntry{Filename: "a.py"},
		StaticFindings: []Finding{},
	}))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "project_summary")
	assert.Contains(t, string(b), `"static_findings":[]`)
}

func TestRecord_OverallShapeAndRoundTrip(t *testing.T) {
	recs := []Record{
		EntryRecord(EnrichedEntry{FileEntry: FileEntry{Filename: "a.go"}, StaticFindings: []Finding{}, Danger: VerdictNo}),
		OverallRecord(OverallAnalysis{OverallDanger: VerdictNo, OverallReason: "benign"}),
	}
	b, err := json.Marshal(recs)
	require.NoError(t, err)
	assert.Contains(t, string(b), `{"overall_analysis":{"overall_danger":"no","overall_reason":"benign"}}`)

	var back []Record
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 2)
	require.NotNil(t, back[0].Entry)
	assert.Equal(t, "a.go", back[0].Entry.Filename)
	require.NotNil(t, back[1].Overall)

	o, ok := Overall(back)
	require.True(t, ok)
	assert.Equal(t, VerdictNo, o.OverallDanger)
	assert.Len(t, Entries(back), 1)
}

func TestRecord_EmptyRecordFailsToMarshal(t *testing.T) {
	_, err := json.Marshal(Record{})
	assert.Error(t, err)
}
