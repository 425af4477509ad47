package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"frscan/internal/types"
)

func TestStripFence(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "```json\n{\"danger\":\"YES\"}\n```", want: `{"danger":"YES"}`},
		{in: "  {\"a\":1}  ", want: `{"a":1}`},
		{in: "```\n{\"a\":1}", want: `{"a":1}`},
		{in: "{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```json\r\n{\"a\":1}\r\n```\r\n", want: `{"a":1}`},
		{in: "", want: ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripFence(c.in), "input %q", c.in)
	}
}

func TestParseVerdict_FencedUppercase(t *testing.T) {
	v := ParseVerdict("```json\n{\"danger\":\"YES\"}\n```", "danger", "reason")
	assert.Equal(t, types.VerdictYes, v.Danger)
	assert.Equal(t, "", v.Reason)
}

func TestParseVerdict_NotJSON(t *testing.T) {
	v := ParseVerdict("not json at all", "danger", "reason")
	assert.Equal(t, types.VerdictUnknown, v.Danger)
	assert.Equal(t, "not json at all", v.Reason)
}

func TestParseVerdict_NonObjectIsUnknown(t *testing.T) {
	v := ParseVerdict(`["yes"]`, "danger", "reason")
	assert.Equal(t, types.VerdictUnknown, v.Danger)
	assert.Equal(t, `["yes"]`, v.Reason)
}

func TestParseVerdict_OverallKeys(t *testing.T) {
	v := ParseVerdict(`{"overall_danger":" No ","overall_reason":"benign build script"}`, "overall_danger", "overall_reason")
	assert.Equal(t, types.VerdictNo, v.Danger)
	assert.Equal(t, "benign build script", v.Reason)
}

func TestParseVerdict_MissingAndNonStringFields(t *testing.T) {
	v := ParseVerdict(`{"danger": true}`, "danger", "reason")
	assert.Equal(t, types.Verdict(""), v.Danger)
	assert.Equal(t, "", v.Reason)
}

func TestParseVerdict_DoubleEncodedObject(t *testing.T) {
	v := ParseVerdict(`"{\"danger\":\"YES\",\"reason\":\"r\"}"`, "danger", "reason")
	assert.Equal(t, types.VerdictYes, v.Danger)
	assert.Equal(t, "r", v.Reason)

	v = ParseVerdict("```json\n\"{\\\"danger\\\":\\\"no\\\"}\"\n```", "danger", "reason")
	assert.Equal(t, types.VerdictNo, v.Danger)
}

func TestParseVerdict_QuotedSentenceIsUnknown(t *testing.T) {
	v := ParseVerdict(`"looks fine"`, "danger", "reason")
	assert.Equal(t, types.VerdictUnknown, v.Danger)
	assert.Equal(t, `"looks fine"`, v.Reason)
}
