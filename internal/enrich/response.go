package enrich

import (
	"strings"

	"frscan/internal/types"
	"frscan/internal/util/jsonutil"
)

const fence = "```"

// StripFence trims text and drops a leading and a trailing fence line.
func StripFence(text string) string {
	s := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	lines := strings.Split(s, "\n")
	if strings.HasPrefix(lines[0], fence) {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), fence) {
		lines = lines[:n-1]
	}
	return strings.Join(lines, "\n")
}

// Verdict is a parsed yes/no/unknown judgment.
type Verdict struct {
	Danger types.Verdict
	Reason string
}

// ParseVerdict reads dangerKey and reasonKey from a JSON object response.
// Text that is not a JSON object yields an unknown verdict with the
// fence-stripped text as the reason. Missing or non-string fields become "".
func ParseVerdict(text, dangerKey, reasonKey string) Verdict {
	body := StripFence(text)
	obj, err := jsonutil.DecodeObject([]byte(body))
	if err != nil {
		return Verdict{Danger: types.VerdictUnknown, Reason: body}
	}
	return Verdict{
		Danger: types.Verdict(strings.ToLower(strings.TrimSpace(stringField(obj, dangerKey)))),
		Reason: stringField(obj, reasonKey),
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
