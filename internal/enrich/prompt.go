package enrich

import (
	"strings"

	"frscan/internal/types"
	"frscan/internal/util/jsonutil"
)

// RenderEntry formats an entry as the fixed-order block embedded in stage
// prompts. The project summary line is omitted when absent or empty.
func RenderEntry(e types.EnrichedEntry) string {
	var b strings.Builder
	b.WriteString("Filename: " + e.Filename + "\n")
	b.WriteString("Folder: " + e.Folder + "\n")
	b.WriteString("Language: " + e.Language + "\n")
	b.WriteString("Static Findings: " + renderFindings(e.StaticFindings) + "\n")
	b.WriteString("File Summary: " + e.FileSummary + "\n")
	if e.ProjectSummary != nil && *e.ProjectSummary != "" {
		b.WriteString("Project Summary: " + *e.ProjectSummary + "\n")
	}
	b.WriteString("Code:\n")
	b.WriteString(e.Code)
	return b.String()
}

// RenderEntries joins rendered entries with a blank line.
func RenderEntries(entries []types.EnrichedEntry) string {
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = RenderEntry(e)
	}
	return strings.Join(blocks, "\n\n")
}

func renderFindings(fs []types.Finding) string {
	if len(fs) == 0 {
		return "[]"
	}
	raw, err := jsonutil.MarshalNoEscape(fs)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
