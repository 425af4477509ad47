package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"frscan/internal/types"
)

var (
	styleYes     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleNo      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))             // green
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
	styleFile    = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleHeader  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Text writes a human-readable listing: one block per file, then the overall
// verdict when present.
func Text(w io.Writer, records []types.Record) error {
	var b strings.Builder
	entries := types.Entries(records)
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s %s\n", verdictTag(e.Danger), styleFile.Render(e.Filename), styleDim.Render("("+e.Language+")"))
		if e.FileSummary != "" {
			fmt.Fprintf(&b, "    summary: %s\n", e.FileSummary)
		}
		if e.Reason != "" {
			fmt.Fprintf(&b, "    reason:  %s\n", e.Reason)
		}
		for _, f := range e.StaticFindings {
			where := fmt.Sprintf("line %d", f.Line)
			if f.Line == 0 {
				where = f.KeyPath
			}
			fmt.Fprintf(&b, "    %s %q %s\n", styleDim.Render(where+":"), f.Pattern, f.Context)
		}
	}
	if overall, ok := types.Overall(records); ok {
		fmt.Fprintf(&b, "\n%s %s\n", styleHeader.Render("Overall"), verdictTag(overall.OverallDanger))
		if overall.OverallReason != "" {
			fmt.Fprintf(&b, "    %s\n", overall.OverallReason)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", styleDim.Render(fmt.Sprintf("%d file(s) scanned", len(entries))))
	_, err := io.WriteString(w, b.String())
	return err
}

func verdictTag(v types.Verdict) string {
	label := fmt.Sprintf("[%-7s]", strings.ToUpper(string(v)))
	switch v {
	case types.VerdictYes:
		return styleYes.Render(label)
	case types.VerdictNo:
		return styleNo.Render(label)
	case "":
		return styleDim.Render("[STATIC ]")
	default:
		return styleUnknown.Render(label)
	}
}
