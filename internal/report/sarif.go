package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"frscan/internal/types"
)

const (
	toolName          = "frscan"
	dangerRuleID      = "model-danger-verdict"
	patternRulePrefix = "suspicious-pattern/"
)

// SARIF writes one result per static finding plus one per file the model
// judged dangerous.
func SARIF(w io.Writer, records []types.Record) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("report: create SARIF: %w", err)
	}
	run := sarif.NewRunWithInformationURI(toolName, "")
	run.Tool.Driver.InformationURI = nil

	for _, e := range types.Entries(records) {
		level := "warning"
		if e.Danger == types.VerdictYes {
			level = "error"
		}
		for _, f := range e.StaticFindings {
			rule := run.AddRule(patternRulePrefix + f.Pattern).
				WithDescription(fmt.Sprintf("Suspicious pattern %q", f.Pattern))

			// Key-path findings carry no line, so they get no region.
			var region *sarif.Region
			msg := fmt.Sprintf("%q matched: %s", f.Pattern, f.Context)
			if f.Line > 0 {
				region = sarif.NewRegion().WithStartLine(f.Line)
			} else {
				msg = fmt.Sprintf("%q matched at %s: %s", f.Pattern, f.KeyPath, f.Context)
			}
			run.AddResult(sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(msg)).
				WithLevel(level).
				WithLocations([]*sarif.Location{fileLocation(e.Filename, region)}))
		}
		if e.Danger == types.VerdictYes {
			rule := run.AddRule(dangerRuleID).
				WithDescription("File judged dangerous by the language model")
			run.AddResult(sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(e.Reason)).
				WithLevel("error").
				WithLocations([]*sarif.Location{fileLocation(e.Filename, nil)}))
		}
	}
	report.AddRun(run)
	return report.PrettyWrite(w)
}

func fileLocation(uri string, region *sarif.Region) *sarif.Location {
	pl := sarif.NewPhysicalLocation().WithArtifactLocation(sarif.NewArtifactLocation().WithUri(uri))
	if region != nil {
		pl = pl.WithRegion(region)
	}
	return sarif.NewLocation().WithPhysicalLocation(pl)
}
