package pipeline

import (
	"context"

	"frscan/internal/enrich"
	"frscan/internal/types"
)

// Summarizer adds a file summary to every entry and, for batches of more than
// one entry, the same project summary to each of them.
type Summarizer struct{ Engine *enrich.Engine }

func (s *Summarizer) Run(ctx context.Context, entries []types.EnrichedEntry) ([]types.EnrichedEntry, error) {
	stage := s.Engine.Stage(StageSummarize)
	files := enrich.PerItem(ctx, stage, entries, fileSummaryPrompt, keepText)
	project := enrich.Aggregate(ctx, stage, "project", entries, projectSummaryPrompt, keepText)
	if err := stage.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.EnrichedEntry, len(entries))
	for i, e := range entries {
		e.FileSummary = files[i]
		if project != nil {
			ps := *project
			e.ProjectSummary = &ps
		}
		out[i] = e
	}
	return out, nil
}

func keepText(s string) string { return s }
