package pipeline

import (
	"context"

	"frscan/internal/enrich"
	"frscan/internal/types"
)

// Judge attaches a danger verdict to every entry and appends the overall
// verdict record for batches of more than one entry.
type Judge struct{ Engine *enrich.Engine }

func (j *Judge) Run(ctx context.Context, entries []types.EnrichedEntry) ([]types.Record, error) {
	stage := j.Engine.Stage(StageJudge)
	verdicts := enrich.PerItem(ctx, stage, entries, judgeFilePrompt, parseFileVerdict)
	overall := enrich.Aggregate(ctx, stage, "overall", entries, judgeOverallPrompt, parseOverallVerdict)
	if err := stage.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.Record, 0, len(entries)+1)
	for i, e := range entries {
		e.Danger = verdicts[i].Danger
		e.Reason = verdicts[i].Reason
		out = append(out, types.EntryRecord(e))
	}
	if overall != nil {
		out = append(out, types.OverallRecord(types.OverallAnalysis{
			OverallDanger: overall.Danger,
			OverallReason: overall.Reason,
		}))
	}
	return out, nil
}

func parseFileVerdict(text string) enrich.Verdict {
	return enrich.ParseVerdict(text, "danger", "reason")
}

func parseOverallVerdict(text string) enrich.Verdict {
	return enrich.ParseVerdict(text, "overall_danger", "overall_reason")
}
