package pipeline

import (
	"frscan/internal/rules"
	"frscan/internal/types"
)

// StaticAnalyzer attaches rule findings to each entry. It never fails.
type StaticAnalyzer struct{ Rules *rules.Registry }

func (s *StaticAnalyzer) Run(entries []types.FileEntry) []types.EnrichedEntry {
	reg := s.Rules
	if reg == nil {
		reg = rules.Default()
	}
	out := make([]types.EnrichedEntry, len(entries))
	for i, e := range entries {
		out[i] = types.EnrichedEntry{FileEntry: e, StaticFindings: reg.Scan(e.Language, e.Code)}
	}
	return out
}
