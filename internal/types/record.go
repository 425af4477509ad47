package types

import (
	"encoding/json"
	"errors"

	"frscan/internal/util/jsonutil"
)

// Record is one element of a batch result: either an enriched file entry or,
// as the trailing element of a multi-file batch, the overall analysis.
// Exactly one of Entry and Overall is set.
type Record struct {
	Entry   *EnrichedEntry
	Overall *OverallAnalysis
}

// EntryRecord wraps an enriched entry.
func EntryRecord(e EnrichedEntry) Record { return Record{Entry: &e} }

// OverallRecord wraps the batch verdict.
func OverallRecord(o OverallAnalysis) Record { return Record{Overall: &o} }

type overallWire struct {
	Overall *OverallAnalysis `json:"overall_analysis"`
}

// MarshalJSON renders entries flat and the overall analysis as
// {"overall_analysis": {...}}.
func (r Record) MarshalJSON() ([]byte, error) {
	switch {
	case r.Entry != nil:
		return jsonutil.MarshalNoEscape(r.Entry)
	case r.Overall != nil:
		return jsonutil.MarshalNoEscape(overallWire{Overall: r.Overall})
	default:
		return nil, errors.New("types: empty record")
	}
}

// UnmarshalJSON accepts both record shapes.
func (r *Record) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if raw, ok := probe["overall_analysis"]; ok {
		if _, hasFile := probe["filename"]; !hasFile {
			var o OverallAnalysis
			if err := json.Unmarshal(raw, &o); err != nil {
				return err
			}
			*r = Record{Overall: &o}
			return nil
		}
	}
	var e EnrichedEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	*r = Record{Entry: &e}
	return nil
}

// Entries returns the enriched entries of a result, skipping the overall record.
func Entries(records []Record) []EnrichedEntry {
	out := make([]EnrichedEntry, 0, len(records))
	for _, r := range records {
		if r.Entry != nil {
			out = append(out, *r.Entry)
		}
	}
	return out
}

// Overall returns the trailing overall analysis, if any.
func Overall(records []Record) (OverallAnalysis, bool) {
	if n := len(records); n > 0 && records[n-1].Overall != nil {
		return *records[n-1].Overall, true
	}
	return OverallAnalysis{}, false
}
