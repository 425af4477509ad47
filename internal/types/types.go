package types

// Verdict is the danger judgment attached to a file or to a whole batch.
type Verdict string

const (
	VerdictYes     Verdict = "yes"
	VerdictNo      Verdict = "no"
	VerdictUnknown Verdict = "unknown"
)

// Loader output ------------------------------------------------------------------

// FileEntry is one source file produced by the project loader.
type FileEntry struct {
	// Forward-slash path relative to the scan root (e.g. "src/app.js").
	Filename string `json:"filename"`
	// Parent folder of Filename; empty for files at the root.
	Folder   string `json:"folder"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Static analysis ----------------------------------------------------------------

// Finding is a single static-rule match. Line is 1-based and zero for
// whole-document rules, which set KeyPath instead.
type Finding struct {
	Pattern string `json:"pattern"`
	Line    int    `json:"line,omitempty"`
	Context string `json:"context"`
	KeyPath string `json:"keyPath,omitempty"`
}

// Enrichment ---------------------------------------------------------------------

// EnrichedEntry is a FileEntry plus the fields accreted by each stage.
// ProjectSummary is nil for single-file batches.
type EnrichedEntry struct {
	FileEntry
	StaticFindings []Finding `json:"static_findings"`
	FileSummary    string    `json:"file_summary"`
	ProjectSummary *string   `json:"project_summary,omitempty"`
	Danger         Verdict   `json:"danger"`
	Reason         string    `json:"reason"`
}

// OverallAnalysis is the batch-level verdict, only produced for batches of more
// than one entry.
type OverallAnalysis struct {
	OverallDanger Verdict `json:"overall_danger"`
	OverallReason string  `json:"overall_reason"`
}
