// Package pipeline runs a batch of file entries through static analysis,
// summarization and danger judgment.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"frscan/internal/enrich"
	"frscan/internal/logger"
	"frscan/internal/rules"
	"frscan/internal/types"
)

// Stage names reported in StageError.
const (
	StageLoader    = "loader"
	StageStatic    = "static"
	StageSummarize = "summarize"
	StageJudge     = "judge"
)

// StageError reports which stage aborted a batch.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

var ErrNoLoader = errors.New("pipeline: no loader configured")

// Loader turns an uploaded path into file entries.
type Loader interface {
	Load(ctx context.Context, path string) ([]types.FileEntry, error)
}

type Pipeline struct {
	static     StaticAnalyzer
	summarizer Summarizer
	judge      Judge
	loader     Loader
	log        hclog.Logger
}

type Deps struct {
	Engine *enrich.Engine
	Rules  *rules.Registry // nil means rules.Default()
	Loader Loader          // only needed by Scan and Load
	Log    hclog.Logger
}

func New(d Deps) *Pipeline {
	log := logger.OrNull(d.Log)
	return &Pipeline{
		static:     StaticAnalyzer{Rules: d.Rules},
		summarizer: Summarizer{Engine: d.Engine},
		judge:      Judge{Engine: d.Engine},
		loader:     d.Loader,
		log:        log,
	}
}

// Run enriches entries. The result holds one record per entry plus, when
// there is more than one entry, a trailing overall record. Any remote failure
// aborts the batch and no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, entries []types.FileEntry) ([]types.Record, error) {
	if len(entries) == 0 {
		return []types.Record{}, nil
	}
	log := p.log.With("batch", uuid.NewString(), "entries", len(entries))
	start := time.Now()

	analyzed, err := p.runStatic(entries)
	if err != nil {
		log.Error("stage failed", "stage", StageStatic, "error", err)
		return nil, &StageError{Stage: StageStatic, Err: err}
	}
	log.Debug("stage done", "stage", StageStatic, "elapsed", time.Since(start))

	t := time.Now()
	summarized, err := p.summarizer.Run(ctx, analyzed)
	if err != nil {
		log.Error("stage failed", "stage", StageSummarize, "error", err)
		return nil, &StageError{Stage: StageSummarize, Err: err}
	}
	log.Debug("stage done", "stage", StageSummarize, "elapsed", time.Since(t))

	t = time.Now()
	records, err := p.judge.Run(ctx, summarized)
	if err != nil {
		log.Error("stage failed", "stage", StageJudge, "error", err)
		return nil, &StageError{Stage: StageJudge, Err: err}
	}
	log.Debug("stage done", "stage", StageJudge, "elapsed", time.Since(t))

	log.Info("batch complete", "records", len(records), "elapsed", time.Since(start))
	return records, nil
}

// RunStatic applies only the rule registry; no remote calls are made.
func (p *Pipeline) RunStatic(entries []types.FileEntry) ([]types.Record, error) {
	analyzed, err := p.runStatic(entries)
	if err != nil {
		return nil, &StageError{Stage: StageStatic, Err: err}
	}
	out := make([]types.Record, len(analyzed))
	for i, e := range analyzed {
		out[i] = types.EntryRecord(e)
	}
	return out, nil
}

// Scan loads path and runs the batch.
func (p *Pipeline) Scan(ctx context.Context, path string) ([]types.Record, error) {
	entries, err := p.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, entries)
}

// Load runs the configured loader, reporting failures as loader stage errors.
func (p *Pipeline) Load(ctx context.Context, path string) ([]types.FileEntry, error) {
	if p.loader == nil {
		return nil, &StageError{Stage: StageLoader, Err: ErrNoLoader}
	}
	entries, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, &StageError{Stage: StageLoader, Err: err}
	}
	p.log.Debug("loaded", "path", path, "entries", len(entries))
	return entries, nil
}

// runStatic converts a panicking rule set into an error.
func (p *Pipeline) runStatic(entries []types.FileEntry) (out []types.EnrichedEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule set panic: %v", r)
		}
	}()
	return p.static.Run(entries), nil
}
