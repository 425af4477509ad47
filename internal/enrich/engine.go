// Package enrich is the bounded fan-out/fan-in core shared by the
// summarization and danger-judgment stages.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"frscan/internal/llm"
	"frscan/internal/logger"
	"frscan/internal/types"
)

const DefaultMaxConcurrent = 5

type Config struct {
	// MaxConcurrent caps in-flight remote calls per stage invocation.
	MaxConcurrent int
	Model         string
	Temperature   float32
}

// Engine issues remote calls through one client handle.
type Engine struct {
	client llm.LLMClient
	cfg    Config
	log    hclog.Logger
}

func New(client llm.LLMClient, cfg Config, log hclog.Logger) *Engine {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	return &Engine{client: client, cfg: cfg, log: logger.OrNull(log)}
}

func (e *Engine) Config() Config { return e.cfg }

// Prompt is the input of one remote call.
type Prompt struct {
	System string
	User   string
}

// Stage is one stage invocation. Every call scheduled on it, per-item or
// aggregate, passes through the same gate. Results handed out by PerItem and
// Aggregate are valid once Wait returns nil.
type Stage struct {
	e    *Engine
	name string
	sem  *semaphore.Weighted
	g    errgroup.Group
}

// Stage opens a new invocation named name ("summarize", "judge").
func (e *Engine) Stage(name string) *Stage {
	return &Stage{e: e, name: name, sem: semaphore.NewWeighted(int64(e.cfg.MaxConcurrent))}
}

// Wait blocks until every scheduled call has settled and returns the first
// failure, if any. A failing call does not cancel the others.
func (s *Stage) Wait() error {
	return s.g.Wait()
}

func (s *Stage) call(ctx context.Context, phase string, p Prompt) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	out, err := s.e.client.Complete(llm.WithPhase(ctx, phase), llm.Request{
		System:      p.System,
		User:        p.User,
		Model:       s.e.cfg.Model,
		Temperature: s.e.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// PerItem schedules one call per entry. The returned slice is index-aligned
// with entries regardless of completion order.
func PerItem[T any](ctx context.Context, s *Stage, entries []types.EnrichedEntry, build func(types.EnrichedEntry) Prompt, parse func(string) T) []T {
	out := make([]T, len(entries))
	phase := s.name + ".file"
	for i := range entries {
		s.g.Go(func() error {
			text, err := s.call(ctx, phase, build(entries[i]))
			if err != nil {
				return fmt.Errorf("%s %s: %w", s.name, entries[i].Filename, err)
			}
			out[i] = parse(text)
			return nil
		})
	}
	s.e.log.Debug("scheduled per-item calls", "stage", s.name, "count", len(entries))
	return out
}

// Aggregate schedules a single call over the whole batch under the phase
// "<stage>.<scope>". It returns nil, issuing nothing, when the batch has one
// entry or fewer.
func Aggregate[T any](ctx context.Context, s *Stage, scope string, entries []types.EnrichedEntry, build func([]types.EnrichedEntry) Prompt, parse func(string) T) *T {
	if len(entries) <= 1 {
		return nil
	}
	out := new(T)
	phase := s.name + "." + scope
	s.g.Go(func() error {
		text, err := s.call(ctx, phase, build(entries))
		if err != nil {
			return fmt.Errorf("%s %s: %w", s.name, scope, err)
		}
		*out = parse(text)
		return nil
	})
	return out
}
