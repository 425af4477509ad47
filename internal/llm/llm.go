// Package llm wraps the remote text-generation providers behind a single
// LLMClient interface and a chain of middlewares.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// LLMClient completes one prompt and returns the raw model text.
type LLMClient interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
	Close() error
}

// Request is a single system+user prompt pair. An empty Model means the
// client's configured default.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float32
}

var ErrEmptyResponse = errors.New("llm: empty response from model")

// APIError is returned when a provider answers with a non-2xx status.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

type ctxKeyPhase struct{}

// WithPhase tags ctx with the pipeline phase issuing the call, e.g.
// "summarize.file" or "judge.overall".
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase string stored in the context.
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
