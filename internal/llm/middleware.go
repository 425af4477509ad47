package llm

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Middleware decorates an LLMClient with a cross-cutting concern.
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithLogging logs prompt size, latency and errors of every call.
func WithLogging(logger hclog.Logger) Middleware {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next LLMClient
	log  hclog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) Complete(ctx context.Context, req Request) (string, error) {
	phase := PhaseFrom(ctx)
	l.log.Debug("llm request", "client", l.next.Name(), "phase", phase, "bytes", len(req.System)+len(req.User))
	start := time.Now()
	out, err := l.next.Complete(ctx, req)
	if err != nil {
		l.log.Warn("llm error", "client", l.next.Name(), "phase", phase, "elapsed", time.Since(start), "error", err)
		return out, err
	}
	l.log.Debug("llm response", "client", l.next.Name(), "phase", phase, "elapsed", time.Since(start), "bytes", len(out))
	return out, nil
}
