package llm

import (
	"context"
	"sync"
	"time"
)

// Responder produces the fake model text for one request.
type Responder func(ctx context.Context, req Request) (string, error)

// FakeClient answers offline with deterministic text per phase. Tests can
// script responses, inject latency and inspect concurrency.
type FakeClient struct {
	respond Responder
	delay   func(Request) time.Duration

	mu       sync.Mutex
	calls    []Request
	inFlight int
	peak     int
}

type FakeOption func(*FakeClient)

// WithResponder replaces the default phase-based answers.
func WithResponder(r Responder) FakeOption {
	return func(f *FakeClient) { f.respond = r }
}

// WithDelay makes each call block for the returned duration.
func WithDelay(d func(Request) time.Duration) FakeOption {
	return func(f *FakeClient) { f.delay = d }
}

func NewFakeClient(opts ...FakeOption) *FakeClient {
	f := &FakeClient{}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Complete(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay != nil {
		if d := f.delay(req); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return "", ctx.Err()
			case <-t.C:
			}
		}
	}
	if f.respond != nil {
		return f.respond(ctx, req)
	}
	return fakeAnswer(PhaseFrom(ctx)), nil
}

// Calls returns a copy of every request received so far.
func (f *FakeClient) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}

// Peak is the highest number of concurrent Complete calls observed.
func (f *FakeClient) Peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

func fakeAnswer(phase string) string {
	switch phase {
	case "summarize.file":
		return "Fake summary of the file."
	case "summarize.project":
		return "Fake summary of the project."
	case "judge.file":
		return `{"danger": "no", "reason": "fake judgment"}`
	case "judge.overall":
		return `{"overall_danger": "no", "overall_reason": "fake judgment"}`
	default:
		return ""
	}
}
