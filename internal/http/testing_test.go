package httpx

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/smartsec/portal-bff/internal/upstream"
)

// newTestLogger returns a logger that discards output.
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCaller records upstream calls and returns canned responses. Safe
// for concurrent use so aggregate handlers can fan out against it.
type fakeCaller struct {
	mu      sync.Mutex
	calls   []upstream.Call
	respond func(call upstream.Call) (upstream.Response, error)
}

func (f *fakeCaller) Do(_ context.Context, call upstream.Call) (upstream.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(call)
	}
	return upstream.Response{Status: 200, Body: []byte(`{}`)}, nil
}

func (f *fakeCaller) lastCall() upstream.Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}
