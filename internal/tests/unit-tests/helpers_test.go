package unit_tests

import (
	"context"
	"sync"
	"testing"

	"chatdesk/internal/events"
	"chatdesk/internal/utils"
)

var noRetry = utils.RetryPolicy{MaxAttempts: 1}

type emitted struct {
	Name    string
	Payload any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []emitted
}

// recordEvents routes events to a recorder for the duration of the test.
func recordEvents(t *testing.T) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{}
	events.SetCustomEmitter(func(_ context.Context, name string, payload any) {
		rec.mu.Lock()
		rec.events = append(rec.events, emitted{Name: name, Payload: payload})
		rec.mu.Unlock()
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return rec
}

func (r *eventRecorder) named(name string) []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []emitted
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
