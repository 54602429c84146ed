package mocks

import (
	"context"
	"sync"

	"chatdesk/internal/models"
	"chatdesk/internal/services"
)

// ChatExecutorMock records every request and answers through FetchFunc.
type ChatExecutorMock struct {
	FetchFunc func(ctx context.Context, req services.TaskRequest) (string, error)

	mu       sync.Mutex
	requests []services.TaskRequest
}

func (m *ChatExecutorMock) FetchPresetTaskResult(ctx context.Context, req services.TaskRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, req)
	}
	return "", nil
}

// RequestsFor returns the recorded requests with the given trace name.
func (m *ChatExecutorMock) RequestsFor(name models.TraceName) []services.TaskRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []services.TaskRequest
	for _, r := range m.requests {
		if r.Trace.TraceName == name {
			out = append(out, r)
		}
	}
	return out
}
