package mocks

import (
	"context"
	"sync"

	"chatdesk/internal/utils"
)

// UserSettingsRepositoryMock stores the diff in memory unless a Func
// overrides the call.
type UserSettingsRepositoryMock struct {
	GetFunc    func(ctx context.Context) (utils.Tree, error)
	UpdateFunc func(ctx context.Context, diff utils.Tree) error
	ResetFunc  func(ctx context.Context) error

	mu          sync.Mutex
	diff        utils.Tree
	updateCalls int
	resetCalls  int
}

func (m *UserSettingsRepositoryMock) Get(ctx context.Context) (utils.Tree, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return utils.Merge(m.diff, nil), nil
}

func (m *UserSettingsRepositoryMock) Update(ctx context.Context, diff utils.Tree) error {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, diff)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diff = utils.Merge(diff, nil)
	return nil
}

func (m *UserSettingsRepositoryMock) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.resetCalls++
	m.mu.Unlock()
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diff = nil
	return nil
}

// Stored returns the persisted diff.
func (m *UserSettingsRepositoryMock) Stored() utils.Tree {
	m.mu.Lock()
	defer m.mu.Unlock()
	return utils.Merge(m.diff, nil)
}

func (m *UserSettingsRepositoryMock) UpdateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

func (m *UserSettingsRepositoryMock) ResetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCalls
}
