package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"chatdesk/internal/models"
	"chatdesk/internal/repositories"
)

// MessageRepositoryMock keeps messages in memory unless a Func overrides the
// call.
type MessageRepositoryMock struct {
	CreateFunc      func(ctx context.Context, msg *models.Message) error
	GetFunc         func(ctx context.Context, id string) (*models.Message, error)
	ListByTopicFunc func(ctx context.Context, sessionID, topicID string) ([]models.Message, error)
	UpdateFunc      func(ctx context.Context, id string, update models.MessageUpdate) error
	DeleteFunc      func(ctx context.Context, id string) error

	mu       sync.Mutex
	messages map[string]models.Message
	updates  []models.MessageUpdate
	lists    int
}

func NewMessageRepositoryMock(messages ...models.Message) *MessageRepositoryMock {
	m := &MessageRepositoryMock{messages: make(map[string]models.Message)}
	for _, msg := range messages {
		m.messages[msg.ID] = msg
	}
	return m
}

func (m *MessageRepositoryMock) Create(ctx context.Context, msg *models.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messages == nil {
		m.messages = make(map[string]models.Message)
	}
	m.messages[msg.ID] = *msg
	return nil
}

func (m *MessageRepositoryMock) Get(ctx context.Context, id string) (*models.Message, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, repositories.ErrMessageNotFound)
	}
	return &msg, nil
}

func (m *MessageRepositoryMock) ListByTopic(ctx context.Context, sessionID, topicID string) ([]models.Message, error) {
	if m.ListByTopicFunc != nil {
		return m.ListByTopicFunc(ctx, sessionID, topicID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	var list []models.Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID && msg.TopicID == topicID {
			list = append(list, msg)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MessageRepositoryMock) Update(ctx context.Context, id string, update models.MessageUpdate) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return fmt.Errorf("message %s: %w", id, repositories.ErrMessageNotFound)
	}
	m.updates = append(m.updates, update)
	update.Apply(&msg)
	m.messages[id] = msg
	return nil
}

func (m *MessageRepositoryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[id]; !ok {
		return fmt.Errorf("message %s: %w", id, repositories.ErrMessageNotFound)
	}
	delete(m.messages, id)
	return nil
}

// Stored returns the persisted copy of a message.
func (m *MessageRepositoryMock) Stored(id string) (models.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	return msg, ok
}

// Updates returns the persisted updates in order.
func (m *MessageRepositoryMock) Updates() []models.MessageUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.MessageUpdate(nil), m.updates...)
}

// ListCount returns how many times a message list was read.
func (m *MessageRepositoryMock) ListCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}
