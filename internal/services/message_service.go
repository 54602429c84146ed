package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"chatdesk/internal/events"
	"chatdesk/internal/idgen"
	"chatdesk/internal/models"
	"chatdesk/internal/repositories"
	"chatdesk/internal/utils"
)

// MessageService keeps the messages of the active session/topic in memory
// and writes changes through to the repository.
type MessageService struct {
	repo  repositories.MessageRepository
	retry utils.RetryPolicy

	mu        sync.RWMutex
	sessionID string
	topicID   string
	messages  []models.Message
	loading   map[string]string
}

func NewMessageService(repo repositories.MessageRepository, retry utils.RetryPolicy) *MessageService {
	return &MessageService{
		repo:    repo,
		retry:   retry,
		loading: make(map[string]string),
	}
}

// SetActive switches the active session/topic and reloads its messages.
func (s *MessageService) SetActive(ctx context.Context, sessionID, topicID string) error {
	s.mu.Lock()
	s.sessionID = sessionID
	s.topicID = topicID
	s.mu.Unlock()
	return s.RefreshMessages(ctx)
}

// Activate makes the session/topic owning the message with the given ID
// active.
func (s *MessageService) Activate(ctx context.Context, id string) error {
	msg, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.SetActive(ctx, msg.SessionID, msg.TopicID)
}

// RefreshMessages re-reads the active message list from the repository.
func (s *MessageService) RefreshMessages(ctx context.Context) error {
	s.mu.RLock()
	sessionID, topicID := s.sessionID, s.topicID
	s.mu.RUnlock()

	var list []models.Message
	err := utils.Retry(ctx, s.retry, "list messages", func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListByTopic(ctx, sessionID, topicID)
		return err
	})
	if err != nil {
		return fmt.Errorf("refresh messages: %w", err)
	}

	s.mu.Lock()
	s.messages = list
	s.mu.Unlock()

	events.Emit(ctx, events.MessagesRefreshed, events.NewMessages(len(list)))
	return nil
}

// Get returns a copy of the in-memory message with the given ID.
func (s *MessageService) Get(id string) (*models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			msg := copyMessage(s.messages[i])
			return &msg, true
		}
	}
	return nil, false
}

// List returns a copy of the active message list.
func (s *MessageService) List() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = copyMessage(m)
	}
	return out
}

// Create stores a new message in the active session/topic.
func (s *MessageService) Create(ctx context.Context, role, content string) (*models.Message, error) {
	if role == "" {
		return nil, fmt.Errorf("create message: role is required")
	}
	id, err := idgen.NewMessageID()
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.mu.RLock()
	msg := models.Message{
		ID:        id,
		SessionID: s.sessionID,
		TopicID:   s.topicID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.mu.RUnlock()

	err = utils.Retry(ctx, s.retry, "create message", func(ctx context.Context) error {
		return s.repo.Create(ctx, &msg)
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.messages = append(s.messages, copyMessage(msg))
	s.mu.Unlock()
	return &msg, nil
}

// UpdateMessage persists update and mirrors it on the in-memory copy.
func (s *MessageService) UpdateMessage(ctx context.Context, id string, update models.MessageUpdate) error {
	err := utils.Retry(ctx, s.retry, "update message", func(ctx context.Context) error {
		return s.repo.Update(ctx, id, update)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			update.Apply(&s.messages[i])
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteMessage removes the message from the store and the active list.
func (s *MessageService) DeleteMessage(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DispatchTranslate replaces the in-memory translate extra of a message
// without persisting it. A nil tr clears it.
func (s *MessageService) DispatchTranslate(ctx context.Context, id string, tr *models.ChatTranslate) {
	s.mu.Lock()
	found := false
	for i := range s.messages {
		if s.messages[i].ID != id {
			continue
		}
		found = true
		if tr == nil {
			s.messages[i].Translate = nil
		} else {
			next := *tr
			s.messages[i].Translate = &next
		}
		break
	}
	s.mu.Unlock()

	if !found {
		log.Printf("message service: dispatch translate to unknown message %s", id)
		return
	}
	if tr != nil {
		events.Emit(ctx, events.ChatTranslate, events.NewTranslate(id, *tr, false))
	}
}

// ToggleChatLoading marks a message as busy (loading) or idle. action names
// what is running, e.g. "translate".
func (s *MessageService) ToggleChatLoading(ctx context.Context, loading bool, id, action string) {
	s.mu.Lock()
	if loading {
		s.loading[id] = action
	} else {
		delete(s.loading, id)
	}
	s.mu.Unlock()

	events.Emit(ctx, events.ChatLoading, events.NewLoading(id, loading, action))
}

// LoadingIDs returns the IDs of messages with an action in progress.
func (s *MessageService) LoadingIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.loading))
	for id := range s.loading {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CurrentTracePayload tags a request with the active session/topic.
func (s *MessageService) CurrentTracePayload(name models.TraceName) models.TracePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.TracePayload{
		SessionID: s.sessionID,
		TopicID:   s.topicID,
		TraceName: name,
	}
}

func copyMessage(m models.Message) models.Message {
	if m.Translate != nil {
		tr := *m.Translate
		m.Translate = &tr
	}
	if m.TTS != nil {
		tts := *m.TTS
		m.TTS = &tts
	}
	return m
}
