package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatdesk/internal/models"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	ChatLoading         = "events:chat:loading"
	ChatTranslate       = "events:chat:translate"
	ChatTranslateFailed = "events:chat:translate:failed"
	MessagesRefreshed   = "events:chat:messages"
	SettingsUpdated     = "events:settings:updated"
)

// LoadingEvent signals that an action on a message started or finished.
type LoadingEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	MessageID string    `json:"messageId,omitempty"`
	Loading   bool      `json:"loading"`
	Action    string    `json:"action,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
}

// TranslateEvent carries the current translation of a message. Final is set
// on the persisted last write.
type TranslateEvent struct {
	ID        string                `json:"id"`
	Type      EventType             `json:"type"`
	MessageID string                `json:"messageId"`
	Translate *models.ChatTranslate `json:"translate"`
	Final     bool                  `json:"final"`
	Error     string                `json:"error,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
	SessionID string                `json:"sessionId,omitempty"`
}

// SettingsEvent carries the persisted settings diff after a change.
type SettingsEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Diff      map[string]any `json:"diff"`
	Timestamp time.Time      `json:"timestamp"`
}

// MessagesEvent signals that the in-memory message list was re-read.
type MessagesEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
}

func NewLoading(messageID string, loading bool, action string) LoadingEvent {
	return LoadingEvent{
		ID:        uuid.NewString(),
		Type:      EventInfo,
		MessageID: messageID,
		Loading:   loading,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func NewTranslate(messageID string, tr models.ChatTranslate, final bool) TranslateEvent {
	eventType := EventInfo
	if final {
		eventType = EventSuccess
	}
	return TranslateEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		MessageID: messageID,
		Translate: &tr,
		Final:     final,
		Timestamp: time.Now(),
	}
}

func NewTranslateFailed(messageID string, err error) TranslateEvent {
	return TranslateEvent{
		ID:        uuid.NewString(),
		Type:      EventError,
		MessageID: messageID,
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
}

func NewSettings(diff map[string]any) SettingsEvent {
	return SettingsEvent{
		ID:        uuid.NewString(),
		Type:      EventSuccess,
		Diff:      diff,
		Timestamp: time.Now(),
	}
}

func NewMessages(count int) MessagesEvent {
	return MessagesEvent{
		ID:        uuid.NewString(),
		Type:      EventInfo,
		Count:     count,
		Timestamp: time.Now(),
	}
}

type contextKey string

const sessionContextKey contextKey = "chatdesk/events/session"

// WithSession returns a derived context annotated with the given chat
// session so emitters can scope payloads.
func WithSession(ctx context.Context, sessionID string) context.Context {
	if strings.TrimSpace(sessionID) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionFromContext extracts the session associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

// typeOf extracts the severity of a known payload.
func typeOf(payload any) EventType {
	switch evt := payload.(type) {
	case LoadingEvent:
		return evt.Type
	case TranslateEvent:
		return evt.Type
	case SettingsEvent:
		return evt.Type
	case MessagesEvent:
		return evt.Type
	default:
		return EventInfo
	}
}

// withSession stamps the session from ctx on payloads that carry one.
func withSession(ctx context.Context, payload any) any {
	session := SessionFromContext(ctx)
	if session == "" {
		return payload
	}
	switch evt := payload.(type) {
	case LoadingEvent:
		if evt.SessionID == "" {
			evt.SessionID = session
		}
		return evt
	case TranslateEvent:
		if evt.SessionID == "" {
			evt.SessionID = session
		}
		return evt
	case MessagesEvent:
		if evt.SessionID == "" {
			evt.SessionID = session
		}
		return evt
	default:
		return payload
	}
}
