package models

import "time"

// ChatTranslate is the translation extra attached to a message.
type ChatTranslate struct {
	Content string `json:"content"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// ChatTTS is the text-to-speech extra attached to a message.
type ChatTTS struct {
	ContentMd5 string `json:"contentMd5,omitempty"`
	File       string `json:"file,omitempty"`
	Voice      string `json:"voice,omitempty"`
}

// Message is a single chat message. A nil Translate or TTS means the extra
// is absent.
type Message struct {
	ID        string         `gorm:"primaryKey;size:32" json:"id"`
	SessionID string         `gorm:"size:64;index:idx_message_session_topic" json:"sessionId"`
	TopicID   string         `gorm:"size:64;index:idx_message_session_topic" json:"topicId,omitempty"`
	Role      string         `gorm:"size:16;not null" json:"role"`
	Content   string         `gorm:"type:text" json:"content"`
	Translate *ChatTranslate `gorm:"type:text;serializer:json" json:"translate,omitempty"`
	TTS       *ChatTTS       `gorm:"column:tts;type:text;serializer:json" json:"tts,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// MessageUpdate lists the fields to change on a message. Nil pointers are
// left untouched; the Clear flags reset the matching extra to absent.
type MessageUpdate struct {
	Content        *string
	Translate      *ChatTranslate
	ClearTranslate bool
	TTS            *ChatTTS
	ClearTTS       bool
}

// IsEmpty reports whether the update changes nothing.
func (u MessageUpdate) IsEmpty() bool {
	return u.Content == nil && u.Translate == nil && !u.ClearTranslate && u.TTS == nil && !u.ClearTTS
}

// Apply copies the update onto m and returns the changed column names.
func (u MessageUpdate) Apply(m *Message) []string {
	var columns []string
	if u.Content != nil {
		m.Content = *u.Content
		columns = append(columns, "content")
	}
	if u.ClearTranslate {
		m.Translate = nil
		columns = append(columns, "translate")
	} else if u.Translate != nil {
		tr := *u.Translate
		m.Translate = &tr
		columns = append(columns, "translate")
	}
	if u.ClearTTS {
		m.TTS = nil
		columns = append(columns, "tts")
	} else if u.TTS != nil {
		tts := *u.TTS
		m.TTS = &tts
		columns = append(columns, "tts")
	}
	return columns
}
