package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"chatdesk/internal/chains"
	"chatdesk/internal/events"
	"chatdesk/internal/locales"
	"chatdesk/internal/models"
)

// MessageStore is the message state the enhance actions work on.
type MessageStore interface {
	Get(id string) (*models.Message, bool)
	UpdateMessage(ctx context.Context, id string, update models.MessageUpdate) error
	RefreshMessages(ctx context.Context) error
	DispatchTranslate(ctx context.Context, id string, tr *models.ChatTranslate)
	ToggleChatLoading(ctx context.Context, loading bool, id, action string)
	CurrentTracePayload(name models.TraceName) models.TracePayload
}

// AgentSource exposes the settings the enhance actions depend on.
type AgentSource interface {
	CurrentSystemAgent() models.SystemAgentConfig
	CurrentLanguage() string
}

type TranslationState string

const (
	TranslationIdle        TranslationState = "idle"
	TranslationDetecting   TranslationState = "detecting"
	TranslationTranslating TranslationState = "translating"
	TranslationDone        TranslationState = "done"
	TranslationError       TranslationState = "error"
)

// TranslationStatus is the progress of the last translation of a message.
type TranslationStatus struct {
	State       TranslationState `json:"state"`
	From        string           `json:"from,omitempty"`
	To          string           `json:"to,omitempty"`
	DetectError string           `json:"detectError,omitempty"`
	Error       string           `json:"error,omitempty"`
}

const actionTranslate = "translate"

// EnhanceService implements the message enhance actions: translation and
// TTS state, plus topic title summaries.
type EnhanceService struct {
	messages MessageStore
	agents   AgentSource
	chat     ChatExecutor
	locales  *locales.Registry
	summary  chains.SummaryTitleOptions

	mu     sync.Mutex
	status map[string]*TranslationStatus
}

func NewEnhanceService(messages MessageStore, agents AgentSource, chat ChatExecutor, registry *locales.Registry, summary chains.SummaryTitleOptions) *EnhanceService {
	if registry == nil {
		registry = locales.NewRegistry(nil)
	}
	return &EnhanceService{
		messages: messages,
		agents:   agents,
		chat:     chat,
		locales:  registry,
		summary:  summary,
		status:   make(map[string]*TranslationStatus),
	}
}

// TranslateMessage translates the message into targetLang. Source language
// detection runs alongside the streamed translation; every fragment updates
// the in-memory message and the joined result is persisted last. An unknown
// id is ignored.
func (s *EnhanceService) TranslateMessage(ctx context.Context, id, targetLang string) error {
	msg, ok := s.messages.Get(id)
	if !ok {
		return nil
	}
	if !s.begin(id, targetLang) {
		return fmt.Errorf("translate %s: %w", id, ErrTranslationInProgress)
	}

	agent := s.agents.CurrentSystemAgent().Translation

	if err := s.UpdateMessageTranslate(ctx, id, &models.ChatTranslate{To: targetLang}); err != nil {
		s.fail(id, err)
		return fmt.Errorf("translate %s: %w", id, err)
	}
	s.messages.ToggleChatLoading(ctx, true, id, actionTranslate)
	defer s.messages.ToggleChatLoading(ctx, false, id, "")

	var (
		mu      sync.Mutex
		content strings.Builder
		from    string
	)
	snapshot := func() models.ChatTranslate {
		return models.ChatTranslate{Content: content.String(), From: from, To: targetLang}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		payload := chains.LangDetect(msg.Content).WithAgent(agent.Provider, agent.Model)
		raw, err := s.chat.FetchPresetTaskResult(gctx, TaskRequest{
			Params: payload,
			Trace:  s.messages.CurrentTracePayload(models.TraceLanguageDetect),
		})
		if err != nil {
			log.Printf("enhance: detect language of %s: %v", id, err)
			s.detectFailed(id, err)
			return nil
		}
		locale, ok := s.locales.Normalize(raw)
		if !ok {
			log.Printf("enhance: unrecognized language %q for %s", strings.TrimSpace(raw), id)
			s.detected(id, "")
			return nil
		}

		mu.Lock()
		from = locale
		tr := snapshot()
		mu.Unlock()
		s.detected(id, locale)

		if err := s.UpdateMessageTranslate(gctx, id, &tr); err != nil {
			log.Printf("enhance: persist detected language of %s: %v", id, err)
			s.detectFailed(id, err)
		}
		return nil
	})

	g.Go(func() error {
		payload := chains.Translate(msg.Content, targetLang).WithAgent(agent.Provider, agent.Model)
		_, err := s.chat.FetchPresetTaskResult(gctx, TaskRequest{
			Params: payload,
			Trace:  s.messages.CurrentTracePayload(models.TraceTranslator),
			OnMessage: func(chunk string) {
				mu.Lock()
				content.WriteString(chunk)
				tr := snapshot()
				mu.Unlock()
				s.setState(id, TranslationTranslating)
				s.messages.DispatchTranslate(ctx, id, &tr)
			},
		})
		return err
	})

	if err := g.Wait(); err != nil {
		s.fail(id, err)
		events.Emit(ctx, events.ChatTranslateFailed, events.NewTranslateFailed(id, err))
		return fmt.Errorf("translate %s: %w", id, err)
	}

	mu.Lock()
	final := snapshot()
	mu.Unlock()

	if err := s.UpdateMessageTranslate(ctx, id, &final); err != nil {
		s.fail(id, err)
		return fmt.Errorf("translate %s: %w", id, err)
	}
	events.Emit(ctx, events.ChatTranslate, events.NewTranslate(id, final, true))
	s.setState(id, TranslationDone)
	return nil
}

// TranslationStatus reports the progress of the last translation of id.
func (s *EnhanceService) TranslationStatus(id string) TranslationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[id]; ok {
		return *st
	}
	return TranslationStatus{State: TranslationIdle}
}

func (s *EnhanceService) begin(id, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[id]; ok && (st.State == TranslationDetecting || st.State == TranslationTranslating) {
		return false
	}
	s.status[id] = &TranslationStatus{State: TranslationDetecting, To: to}
	return true
}

func (s *EnhanceService) setState(id string, state TranslationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[id]; ok && st.State != TranslationError {
		st.State = state
	}
}

func (s *EnhanceService) detected(id, from string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[id]; ok {
		st.From = from
		if st.State == TranslationDetecting {
			st.State = TranslationTranslating
		}
	}
}

func (s *EnhanceService) detectFailed(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[id]; ok {
		st.DetectError = err.Error()
		if st.State == TranslationDetecting {
			st.State = TranslationTranslating
		}
	}
}

func (s *EnhanceService) fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[id]
	if !ok {
		st = &TranslationStatus{}
		s.status[id] = st
	}
	st.State = TranslationError
	st.Error = err.Error()
}

// ClearTranslate removes the translation of a message.
func (s *EnhanceService) ClearTranslate(ctx context.Context, id string) error {
	return s.UpdateMessageTranslate(ctx, id, nil)
}

// ClearTTS removes the TTS state of a message.
func (s *EnhanceService) ClearTTS(ctx context.Context, id string) error {
	return s.UpdateMessageTTS(ctx, id, nil)
}

// TTSMessage records the TTS state of a message.
func (s *EnhanceService) TTSMessage(ctx context.Context, id string, state models.ChatTTS) error {
	return s.UpdateMessageTTS(ctx, id, &state)
}

// UpdateMessageTranslate persists tr (nil clears it) and reloads messages.
func (s *EnhanceService) UpdateMessageTranslate(ctx context.Context, id string, tr *models.ChatTranslate) error {
	update := models.MessageUpdate{Translate: tr, ClearTranslate: tr == nil}
	if err := s.messages.UpdateMessage(ctx, id, update); err != nil {
		return fmt.Errorf("update translate of %s: %w", id, err)
	}
	return s.messages.RefreshMessages(ctx)
}

// UpdateMessageTTS persists tts (nil clears it) and reloads messages.
func (s *EnhanceService) UpdateMessageTTS(ctx context.Context, id string, tts *models.ChatTTS) error {
	update := models.MessageUpdate{TTS: tts, ClearTTS: tts == nil}
	if err := s.messages.UpdateMessage(ctx, id, update); err != nil {
		return fmt.Errorf("update tts of %s: %w", id, err)
	}
	return s.messages.RefreshMessages(ctx)
}

// SummarizeTitle asks the function agent for a short title of messages in
// the current UI language.
func (s *EnhanceService) SummarizeTitle(ctx context.Context, messages []models.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("summarize title: no messages")
	}
	history := lo.Map(messages, func(m models.Message, _ int) *schema.Message {
		return &schema.Message{Role: schema.RoleType(m.Role), Content: m.Content}
	})

	agent := s.agents.CurrentSystemAgent().Function
	payload := chains.SummaryTitle(history, s.agents.CurrentLanguage(), s.summary).
		WithAgent(agent.Provider, agent.Model)

	out, err := s.chat.FetchPresetTaskResult(ctx, TaskRequest{
		Params: payload,
		Trace:  s.messages.CurrentTracePayload(models.TraceSummaryTitle),
	})
	if err != nil {
		return "", fmt.Errorf("summarize title: %w", err)
	}
	return strings.Trim(strings.TrimSpace(out), "\"'`"), nil
}
