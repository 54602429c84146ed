package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"

	"chatdesk/internal/chains"
	"chatdesk/internal/llm/client"
	"chatdesk/internal/models"
	"chatdesk/internal/utils"
)

// TaskRequest is one preset task (detect, translate, summarize) to run on a
// provider model. A non-nil OnMessage switches to streaming: it receives
// every fragment in arrival order.
type TaskRequest struct {
	Params    chains.Payload
	OnMessage func(chunk string)
	Trace     models.TracePayload
}

// ChatExecutor runs preset tasks and returns the full output text.
type ChatExecutor interface {
	FetchPresetTaskResult(ctx context.Context, req TaskRequest) (string, error)
}

// APIKeySource resolves provider credentials.
type APIKeySource interface {
	GetApiKey(provider string) (string, error)
}

// ProviderSettings resolves per-provider settings such as a custom endpoint.
type ProviderSettings interface {
	ProviderConfig(provider string) (models.ProviderConfig, bool)
}

// ClientFactory builds an LLM client; client.New in production.
type ClientFactory func(ctx context.Context, opts client.Options) (*client.LLMClient, error)

// ChatService executes payloads on eino chat models, caching one client per
// provider, model and endpoint.
type ChatService struct {
	keys      APIKeySource
	providers ProviderSettings
	factory   ClientFactory
	retry     utils.RetryPolicy
	timeout   time.Duration

	mu      sync.Mutex
	clients map[string]*client.LLMClient
}

func NewChatService(keys APIKeySource, providers ProviderSettings, retry utils.RetryPolicy, timeout time.Duration) *ChatService {
	return &ChatService{
		keys:      keys,
		providers: providers,
		factory:   client.New,
		retry:     retry,
		timeout:   timeout,
		clients:   make(map[string]*client.LLMClient),
	}
}

// SetClientFactory replaces the client constructor and drops cached clients.
func (s *ChatService) SetClientFactory(factory ClientFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factory = factory
	s.clients = make(map[string]*client.LLMClient)
}

// InvalidateProvider drops cached clients of provider, e.g. after its API key
// changed.
func (s *ChatService) InvalidateProvider(provider string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := provider + "|"
	for key := range s.clients {
		if strings.HasPrefix(key, prefix) {
			delete(s.clients, key)
		}
	}
}

func (s *ChatService) FetchPresetTaskResult(ctx context.Context, req TaskRequest) (string, error) {
	provider := strings.TrimSpace(req.Params.Provider)
	model := strings.TrimSpace(req.Params.Model)
	if provider == "" || model == "" {
		return "", fmt.Errorf("chat: %s: provider and model are required", req.Trace.TraceName)
	}

	llm, err := s.clientFor(ctx, provider, model)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Printf("chat: %s on %s/%s (session=%s topic=%s)", req.Trace.TraceName, provider, model, req.Trace.SessionID, req.Trace.TopicID)

	if req.OnMessage == nil {
		var out string
		err := utils.Retry(ctx, s.retry, "chat generate", func(ctx context.Context) error {
			var err error
			out, err = llm.Generate(ctx, req.Params.Messages)
			return err
		})
		if err != nil {
			return "", fmt.Errorf("chat: %s: %w", req.Trace.TraceName, err)
		}
		return out, nil
	}

	// Only opening the stream is retried; fragments are never replayed.
	var reader *schema.StreamReader[*schema.Message]
	err = utils.Retry(ctx, s.retry, "chat stream", func(ctx context.Context) error {
		var err error
		reader, err = llm.OpenStream(ctx, req.Params.Messages)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("chat: %s: %w", req.Trace.TraceName, err)
	}
	out, err := client.Drain(reader, req.OnMessage)
	if err != nil {
		return out, fmt.Errorf("chat: %s: %w", req.Trace.TraceName, err)
	}
	return out, nil
}

func (s *ChatService) clientFor(ctx context.Context, provider, model string) (*client.LLMClient, error) {
	var endpoint string
	if s.providers != nil {
		if cfg, ok := s.providers.ProviderConfig(provider); ok {
			endpoint = strings.TrimSpace(cfg.Endpoint)
		}
	}
	cacheKey := provider + "|" + model + "|" + endpoint

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.clients[cacheKey]; ok {
		return cached, nil
	}

	if s.keys == nil {
		return nil, fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
	}
	key, err := s.keys.GetApiKey(provider)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%s api key: %w", provider, err)
	}

	llm, err := s.factory(ctx, client.Options{
		Provider: provider,
		Model:    model,
		APIKey:   key,
		BaseURL:  endpoint,
	})
	if err != nil {
		return nil, err
	}
	s.clients[cacheKey] = llm
	return llm, nil
}
