package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// ErrUnsupportedProvider is returned for providers without a client.
var ErrUnsupportedProvider = errors.New("unsupported provider")

const defaultMaxTokens = 4096

// LLMClient runs prompts against one provider model.
type LLMClient struct {
	ChatModel model.BaseChatModel
	Provider  string
	Model     string
}

// Options selects and authenticates a provider model.
type Options struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint (proxies, compatible servers).
	BaseURL string
}

// New builds a client for opts.Provider.
func New(ctx context.Context, opts Options) (*LLMClient, error) {
	switch strings.TrimSpace(opts.Provider) {
	case "openai":
		return NewOpenAIClient(ctx, opts)
	case "anthropic":
		return NewClaudeClient(ctx, opts)
	case "google":
		return NewGeminiClient(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, opts.Provider)
	}
}

func NewOpenAIClient(ctx context.Context, opts Options) (*LLMClient, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  opts.APIKey,
		Model:   opts.Model,
		BaseURL: opts.BaseURL,
	})
	if err != nil {
		log.Printf("Error creating OpenAI client: %v", err)
		return nil, err
	}
	return &LLMClient{ChatModel: chatModel, Provider: "openai", Model: opts.Model}, nil
}

func NewClaudeClient(ctx context.Context, opts Options) (*LLMClient, error) {
	cfg := &claude.Config{
		APIKey:    opts.APIKey,
		Model:     opts.Model,
		MaxTokens: defaultMaxTokens,
	}
	if opts.BaseURL != "" {
		baseURL := opts.BaseURL
		cfg.BaseURL = &baseURL
	}
	chatModel, err := claude.NewChatModel(ctx, cfg)
	if err != nil {
		log.Printf("Error creating Claude client: %v", err)
		return nil, err
	}
	return &LLMClient{ChatModel: chatModel, Provider: "anthropic", Model: opts.Model}, nil
}

func NewGeminiClient(ctx context.Context, opts Options) (*LLMClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	genaiClient, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return nil, err
	}
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: genaiClient,
		Model:  opts.Model,
	})
	if err != nil {
		log.Printf("Error creating Gemini chat model: %v", err)
		return nil, err
	}
	return &LLMClient{ChatModel: chatModel, Provider: "google", Model: opts.Model}, nil
}

// Generate runs messages and returns the assistant text.
func (c *LLMClient) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	out, err := c.ChatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", fmt.Errorf("%s/%s returned no message", c.Provider, c.Model)
	}
	return out.Content, nil
}

// OpenStream starts a streaming request. Failing here means no fragment was
// delivered yet, so the caller may safely retry.
func (c *LLMClient) OpenStream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[*schema.Message], error) {
	reader, err := c.ChatModel.Stream(ctx, messages)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, fmt.Errorf("%s/%s returned nil stream reader", c.Provider, c.Model)
	}
	return reader, nil
}

// Drain reads reader to the end, handing every non-empty fragment to
// onChunk in arrival order, and returns the accumulated text.
func Drain(reader *schema.StreamReader[*schema.Message], onChunk func(string)) (string, error) {
	defer reader.Close()

	var content strings.Builder
	for {
		msg, recvErr := reader.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				break
			}
			log.Printf("stream recv error: %v", recvErr)
			return content.String(), recvErr
		}
		if msg == nil || msg.Content == "" {
			continue
		}
		content.WriteString(msg.Content)
		if onChunk != nil {
			onChunk(msg.Content)
		}
	}
	return content.String(), nil
}

// Stream runs messages in streaming mode; see Drain.
func (c *LLMClient) Stream(ctx context.Context, messages []*schema.Message, onChunk func(string)) (string, error) {
	reader, err := c.OpenStream(ctx, messages)
	if err != nil {
		return "", err
	}
	return Drain(reader, onChunk)
}
