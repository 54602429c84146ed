package unit_tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/chains"
	"chatdesk/internal/llm/client"
	"chatdesk/internal/models"
	"chatdesk/internal/services"
	"chatdesk/internal/utils"
)

type fakeChatModel struct {
	mu         sync.Mutex
	reply      string
	chunks     []string
	streamErrs []error
	streams    int
}

func (f *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streams++
	if len(f.streamErrs) > 0 {
		err := f.streamErrs[0]
		f.streamErrs = f.streamErrs[1:]
		return nil, err
	}
	msgs := make([]*schema.Message, 0, len(f.chunks))
	for _, c := range f.chunks {
		msgs = append(msgs, schema.AssistantMessage(c, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

type providerSettingsStub map[string]models.ProviderConfig

func (p providerSettingsStub) ProviderConfig(provider string) (models.ProviderConfig, bool) {
	cfg, ok := p[provider]
	return cfg, ok
}

func keyringWith(keys map[string]string) *services.KeyringService {
	var items []keyring.Item
	for k, v := range keys {
		items = append(items, keyring.Item{Key: k, Data: []byte(v)})
	}
	return services.NewKeyringService(keyring.NewArrayKeyring(items))
}

type factoryRecorder struct {
	mu    sync.Mutex
	calls []client.Options
	model *fakeChatModel
}

func (r *factoryRecorder) build(_ context.Context, opts client.Options) (*client.LLMClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, opts)
	return &client.LLMClient{ChatModel: r.model, Provider: opts.Provider, Model: opts.Model}, nil
}

func translatePayload() chains.Payload {
	return chains.Translate("Hello", "fr-FR").WithAgent("openai", "gpt-3.5-turbo")
}

func TestChatService_StreamsFragmentsInOrder(t *testing.T) {
	rec := &factoryRecorder{model: &fakeChatModel{chunks: []string{"Bon", "jour"}}}
	svc := services.NewChatService(keyringWith(map[string]string{"openai": "sk-test"}), nil, noRetry, time.Minute)
	svc.SetClientFactory(rec.build)

	var got []string
	out, err := svc.FetchPresetTaskResult(context.Background(), services.TaskRequest{
		Params:    translatePayload(),
		OnMessage: func(chunk string) { got = append(got, chunk) },
		Trace:     models.TracePayload{TraceName: models.TraceTranslator},
	})

	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	assert.Equal(t, []string{"Bon", "jour"}, got)
}

func TestChatService_GenerateWithoutCallback(t *testing.T) {
	rec := &factoryRecorder{model: &fakeChatModel{reply: "en-US"}}
	svc := services.NewChatService(keyringWith(map[string]string{"openai": "sk-test"}), nil, noRetry, 0)
	svc.SetClientFactory(rec.build)

	out, err := svc.FetchPresetTaskResult(context.Background(), services.TaskRequest{
		Params: chains.LangDetect("hello").WithAgent("openai", "gpt-3.5-turbo"),
	})

	require.NoError(t, err)
	assert.Equal(t, "en-US", out)
	assert.Equal(t, 0, rec.model.streams)
}

func TestChatService_CachesClientsAndUsesEndpoint(t *testing.T) {
	rec := &factoryRecorder{model: &fakeChatModel{reply: "ok"}}
	providers := providerSettingsStub{"openai": {Enabled: true, Endpoint: "https://proxy.example.com/v1"}}
	svc := services.NewChatService(keyringWith(map[string]string{"openai": "sk-test"}), providers, noRetry, 0)
	svc.SetClientFactory(rec.build)
	req := services.TaskRequest{Params: translatePayload()}

	_, err := svc.FetchPresetTaskResult(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.FetchPresetTaskResult(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, client.Options{
		Provider: "openai",
		Model:    "gpt-3.5-turbo",
		APIKey:   "sk-test",
		BaseURL:  "https://proxy.example.com/v1",
	}, rec.calls[0])

	svc.InvalidateProvider("openai")
	_, err = svc.FetchPresetTaskResult(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, rec.calls, 2)
}

func TestChatService_RetriesStreamOpen(t *testing.T) {
	fake := &fakeChatModel{
		chunks:     []string{"Bonjour"},
		streamErrs: []error{errors.New("503 service unavailable")},
	}
	rec := &factoryRecorder{model: fake}
	svc := services.NewChatService(keyringWith(map[string]string{"openai": "sk-test"}), nil,
		utils.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, 0)
	svc.SetClientFactory(rec.build)

	var got []string
	out, err := svc.FetchPresetTaskResult(context.Background(), services.TaskRequest{
		Params:    translatePayload(),
		OnMessage: func(chunk string) { got = append(got, chunk) },
	})

	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	assert.Equal(t, []string{"Bonjour"}, got)
	assert.Equal(t, 2, fake.streams)
}

func TestChatService_MissingAPIKey(t *testing.T) {
	svc := services.NewChatService(keyringWith(nil), nil, noRetry, 0)

	_, err := svc.FetchPresetTaskResult(context.Background(), services.TaskRequest{Params: translatePayload()})

	assert.ErrorIs(t, err, services.ErrMissingAPIKey)
}

func TestChatService_UnsupportedProvider(t *testing.T) {
	svc := services.NewChatService(keyringWith(map[string]string{"ollama": "unused"}), nil, noRetry, 0)

	payload := chains.Translate("Hello", "fr-FR")
	payload.Provider = "ollama"
	payload.Model = "llama3"

	_, err := svc.FetchPresetTaskResult(context.Background(), services.TaskRequest{Params: payload})

	assert.ErrorIs(t, err, services.ErrUnsupportedProvider)
}

func TestChatService_RequiresProviderAndModel(t *testing.T) {
	svc := services.NewChatService(keyringWith(map[string]string{"openai": "sk-test"}), nil, noRetry, 0)

	_, err := svc.FetchPresetTaskResult(context.Background(), services.TaskRequest{
		Params: chains.Translate("Hello", "fr-FR"),
	})

	assert.Error(t, err)
}
