package client

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply     string
	chunks    []string
	streamErr error
	seen      []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.seen = input
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.seen = input
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	msgs := make([]*schema.Message, 0, len(f.chunks))
	for _, c := range f.chunks {
		msgs = append(msgs, schema.AssistantMessage(c, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func TestLLMClient_Generate(t *testing.T) {
	fake := &fakeChatModel{reply: "en-US"}
	c := &LLMClient{ChatModel: fake, Provider: "openai", Model: "gpt-3.5-turbo"}

	input := []*schema.Message{schema.UserMessage("{hello}")}
	out, err := c.Generate(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "en-US", out)
	assert.Equal(t, input, fake.seen)
}

func TestLLMClient_StreamDeliversChunksInOrder(t *testing.T) {
	fake := &fakeChatModel{chunks: []string{"Bon", "", "jour", " !"}}
	c := &LLMClient{ChatModel: fake, Provider: "openai", Model: "gpt-3.5-turbo"}

	var got []string
	out, err := c.Stream(context.Background(), []*schema.Message{schema.UserMessage("Hello")}, func(s string) {
		got = append(got, s)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Bon", "jour", " !"}, got)
	assert.Equal(t, "Bonjour !", out)
}

func TestLLMClient_StreamOpenError(t *testing.T) {
	fake := &fakeChatModel{streamErr: errors.New("503 unavailable")}
	c := &LLMClient{ChatModel: fake, Provider: "openai", Model: "gpt-3.5-turbo"}

	_, err := c.Stream(context.Background(), nil, nil)
	assert.EqualError(t, err, "503 unavailable")
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "ollama", Model: "llama3"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNew_OpenAI(t *testing.T) {
	c, err := New(context.Background(), Options{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Provider)
	assert.Equal(t, "gpt-4o-mini", c.Model)
}
