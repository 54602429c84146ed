package chains

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangDetect_FixedPrefixThenWrappedInput(t *testing.T) {
	for _, input := range []string{"Hola", "", "Bonjour {tout} le monde", "多语言"} {
		payload := LangDetect(input)

		require.Len(t, payload.Messages, 6)
		assert.Equal(t, schema.System, payload.Messages[0].Role)
		assert.Equal(t, langDetectSystemPrompt, payload.Messages[0].Content)

		prefix := [][2]string{
			{string(schema.User), "{你好}"},
			{string(schema.Assistant), "zh-CN"},
			{string(schema.User), "{hello}"},
			{string(schema.Assistant), "en-US"},
		}
		for i, want := range prefix {
			assert.Equal(t, want[0], string(payload.Messages[i+1].Role))
			assert.Equal(t, want[1], payload.Messages[i+1].Content)
		}

		last := payload.Messages[5]
		assert.Equal(t, schema.User, last.Role)
		assert.Equal(t, "{"+input+"}", last.Content)
		assert.Empty(t, payload.Model)
	}
}

func TestLangDetect_IsDeterministic(t *testing.T) {
	assert.Equal(t, LangDetect("Hola"), LangDetect("Hola"))
}

func TestTranslate_SystemAndUserEntries(t *testing.T) {
	payload := Translate("Hello", "fr-FR")

	require.Len(t, payload.Messages, 2)
	assert.Equal(t, schema.System, payload.Messages[0].Role)
	assert.Equal(t, schema.User, payload.Messages[1].Role)
	assert.Equal(t, "Please translate following content as fr-FR: Hello", payload.Messages[1].Content)
	assert.Contains(t, payload.Messages[1].Content, "fr-FR")
	assert.Contains(t, payload.Messages[1].Content, "Hello")
}

func conversation() []*schema.Message {
	return []*schema.Message{
		schema.AssistantMessage("Hello, how can I assist you?", nil),
		schema.UserMessage("I need help with my account."),
	}
}

func fixedCounter(n int) TokenCounter {
	return func([]*schema.Message) int { return n }
}

func TestSummaryTitle_TranscriptInOrder(t *testing.T) {
	payload := SummaryTitle(conversation(), "en-US", SummaryTitleOptions{Counter: fixedCounter(10)})

	require.Len(t, payload.Messages, 2)
	assert.Equal(t, summaryTitleSystemPrompt, payload.Messages[0].Content)

	user := payload.Messages[1]
	assert.Equal(t, schema.User, user.Role)
	assert.True(t, strings.HasPrefix(user.Content,
		"assistant: Hello, how can I assist you?\nuser: I need help with my account.\n\n"))
	assert.True(t, strings.HasSuffix(user.Content, "The output language is：en-US"))
	assert.Contains(t, user.Content, "within 10 words")
}

func TestSummaryTitle_ModelRouting(t *testing.T) {
	cases := []struct {
		name   string
		tokens int
		model  string
	}{
		{"below threshold", 10_000, ""},
		{"exactly threshold uses default", 16_000, ""},
		{"just above threshold", 16_001, "gpt-4-turbo-preview"},
		{"far above threshold", 17_000, "gpt-4-turbo-preview"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := SummaryTitle(conversation(), "en-US", SummaryTitleOptions{Counter: fixedCounter(tc.tokens)})
			assert.Equal(t, tc.model, payload.Model)
		})
	}
}

func TestSummaryTitle_CounterSeesFinalMessages(t *testing.T) {
	var seen []*schema.Message
	payload := SummaryTitle(conversation(), "de-DE", SummaryTitleOptions{
		Counter: func(m []*schema.Message) int {
			seen = m
			return 0
		},
	})
	assert.Equal(t, payload.Messages, seen)
}

func TestSelectModel_HighestExceededTierWins(t *testing.T) {
	tiers := []ModelTier{
		{AboveTokens: 8_000, Model: "mid"},
		{AboveTokens: 100_000, Model: "huge"},
		{AboveTokens: 16_000, Model: "large"},
	}
	assert.Equal(t, "", SelectModel(tiers, 8_000))
	assert.Equal(t, "mid", SelectModel(tiers, 8_001))
	assert.Equal(t, "large", SelectModel(tiers, 50_000))
	assert.Equal(t, "huge", SelectModel(tiers, 100_001))
	assert.Equal(t, "", SelectModel(nil, 1_000_000))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(nil))
	assert.Equal(t, 1, EstimateTokens([]*schema.Message{schema.UserMessage("abcd")}))
	assert.Equal(t, 2, EstimateTokens([]*schema.Message{schema.UserMessage("abcde")}))
}

func TestPayloadWithAgent_PayloadFieldsWin(t *testing.T) {
	merged := Payload{Model: "gpt-4-turbo-preview"}.WithAgent("openai", "gpt-3.5-turbo")
	assert.Equal(t, "gpt-4-turbo-preview", merged.Model)
	assert.Equal(t, "openai", merged.Provider)

	inherited := Translate("x", "en-US").WithAgent("anthropic", "claude-3-haiku")
	assert.Equal(t, "claude-3-haiku", inherited.Model)
	assert.Equal(t, "anthropic", inherited.Provider)
}
