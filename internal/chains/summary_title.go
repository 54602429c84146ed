package chains

import (
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/samber/lo"
)

const summaryTitleSystemPrompt = "You are an assistant who is good at conversation. " +
	"You need to summarize the user's conversation into a title within 10 words."

// ModelTier routes prompts whose token count is strictly above AboveTokens
// to Model.
type ModelTier struct {
	AboveTokens int    `toml:"above_tokens" json:"aboveTokens"`
	Model       string `toml:"model" json:"model"`
}

// DefaultSummaryTiers sends prompts above 16k tokens to a long-context model.
var DefaultSummaryTiers = []ModelTier{
	{AboveTokens: 16_000, Model: "gpt-4-turbo-preview"},
}

// TokenCounter estimates the token count of a prompt.
type TokenCounter func(messages []*schema.Message) int

// EstimateTokens approximates four characters per token.
func EstimateTokens(messages []*schema.Message) int {
	total := 0
	for _, m := range messages {
		total += (len(m.Content) + 3) / 4
	}
	return total
}

// SummaryTitleOptions tune model routing. Zero values use the defaults.
type SummaryTitleOptions struct {
	Tiers   []ModelTier
	Counter TokenCounter
}

// SummaryTitle asks the model for a short title of the conversation in
// locale. When the prompt is large, a higher capacity model is attached;
// otherwise Model stays empty and the caller's default applies.
func SummaryTitle(messages []*schema.Message, locale string, opts SummaryTitleOptions) Payload {
	transcript := strings.Join(lo.Map(messages, func(m *schema.Message, _ int) string {
		return string(m.Role) + ": " + m.Content
	}), "\n")

	finalMessages := []*schema.Message{
		schema.SystemMessage(summaryTitleSystemPrompt),
		schema.UserMessage(transcript + "\n\n" +
			"Please summarize the above conversation into a title within 10 words. " +
			"No punctuation is required. The output language is：" + locale),
	}

	counter := opts.Counter
	if counter == nil {
		counter = EstimateTokens
	}
	tiers := opts.Tiers
	if tiers == nil {
		tiers = DefaultSummaryTiers
	}

	return Payload{
		Messages: finalMessages,
		Model:    SelectModel(tiers, counter(finalMessages)),
	}
}

// SelectModel returns the model of the highest tier whose threshold tokens
// strictly exceeds, or "" when none does.
func SelectModel(tiers []ModelTier, tokens int) string {
	sorted := append([]ModelTier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AboveTokens > sorted[j].AboveTokens
	})
	for _, tier := range sorted {
		if tokens > tier.AboveTokens {
			return tier.Model
		}
	}
	return ""
}
