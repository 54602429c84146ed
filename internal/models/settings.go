package models

// ThemeMode is the UI colour scheme.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
	ThemeAuto  ThemeMode = "auto"
)

func (m ThemeMode) IsValid() bool {
	return m == ThemeLight || m == ThemeDark || m == ThemeAuto
}

// ProviderConfig holds the per-provider language model settings. API keys
// live in the keyring, never here.
type ProviderConfig struct {
	Enabled       bool     `json:"enabled"`
	Endpoint      string   `json:"endpoint"`
	EnabledModels []string `json:"enabledModels"`
}

// ProviderConfigPatch is a partial ProviderConfig. Nil fields keep the
// stored value.
type ProviderConfigPatch struct {
	Enabled       *bool    `json:"enabled,omitempty"`
	Endpoint      *string  `json:"endpoint,omitempty"`
	EnabledModels []string `json:"enabledModels,omitempty"`
}

type AgentParams struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	MaxTokens   int     `json:"maxTokens"`
}

type AgentConfig struct {
	Model      string      `json:"model"`
	Provider   string      `json:"provider"`
	SystemRole string      `json:"systemRole"`
	Params     AgentParams `json:"params"`
}

type AgentMeta struct {
	Title       string `json:"title"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
}

// AgentSettings is the template applied to newly created sessions.
type AgentSettings struct {
	Config AgentConfig `json:"config"`
	Meta   AgentMeta   `json:"meta"`
}

// Settings is the full user configuration tree. Every field is serialized so
// the default tree carries every key.
type Settings struct {
	Password      string                    `json:"password"`
	ThemeMode     ThemeMode                 `json:"themeMode"`
	Language      string                    `json:"language"`
	LanguageModel map[string]ProviderConfig `json:"languageModel"`
	SystemAgent   SystemAgentConfig         `json:"systemAgent"`
	DefaultAgent  AgentSettings             `json:"defaultAgent"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// DefaultSettings returns the built-in default tree.
func DefaultSettings() Settings {
	return Settings{
		ThemeMode: ThemeAuto,
		Language:  "en-US",
		LanguageModel: map[string]ProviderConfig{
			ProviderOpenAI:    {Enabled: true},
			ProviderAnthropic: {Enabled: false},
			ProviderGoogle:    {Enabled: false},
		},
		SystemAgent: SystemAgentConfig{
			Function:    SystemAgentItem{Provider: ProviderOpenAI, Model: "gpt-3.5-turbo"},
			Translation: SystemAgentItem{Provider: ProviderOpenAI, Model: "gpt-3.5-turbo"},
		},
		DefaultAgent: AgentSettings{
			Config: AgentConfig{
				Model:    "gpt-3.5-turbo",
				Provider: ProviderOpenAI,
				Params:   AgentParams{Temperature: 0.6, TopP: 1},
			},
		},
	}
}
