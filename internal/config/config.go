// Package config loads chatdesk configuration: built-in defaults, then an
// optional TOML file, then CHATDESK_* environment variables (a project .env
// is loaded first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"chatdesk/internal/chains"
	"chatdesk/internal/database"
	"chatdesk/internal/models"
	"chatdesk/internal/utils"
)

// DefaultFile is read from the working directory when no path is given and
// CHATDESK_CONFIG is unset.
const DefaultFile = "chatdesk.toml"

// Duration decodes TOML strings such as "250ms" or "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Keyring  KeyringConfig  `toml:"keyring"`
	Events   EventsConfig   `toml:"events"`
	Chat     ChatConfig     `toml:"chat"`
	Summary  SummaryConfig  `toml:"summary"`
	Defaults DefaultsConfig `toml:"defaults"`
	Locales  []string       `toml:"locales"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type KeyringConfig struct {
	Service string `toml:"service"`
	// FileDir enables the encrypted file backend, for hosts without a
	// system keyring.
	FileDir string `toml:"file_dir"`
}

type EventsConfig struct {
	// NATSURL publishes events to NATS when set (headless mode).
	NATSURL       string `toml:"nats_url"`
	SubjectPrefix string `toml:"subject_prefix"`
}

type ChatConfig struct {
	MaxAttempts    int      `toml:"max_attempts"`
	RetryBaseDelay Duration `toml:"retry_base_delay"`
	RequestTimeout Duration `toml:"request_timeout"`
}

type SummaryConfig struct {
	Tiers []chains.ModelTier `toml:"tiers"`
}

type DefaultsConfig struct {
	Language    string                 `toml:"language"`
	Translation models.SystemAgentItem `toml:"translation"`
	Function    models.SystemAgentItem `toml:"function"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: database.GetDefaultDBPath()},
		Keyring:  KeyringConfig{Service: "chatdesk"},
		Events:   EventsConfig{SubjectPrefix: "chatdesk"},
		Chat: ChatConfig{
			MaxAttempts:    3,
			RetryBaseDelay: Duration{500 * time.Millisecond},
			RequestTimeout: Duration{2 * time.Minute},
		},
		Summary: SummaryConfig{Tiers: append([]chains.ModelTier(nil), chains.DefaultSummaryTiers...)},
	}
}

// Load builds the configuration. An empty path means CHATDESK_CONFIG, then
// DefaultFile; a missing default file is not an error, a missing explicit
// file is.
func Load(path string) (*Config, error) {
	if err := utils.LoadEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("CHATDESK_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultFile
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CHATDESK_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("CHATDESK_KEYRING_SERVICE"); v != "" {
		c.Keyring.Service = v
	}
	if v := os.Getenv("CHATDESK_KEYRING_DIR"); v != "" {
		c.Keyring.FileDir = v
	}
	if v := os.Getenv("CHATDESK_NATS_URL"); v != "" {
		c.Events.NATSURL = v
	}
	if v := os.Getenv("CHATDESK_CHAT_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHATDESK_CHAT_MAX_ATTEMPTS: %w", err)
		}
		c.Chat.MaxAttempts = n
	}
	if v := os.Getenv("CHATDESK_CHAT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHATDESK_CHAT_TIMEOUT: %w", err)
		}
		c.Chat.RequestTimeout = Duration{d}
	}
	if v := os.Getenv("CHATDESK_LANGUAGE"); v != "" {
		c.Defaults.Language = v
	}
	if v := os.Getenv("CHATDESK_TRANSLATION_AGENT"); v != "" {
		item, err := parseAgent(v)
		if err != nil {
			return fmt.Errorf("CHATDESK_TRANSLATION_AGENT: %w", err)
		}
		c.Defaults.Translation = item
	}
	if v := os.Getenv("CHATDESK_FUNCTION_AGENT"); v != "" {
		item, err := parseAgent(v)
		if err != nil {
			return fmt.Errorf("CHATDESK_FUNCTION_AGENT: %w", err)
		}
		c.Defaults.Function = item
	}
	return nil
}

// parseAgent reads "provider/model".
func parseAgent(v string) (models.SystemAgentItem, error) {
	provider, model, ok := strings.Cut(v, "/")
	if !ok || strings.TrimSpace(provider) == "" || strings.TrimSpace(model) == "" {
		return models.SystemAgentItem{}, fmt.Errorf("expected provider/model, got %q", v)
	}
	return models.SystemAgentItem{Provider: strings.TrimSpace(provider), Model: strings.TrimSpace(model)}, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if c.Chat.MaxAttempts < 1 {
		return fmt.Errorf("chat max_attempts must be at least 1, got %d", c.Chat.MaxAttempts)
	}
	for _, tier := range c.Summary.Tiers {
		if tier.AboveTokens < 0 || strings.TrimSpace(tier.Model) == "" {
			return fmt.Errorf("invalid summary tier %+v", tier)
		}
	}
	return nil
}

// RetryPolicy returns the retry policy for chat and persistence calls.
func (c *Config) RetryPolicy() utils.RetryPolicy {
	return utils.RetryPolicy{MaxAttempts: c.Chat.MaxAttempts, BaseDelay: c.Chat.RetryBaseDelay.Duration}
}

// DefaultSettings returns the default settings tree with the configured
// overrides applied.
func (c *Config) DefaultSettings() models.Settings {
	s := models.DefaultSettings()
	if c.Defaults.Language != "" {
		s.Language = c.Defaults.Language
	}
	if c.Defaults.Translation.Provider != "" {
		s.SystemAgent.Translation = c.Defaults.Translation
	}
	if c.Defaults.Function.Provider != "" {
		s.SystemAgent.Function = c.Defaults.Function
	}
	return s
}
