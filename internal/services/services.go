package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chatdesk/internal/chains"
	"chatdesk/internal/config"
	"chatdesk/internal/locales"
	"chatdesk/internal/repositories"
)

// Services aggregates the application services backed by db.
type Services struct {
	Messages *MessageService
	Settings *SettingsService
	Chat     *ChatService
	Enhance  *EnhanceService
	Keyring  *KeyringService
}

// New wires every service from cfg. keys may be nil for callers that never
// reach a provider.
func New(cfg *config.Config, db *gorm.DB, keys *KeyringService) (*Services, error) {
	registry := locales.NewRegistry(cfg.Locales)
	retry := cfg.RetryPolicy()

	messages := NewMessageService(repositories.NewMessageRepository(db), retry)
	settings, err := NewSettingsService(repositories.NewUserSettingsRepository(db), cfg.DefaultSettings(), registry, retry)
	if err != nil {
		return nil, err
	}

	var keySource APIKeySource
	if keys != nil {
		keySource = keys
	}
	chat := NewChatService(keySource, settings, retry, cfg.Chat.RequestTimeout.Duration)
	enhance := NewEnhanceService(messages, settings, chat, registry, chains.SummaryTitleOptions{Tiers: cfg.Summary.Tiers})

	return &Services{
		Messages: messages,
		Settings: settings,
		Chat:     chat,
		Enhance:  enhance,
		Keyring:  keys,
	}, nil
}

// Startup loads the stored settings.
func (s *Services) Startup(ctx context.Context) error {
	if err := s.Settings.RefreshUserConfig(ctx); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return nil
}
