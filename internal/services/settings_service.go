package services

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"chatdesk/internal/events"
	"chatdesk/internal/locales"
	"chatdesk/internal/models"
	"chatdesk/internal/repositories"
	"chatdesk/internal/utils"
)

// SettingsService holds the full user settings and persists only their
// difference from the defaults.
type SettingsService struct {
	repo    repositories.UserSettingsRepository
	locales *locales.Registry
	retry   utils.RetryPolicy

	defaultSettings models.Settings
	defaults        utils.Tree

	mu       sync.Mutex
	current  utils.Tree
	diff     utils.Tree
	settings models.Settings
}

func NewSettingsService(repo repositories.UserSettingsRepository, defaults models.Settings, registry *locales.Registry, retry utils.RetryPolicy) (*SettingsService, error) {
	tree, err := utils.ToTree(defaults)
	if err != nil {
		return nil, fmt.Errorf("settings: encode defaults: %w", err)
	}
	if registry == nil {
		registry = locales.NewRegistry(nil)
	}
	return &SettingsService{
		repo:            repo,
		locales:         registry,
		retry:           retry,
		defaultSettings: defaults,
		defaults:        tree,
		current:         utils.Merge(tree, nil),
		diff:            utils.Tree{},
		settings:        defaults,
	}, nil
}

// SetSettings merges patch into the current settings. Nothing is persisted
// when the merge changes nothing; otherwise the new difference from the
// defaults is stored and the settings are reloaded.
func (s *SettingsService) SetSettings(ctx context.Context, patch utils.Tree) error {
	normalized, err := utils.ToTree(patch)
	if err != nil {
		return fmt.Errorf("settings: normalize patch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	next := utils.Merge(prev, normalized)
	if utils.Equal(prev, next) {
		return nil
	}

	diff := utils.Difference(next, s.defaults)
	err = utils.Retry(ctx, s.retry, "persist settings", func(ctx context.Context) error {
		return s.repo.Update(ctx, diff)
	})
	if err != nil {
		return fmt.Errorf("settings: persist diff: %w", err)
	}

	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	events.Emit(ctx, events.SettingsUpdated, events.NewSettings(utils.Merge(s.diff, nil)))
	return nil
}

func (s *SettingsService) SetTranslationSystemAgent(ctx context.Context, provider, model string) error {
	return s.setSystemAgent(ctx, "translation", provider, model)
}

func (s *SettingsService) SetFunctionSystemAgent(ctx context.Context, provider, model string) error {
	return s.setSystemAgent(ctx, "function", provider, model)
}

func (s *SettingsService) setSystemAgent(ctx context.Context, key, provider, model string) error {
	return s.SetSettings(ctx, utils.Tree{
		"systemAgent": utils.Tree{
			key: utils.Tree{"provider": provider, "model": model},
		},
	})
}

func (s *SettingsService) ToggleProviderEnabled(ctx context.Context, provider string, enabled bool) error {
	if strings.TrimSpace(provider) == "" {
		return fmt.Errorf("settings: provider is required")
	}
	return s.SetSettings(ctx, utils.Tree{
		"languageModel": utils.Tree{
			provider: utils.Tree{"enabled": enabled},
		},
	})
}

// SetModelProviderConfig merges the fields set in patch into the settings of
// provider.
func (s *SettingsService) SetModelProviderConfig(ctx context.Context, provider string, patch models.ProviderConfigPatch) error {
	if strings.TrimSpace(provider) == "" {
		return fmt.Errorf("settings: provider is required")
	}
	tree, err := utils.ToTree(patch)
	if err != nil {
		return fmt.Errorf("settings: encode provider config: %w", err)
	}
	return s.SetSettings(ctx, utils.Tree{
		"languageModel": utils.Tree{provider: tree},
	})
}

func (s *SettingsService) SwitchThemeMode(ctx context.Context, mode models.ThemeMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("settings: %q: %w", mode, ErrInvalidThemeMode)
	}
	return s.SetSettings(ctx, utils.Tree{"themeMode": string(mode)})
}

func (s *SettingsService) SwitchLanguage(ctx context.Context, locale string) error {
	canonical, ok := s.locales.Normalize(locale)
	if !ok {
		return fmt.Errorf("settings: %q: %w", locale, ErrUnsupportedLocale)
	}
	return s.SetSettings(ctx, utils.Tree{"language": canonical})
}

// UpdateDefaultAgent merges patch into the default agent template.
func (s *SettingsService) UpdateDefaultAgent(ctx context.Context, patch utils.Tree) error {
	return s.SetSettings(ctx, utils.Tree{"defaultAgent": patch})
}

// ResetSettings drops every stored change.
func (s *SettingsService) ResetSettings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := utils.Retry(ctx, s.retry, "reset settings", s.repo.Reset)
	if err != nil {
		return fmt.Errorf("settings: reset: %w", err)
	}
	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	events.Emit(ctx, events.SettingsUpdated, events.NewSettings(utils.Tree{}))
	return nil
}

// ImportAppSettings applies an exported settings tree. The password is
// never imported.
func (s *SettingsService) ImportAppSettings(ctx context.Context, settings utils.Tree) error {
	patch := utils.Merge(settings, nil)
	delete(patch, "password")
	return s.SetSettings(ctx, patch)
}

// ExportAppSettings returns the full settings tree without the password.
func (s *SettingsService) ExportAppSettings() utils.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := utils.Merge(s.current, nil)
	delete(out, "password")
	return out
}

// RefreshUserConfig reloads the stored difference and rebuilds the full
// settings from it.
func (s *SettingsService) RefreshUserConfig(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *SettingsService) refreshLocked(ctx context.Context) error {
	var diff utils.Tree
	err := utils.Retry(ctx, s.retry, "load settings", func(ctx context.Context) error {
		var err error
		diff, err = s.repo.Get(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("settings: load: %w", err)
	}
	if diff == nil {
		diff = utils.Tree{}
	}

	full := utils.Merge(s.defaults, diff)
	var typed models.Settings
	if err := utils.FromTree(full, &typed); err != nil {
		return fmt.Errorf("settings: decode: %w", err)
	}

	s.diff = diff
	s.current = full
	s.settings = typed
	return nil
}

// Settings returns the full settings.
func (s *SettingsService) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.settings
	out.LanguageModel = maps.Clone(s.settings.LanguageModel)
	return out
}

// Tree returns the full settings as a tree.
func (s *SettingsService) Tree() utils.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return utils.Merge(s.current, nil)
}

// Diff returns the stored difference from the defaults.
func (s *SettingsService) Diff() utils.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return utils.Merge(s.diff, nil)
}

func (s *SettingsService) DefaultSettings() models.Settings {
	return s.defaultSettings
}

func (s *SettingsService) CurrentSystemAgent() models.SystemAgentConfig {
	return s.Settings().SystemAgent
}

func (s *SettingsService) CurrentLanguage() string {
	return s.Settings().Language
}

// ProviderConfig returns the settings of provider and whether any exist.
func (s *SettingsService) ProviderConfig(provider string) (models.ProviderConfig, bool) {
	cfg, ok := s.Settings().LanguageModel[provider]
	return cfg, ok
}
