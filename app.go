package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"chatdesk/internal/locales"
	"chatdesk/internal/models"
	"chatdesk/internal/services"
	"chatdesk/internal/utils"
)

// DefaultSessionID is the session opened on startup.
const DefaultSessionID = "inbox"

// App is bound to the frontend. Its methods run the services with the Wails
// context so emitted events reach the window.
type App struct {
	ctx     context.Context
	svc     *services.Services
	dbClose func() error
}

// NewApp creates a new App application struct
func NewApp(svc *services.Services) *App {
	return &App{svc: svc}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	if err := a.svc.Startup(ctx); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to load settings: %v", err))
	}
	if err := a.svc.Messages.SetActive(ctx, DefaultSessionID, ""); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to load messages: %v", err))
	}
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// Settings

func (a *App) GetSettings() models.Settings {
	return a.svc.Settings.Settings()
}

func (a *App) GetDefaultSettings() models.Settings {
	return a.svc.Settings.DefaultSettings()
}

func (a *App) ExportAppSettings() utils.Tree {
	return a.svc.Settings.ExportAppSettings()
}

func (a *App) ImportAppSettings(settings utils.Tree) error {
	return a.svc.Settings.ImportAppSettings(a.ctx, settings)
}

func (a *App) SetSettings(patch utils.Tree) error {
	return a.svc.Settings.SetSettings(a.ctx, patch)
}

func (a *App) SetTranslationSystemAgent(provider, model string) error {
	return a.svc.Settings.SetTranslationSystemAgent(a.ctx, provider, model)
}

func (a *App) SetFunctionSystemAgent(provider, model string) error {
	return a.svc.Settings.SetFunctionSystemAgent(a.ctx, provider, model)
}

func (a *App) ToggleProviderEnabled(provider string, enabled bool) error {
	return a.svc.Settings.ToggleProviderEnabled(a.ctx, provider, enabled)
}

func (a *App) SetModelProviderConfig(provider string, patch models.ProviderConfigPatch) error {
	if err := a.svc.Settings.SetModelProviderConfig(a.ctx, provider, patch); err != nil {
		return err
	}
	a.svc.Chat.InvalidateProvider(provider)
	return nil
}

func (a *App) SwitchThemeMode(mode string) error {
	return a.svc.Settings.SwitchThemeMode(a.ctx, models.ThemeMode(mode))
}

func (a *App) SwitchLanguage(locale string) error {
	return a.svc.Settings.SwitchLanguage(a.ctx, locale)
}

func (a *App) UpdateDefaultAgent(patch utils.Tree) error {
	return a.svc.Settings.UpdateDefaultAgent(a.ctx, patch)
}

func (a *App) ResetSettings() error {
	return a.svc.Settings.ResetSettings(a.ctx)
}

func (a *App) SupportedLocales() []string {
	return locales.SupportLocales
}

// Messages

func (a *App) SetActiveTopic(sessionID, topicID string) error {
	return a.svc.Messages.SetActive(a.ctx, sessionID, topicID)
}

func (a *App) GetMessages() []models.Message {
	return a.svc.Messages.List()
}

func (a *App) CreateMessage(role, content string) (*models.Message, error) {
	return a.svc.Messages.Create(a.ctx, role, content)
}

func (a *App) DeleteMessage(id string) error {
	return a.svc.Messages.DeleteMessage(a.ctx, id)
}

func (a *App) GetLoadingIDs() []string {
	return a.svc.Messages.LoadingIDs()
}

// Enhance

func (a *App) TranslateMessage(id, targetLang string) error {
	return a.svc.Enhance.TranslateMessage(a.ctx, id, targetLang)
}

func (a *App) GetTranslationStatus(id string) services.TranslationStatus {
	return a.svc.Enhance.TranslationStatus(id)
}

func (a *App) ClearTranslate(id string) error {
	return a.svc.Enhance.ClearTranslate(a.ctx, id)
}

func (a *App) ClearTTS(id string) error {
	return a.svc.Enhance.ClearTTS(a.ctx, id)
}

func (a *App) TTSMessage(id string, state models.ChatTTS) error {
	return a.svc.Enhance.TTSMessage(a.ctx, id, state)
}

// SummarizeTopicTitle summarizes the active topic.
func (a *App) SummarizeTopicTitle() (string, error) {
	return a.svc.Enhance.SummarizeTitle(a.ctx, a.svc.Messages.List())
}

// API keys

func (a *App) StoreApiKey(provider, apiKey string) error {
	if err := a.svc.Keyring.StoreApiKey(provider, []byte(apiKey)); err != nil {
		return err
	}
	a.svc.Chat.InvalidateProvider(provider)
	return nil
}

func (a *App) DeleteApiKey(provider string) error {
	if err := a.svc.Keyring.DeleteApiKey(provider); err != nil {
		return err
	}
	a.svc.Chat.InvalidateProvider(provider)
	return nil
}

func (a *App) ListApiKeys() ([]map[string]string, error) {
	return a.svc.Keyring.ListApiKeys()
}
