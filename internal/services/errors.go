package services

import (
	"errors"

	"chatdesk/internal/llm/client"
	"chatdesk/internal/repositories"
)

var (
	ErrMessageNotFound       = repositories.ErrMessageNotFound
	ErrUnsupportedProvider   = client.ErrUnsupportedProvider
	ErrTranslationInProgress = errors.New("translation already in progress")
	ErrMissingAPIKey         = errors.New("missing API key")
	ErrInvalidThemeMode      = errors.New("invalid theme mode")
	ErrUnsupportedLocale     = errors.New("unsupported locale")
)
