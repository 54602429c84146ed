package services

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/99designs/keyring"

	"chatdesk/internal/config"
)

// KeyringService stores provider API keys in the OS keyring.
type KeyringService struct {
	ring keyring.Keyring
}

func NewKeyringService(ring keyring.Keyring) *KeyringService {
	return &KeyringService{ring: ring}
}

// OpenKeyring opens the system keyring for cfg.Service. When cfg.FileDir is
// set the encrypted file backend is used instead; its passphrase comes from
// CHATDESK_KEYRING_PASSWORD.
func OpenKeyring(cfg config.KeyringConfig) (*KeyringService, error) {
	ringCfg := keyring.Config{
		ServiceName: cfg.Service,
	}
	if cfg.FileDir != "" {
		ringCfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		ringCfg.FileDir = cfg.FileDir
		ringCfg.FilePasswordFunc = keyring.FixedStringPrompt(os.Getenv("CHATDESK_KEYRING_PASSWORD"))
	}
	ring, err := keyring.Open(ringCfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring %s: %w", cfg.Service, err)
	}
	return NewKeyringService(ring), nil
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}

	return s.ring.Set(keyring.Item{
		Key:         provider,
		Data:        apiKey,
		Label:       provider + " API key",
		Description: "API key for " + provider + " used by chatdesk",
	})
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	item, err := s.ring.Get(provider)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
		}
		return "", err
	}
	if len(item.Data) == 0 {
		return "", fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	err := s.ring.Remove(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *KeyringService) ListApiKeys() ([]map[string]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	var results []map[string]string
	for _, provider := range keys {
		if _, err := s.ring.Get(provider); err != nil {
			continue
		}
		results = append(results, map[string]string{
			"provider":    provider,
			"label":       provider + " API key",
			"description": "API key for " + provider + " used by chatdesk",
		})
	}
	return results, nil
}
