// Package locales is the registry of UI locales a detected language is
// validated against.
package locales

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
)

// SupportLocales are the locales the application ships translations for.
var SupportLocales = []string{
	"ar",
	"bg-BG",
	"zh-CN",
	"zh-TW",
	"en-US",
	"ru-RU",
	"ja-JP",
	"ko-KR",
	"fr-FR",
	"tr-TR",
	"es-ES",
	"pt-BR",
	"de-DE",
	"it-IT",
	"nl-NL",
	"pl-PL",
	"vi-VN",
}

// Registry answers whether a locale tag is recognized.
type Registry struct {
	tags []string
}

// NewRegistry builds a registry over tags; nil means SupportLocales.
func NewRegistry(tags []string) *Registry {
	if tags == nil {
		tags = SupportLocales
	}
	return &Registry{tags: lo.Uniq(tags)}
}

// List returns the recognized tags in registration order.
func (r *Registry) List() []string {
	return append([]string(nil), r.tags...)
}

// Normalize canonicalizes raw (trimming whitespace, quotes and braces and
// fixing case, "en_us" -> "en-US") and reports whether the result is a
// recognized tag.
func (r *Registry) Normalize(raw string) (string, bool) {
	candidate := strings.Trim(strings.TrimSpace(raw), "{}\"'`. ")
	if candidate == "" {
		return "", false
	}
	if lo.Contains(r.tags, candidate) {
		return candidate, true
	}
	tag, err := language.Parse(strings.ReplaceAll(candidate, "_", "-"))
	if err != nil {
		return "", false
	}
	canonical := tag.String()
	if lo.Contains(r.tags, canonical) {
		return canonical, true
	}
	return "", false
}

// Supports reports whether raw names a recognized locale.
func (r *Registry) Supports(raw string) bool {
	_, ok := r.Normalize(raw)
	return ok
}
