package locales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	reg := NewRegistry(nil)

	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"en-US", "en-US", true},
		{" en-US\n", "en-US", true},
		{"en_us", "en-US", true},
		{"{fr-FR}", "fr-FR", true},
		{"zh-cn", "zh-CN", true},
		{"ar", "ar", true},
		{"en-GB", "", false},
		{"klingon", "", false},
		{"", "", false},
		{"The language is English", "", false},
	}
	for _, tc := range cases {
		got, ok := reg.Normalize(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestCustomRegistry(t *testing.T) {
	reg := NewRegistry([]string{"en-US", "en-US", "de-DE"})
	assert.Equal(t, []string{"en-US", "de-DE"}, reg.List())
	assert.True(t, reg.Supports("de-de"))
	assert.False(t, reg.Supports("fr-FR"))
}
