// Package idgen generates short URL-safe message IDs backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// MessagePrefix is prepended to every message ID.
const MessagePrefix = "msg_"

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	length   = 12
)

// NewMessageID returns a fresh message ID.
func NewMessageID() (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return MessagePrefix + id, nil
}
