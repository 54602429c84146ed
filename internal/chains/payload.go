// Package chains builds the prompt payloads sent to the chat service for
// internal tasks. Every builder is pure: same input, same payload.
package chains

import "github.com/cloudwego/eino/schema"

// Payload is an ordered prompt plus optional model routing.
type Payload struct {
	Messages []*schema.Message `json:"messages"`
	Model    string            `json:"model,omitempty"`
	Provider string            `json:"provider,omitempty"`
}

// WithAgent fills the routing fields the payload leaves empty from the
// given system agent. Fields already set on the payload win.
func (p Payload) WithAgent(provider, model string) Payload {
	if p.Provider == "" {
		p.Provider = provider
	}
	if p.Model == "" {
		p.Model = model
	}
	return p
}
