package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// Publisher is the interface for shipping events off-process.
type Publisher interface {
	Publish(ctx context.Context, name string, event any) error
	Close() error
}

// NATSPublisher publishes JSON-encoded events to NATS subjects derived from
// the event name: "events:chat:loading" -> "<prefix>.chat.loading".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("chatdesk"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, name string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.conn.Publish(Subject(p.prefix, name), data)
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// Subject maps an event name to a NATS subject under prefix.
func Subject(prefix, name string) string {
	trimmed := strings.TrimPrefix(name, "events:")
	subject := strings.ReplaceAll(trimmed, ":", ".")
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}
