package messaging

import (
	"context"
)

// Broker defines the interface for message brokers.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Message is the wire shape published for entity-change events.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
