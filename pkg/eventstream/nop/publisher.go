// Package nop provides a Publisher that validates and discards events.
package nop

import (
	"context"

	"github.com/sxpeea/sxpeea/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishChatStream validates input and otherwise does nothing.
func (p *Publisher) PublishChatStream(_ context.Context, event *eventstream.ChatStreamEvent) error {
	if event == nil {
		return eventstream.ErrNilStreamEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
