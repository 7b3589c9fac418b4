package eventstream

import "context"

// Publisher publishes chat stream events to an event stream backend.
type Publisher interface {
	PublishChatStream(ctx context.Context, event *ChatStreamEvent) error
	Close() error
}
