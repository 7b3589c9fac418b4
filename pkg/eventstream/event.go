// Package eventstream defines transport-neutral telemetry events emitted by
// the chat relay and the Publisher interface that ships them to a backend.
package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeChatStreamFinished is emitted once a relayed chat stream has
	// been closed, whatever the outcome.
	EventTypeChatStreamFinished = "sxpeea.chat.stream.finished"
)

// Outcome is how a relayed chat stream ended.
type Outcome string

const (
	// OutcomeCompleted means the upstream signalled completion.
	OutcomeCompleted Outcome = "completed"

	// OutcomeErrored means an error event was sent to the client.
	OutcomeErrored Outcome = "errored"

	// OutcomeAborted means the client went away before a terminal event.
	OutcomeAborted Outcome = "aborted"

	// OutcomeEnded means the upstream closed without a terminal signal.
	OutcomeEnded Outcome = "ended"
)

// ChatStreamEvent is a transport-neutral event payload for a finished chat stream.
type ChatStreamEvent struct {
	SchemaVersion  int       `json:"schema_version"`
	EventType      string    `json:"event_type"`
	EventID        string    `json:"event_id"`
	EmittedAt      time.Time `json:"emitted_at"`
	StreamID       string    `json:"stream_id"`
	Outcome        Outcome   `json:"outcome"`
	ErrorKind      string    `json:"error_kind,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	UpstreamStatus int       `json:"upstream_status,omitempty"`
	ContentEvents  int       `json:"content_events"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	DurationMs     int64     `json:"duration_ms"`
}

// NewChatStreamEvent stamps a new event with a fresh id, the current schema
// version and event type.
func NewChatStreamEvent(streamID string, startedAt, completedAt time.Time) *ChatStreamEvent {
	return &ChatStreamEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeChatStreamFinished,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		StreamID:      streamID,
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
		DurationMs:    completedAt.Sub(startedAt).Milliseconds(),
	}
}
