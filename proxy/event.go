package proxy

// EventType tags a ClientEvent.
type EventType string

const (
	// EventConnected is always the first event of a stream.
	EventConnected EventType = "connected"

	// EventContent carries an incremental piece of the answer.
	EventContent EventType = "content"

	// EventDone marks the end of the bot's answer and carries the
	// conversation id for follow-up turns.
	EventDone EventType = "done"

	// EventCompleted is a terminal event: the chat finished.
	EventCompleted EventType = "completed"

	// EventError is a terminal event carrying a user-facing message.
	EventError EventType = "error"
)

// ClientEvent is the normalized message sent to browser clients, rendered as
// one SSE "data:" line holding this struct as JSON.
type ClientEvent struct {
	Type    EventType `json:"type"`
	Content string    `json:"content,omitempty"`

	// ConversationID is only set on done events. It is a pointer so that an
	// empty id is still sent to the client.
	ConversationID *string `json:"conversation_id,omitempty"`
}

// Terminal reports whether no event may follow e.
func (e ClientEvent) Terminal() bool {
	return e.Type == EventCompleted || e.Type == EventError
}

func connectedEvent() ClientEvent {
	return ClientEvent{Type: EventConnected}
}

func contentEvent(content string) ClientEvent {
	return ClientEvent{Type: EventContent, Content: content}
}

func doneEvent(conversationID string) ClientEvent {
	return ClientEvent{Type: EventDone, ConversationID: &conversationID}
}

func completedEvent() ClientEvent {
	return ClientEvent{Type: EventCompleted}
}

func errorEvent(msg string) ClientEvent {
	return ClientEvent{Type: EventError, Content: msg}
}
