package coze

// Upstream event names, in the upstream's own vocabulary.
const (
	EventMessageDelta     = "conversation.message.delta"
	EventMessageCompleted = "conversation.message.completed"
	EventChatCompleted    = "conversation.chat.completed"
	EventChatFailed       = "conversation.chat.failed"
	EventDone             = "done"
)

const (
	// RoleAssistant is the message role of bot replies.
	RoleAssistant = "assistant"

	// MessageTypeAnswer is the message type of the bot's final answer, as
	// opposed to follow-up suggestions or tool output.
	MessageTypeAnswer = "answer"

	// CodeInsufficientQuota is the error code reported when the account
	// has run out of credit.
	CodeInsufficientQuota = 4028
)

// Payload fields read from upstream events. Payloads carry more fields than
// these; the rest are ignored.
const (
	FieldContent        = "content"
	FieldRole           = "role"
	FieldConversationID = "conversation_id"
	FieldLastError      = "last_error"
	FieldCode           = "code"
	FieldMsg            = "msg"

	// FieldType is the message type: "answer", "follow_up", "verbose", ...
	FieldType = "type"
)

// chatRequest is the v3 chat request body.
type chatRequest struct {
	BotID              string           `json:"bot_id"`
	UserID             string           `json:"user_id"`
	Stream             bool             `json:"stream"`
	ConversationID     string           `json:"conversation_id,omitempty"`
	AdditionalMessages []requestMessage `json:"additional_messages"`
	Parameters         map[string]any   `json:"parameters"`
}

// requestMessage is a single message in chatRequest.AdditionalMessages.
type requestMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Type        string `json:"type"`
}
