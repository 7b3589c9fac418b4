package proxy

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sxpeea/sxpeea/pkg/coze"
	"github.com/sxpeea/sxpeea/pkg/sse"
)

// translator maps upstream SSE frames onto client events.
type translator struct {
	logger *slog.Logger
}

// translate interprets one upstream frame.
//
// handled is false when the payload is not a JSON object: malformed lines and
// bare scalars are skipped and the current event type stays in effect. When
// handled is true the caller resets the current event type; out is nil if the
// frame produces no client event.
//
// Only the fields the relay consults are read, so unexpected types elsewhere
// in the payload never drop a frame.
func (t *translator) translate(ev *sse.Event) (out *ClientEvent, handled bool) {
	var payload any
	if err := json.Unmarshal([]byte(ev.Data), &payload); err != nil {
		t.logger.Warn("skipping malformed upstream data",
			"event", ev.Type,
			"error", err,
		)
		return nil, false
	}

	data, ok := payload.(map[string]any)
	if !ok {
		t.logger.Debug("skipping non-object upstream data",
			"event", ev.Type,
		)
		return nil, false
	}

	switch ev.Type {
	case coze.EventMessageDelta:
		content := stringField(data, coze.FieldContent)
		if content == "" {
			return nil, true
		}
		e := contentEvent(content)
		return &e, true

	case coze.EventMessageCompleted:
		if stringField(data, coze.FieldRole) != coze.RoleAssistant ||
			stringField(data, coze.FieldType) != coze.MessageTypeAnswer {
			return nil, true
		}
		e := doneEvent(stringField(data, coze.FieldConversationID))
		return &e, true

	case coze.EventChatCompleted, coze.EventDone:
		e := completedEvent()
		return &e, true

	case coze.EventChatFailed:
		lastErr := data[coze.FieldLastError]
		t.logger.Error("upstream chat failed",
			"conversation_id", stringField(data, coze.FieldConversationID),
			"last_error", lastErr,
		)
		e := errorEvent(failureMessage(lastErr))
		return &e, true
	}

	return nil, true
}

// stringField returns data[key] if it is a string, "" otherwise.
func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// failureMessage maps an upstream chat failure to the message shown to users.
// Quota errors get a fixed message; anything else passes the upstream
// message through. A missing or malformed last_error gets a generic message.
func failureMessage(lastErr any) string {
	obj, ok := lastErr.(map[string]any)
	if !ok {
		return msgServiceUnavailable
	}

	msg, hasMsg := obj[coze.FieldMsg].(string)

	if isQuotaCode(obj[coze.FieldCode]) ||
		strings.Contains(strings.ToLower(msg), "insufficient") {
		return msgQuotaExhausted
	}

	if !hasMsg {
		return msgServiceUnavailable
	}

	return msg
}

// isQuotaCode compares an error code numerically with the insufficient quota
// code. Numbers and numeric strings are accepted.
func isQuotaCode(code any) bool {
	var n float64
	switch v := code.(type) {
	case float64:
		n = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return false
		}
		n = f
	default:
		return false
	}
	return n == coze.CodeInsufficientQuota
}
