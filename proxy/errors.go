package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// User-facing messages. Upstream and transport details never reach the client.
const (
	msgQuotaExhausted     = "AI service quota exhausted, contact admin"
	msgServiceUnavailable = "service temporarily unavailable"
	msgTimeout            = "request timed out, please try again later"
	msgNetwork            = "network error, please try again later"
)

var (
	// ErrUpstreamTimeout is the cancellation cause when the upstream stays
	// silent for longer than the idle timeout.
	ErrUpstreamTimeout = errors.New("upstream idle timeout")

	// errClientGone is the cancellation cause when a downstream write fails.
	errClientGone = errors.New("client disconnected")
)

// UpstreamStatusError is returned when the upstream answers with a non-200
// status.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// ErrorKind classifies why a stream ended with an error.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindUpstreamStatus ErrorKind = "upstream_status"
	KindTimeout        ErrorKind = "timeout"
	KindTransport      ErrorKind = "transport"
	KindChatFailed     ErrorKind = "chat_failed"
	KindClientGone     ErrorKind = "client_gone"
)

// classify maps a stream failure to an ErrorKind, consulting the session
// context's cancellation cause first.
func classify(ctx context.Context, err error) ErrorKind {
	cause := context.Cause(ctx)
	switch {
	case errors.Is(cause, errClientGone), errors.Is(err, errClientGone):
		return KindClientGone
	case errors.Is(cause, ErrUpstreamTimeout), errors.Is(err, ErrUpstreamTimeout):
		return KindTimeout
	}

	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		return KindUpstreamStatus
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindTransport
}

// clientMessage returns the message sent to the client for a failure.
func clientMessage(kind ErrorKind, err error) string {
	switch kind {
	case KindUpstreamStatus:
		var statusErr *UpstreamStatusError
		if errors.As(err, &statusErr) {
			return fmt.Sprintf("API error: %d", statusErr.StatusCode)
		}
		return msgServiceUnavailable
	case KindTimeout:
		return msgTimeout
	default:
		return msgNetwork
	}
}
