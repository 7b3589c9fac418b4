// Package header sets the response headers of the chat relay.
//
// The relay sits between a browser and the upstream chat API like so:
//
//	Browser <--> Relay <--> Upstream chat API
//
// Each leg negotiates its own transport, so nothing is copied from the
// upstream response: the browser leg always gets a fresh event-stream header
// set that keeps caches and reverse proxies from holding frames back.
package header

import (
	"github.com/gofiber/fiber/v2"
)

// StreamIDHeader carries the relay's id for a stream, for log correlation.
const StreamIDHeader = "X-Stream-Id"

// streamHeaders are set on every event-stream response.
var streamHeaders = [][2]string{
	{fiber.HeaderContentType, "text/event-stream; charset=utf-8"},
	{fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate"},
	{fiber.HeaderPragma, "no-cache"},
	{fiber.HeaderExpires, "0"},
	{fiber.HeaderConnection, "keep-alive"},

	// nginx buffers proxied responses unless told otherwise.
	{"X-Accel-Buffering", "no"},
}

// Handler manages headers on relay responses.
type Handler struct{}

// NewHandler creates a new header Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// SetStreamHeaders prepares the response in c for streaming SSE frames.
func (h *Handler) SetStreamHeaders(c *fiber.Ctx, streamID string) {
	for _, kv := range streamHeaders {
		c.Set(kv[0], kv[1])
	}
	if streamID != "" {
		c.Set(StreamIDHeader, streamID)
	}
}
