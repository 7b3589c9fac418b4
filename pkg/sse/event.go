// Package sse provides a small, purpose-built SSE (Server-Sent Events) line
// reader and frame writer for the sxpeea chat relay.
//
// The Reader parses an upstream chat stream one complete line at a time and
// carries the most recent "event:" type across lines until the caller clears
// it. The Writer encodes downstream frames as single "data:" lines holding a
// JSON object.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single upstream frame: one "data:" line paired with the
// event type that was current when the line was read.
type Event struct {
	// Type is the SSE event type from the most recent "event:" field.
	// An empty string means no type has been seen since the last clear.
	Type string

	// Data is the trimmed payload of the "data:" line.
	Data string
}

const (
	// DoneSentinel is the stream-termination payload some upstreams send as
	// the final data line. It never carries a JSON document.
	DoneSentinel = "[DONE]"

	eventPrefix = "event:"
	dataPrefix  = "data:"
)
