package sse

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Reader reads upstream SSE lines from a source io.Reader and yields one Event
// per meaningful "data:" line.
//
// ┌──────────────────┐
// │ source io.Reader │  arbitrary chunks, no line alignment
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐
// │  line buffer     │  trailing partial line is held back
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐
// │  Reader.Next()   │──▶ Event{Type, Data}
// └──────────────────┘
//
// The current event type is sticky: it applies to every following data line
// until ClearType is called. A Reader holds per-stream state and must not be
// shared between streams.
type Reader struct {
	buf *bufio.Reader

	// eventType is the most recent "event:" value.
	eventType string
}

// NewReader returns a Reader parsing lines from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		buf: bufio.NewReaderSize(src, 64*1024),
	}
}

// Next blocks until the next data line with a non-empty, non-sentinel payload
// is available and returns it as an Event.
//
// Blank lines are ignored. "event:" lines update the current type and are not
// returned. Data lines that are empty or equal to DoneSentinel are skipped
// without clearing the current type.
//
// Next returns nil, nil when the source is exhausted. A trailing segment with
// no terminating newline is incomplete and is discarded.
func (r *Reader) Next() (*Event, error) {
	for {
		raw, err := r.buf.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if value, ok := strings.CutPrefix(line, eventPrefix); ok {
			r.eventType = strings.TrimSpace(value)
			continue
		}

		value, ok := strings.CutPrefix(line, dataPrefix)
		if !ok {
			// Comments, "id:", "retry:" and unknown fields carry nothing
			// the relay interprets.
			continue
		}

		data := strings.TrimSpace(value)
		if data == "" || data == DoneSentinel {
			continue
		}

		return &Event{Type: r.eventType, Data: data}, nil
	}
}

// Type returns the current event type.
func (r *Reader) Type() string {
	return r.eventType
}

// ClearType resets the current event type. Callers clear it once a data line
// has been fully handled.
func (r *Reader) ClearType() {
	r.eventType = ""
}
