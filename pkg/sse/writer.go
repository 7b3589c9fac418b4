package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Writer encodes downstream frames as "data: <json>\n\n".
type Writer struct {
	dest io.Writer
	buf  bytes.Buffer
}

// NewWriter returns a Writer encoding frames onto dest.
// The dest writer typically backs an io.Pipe connected to the downstream HTTP
// response.
func NewWriter(dest io.Writer) *Writer {
	return &Writer{dest: dest}
}

// WriteData JSON-encodes v and writes it as a single frame. Non-ASCII text is
// written as UTF-8 and HTML characters are not escaped. The frame is written
// with one call to the destination so a frame is never split by a concurrent
// close.
func (w *Writer) WriteData(v any) error {
	w.buf.Reset()
	w.buf.WriteString(dataPrefix)
	w.buf.WriteByte(' ')

	enc := json.NewEncoder(&w.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}

	// Encode terminates the document with "\n"; one more ends the frame.
	w.buf.WriteByte('\n')

	_, err := w.dest.Write(w.buf.Bytes())
	return err
}
