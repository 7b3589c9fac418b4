package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sxpeea/sxpeea/pkg/coze"
	"github.com/sxpeea/sxpeea/pkg/sse"
)

// maxErrorBody caps how much of a non-200 upstream body is read for logging.
const maxErrorBody = 64 * 1024

// Upstream opens streaming chat requests. *coze.Client implements it.
type Upstream interface {
	OpenStream(ctx context.Context, req coze.ChatRequest) (*http.Response, error)
}

// Result summarises one relayed stream.
type Result struct {
	// Terminal is the terminal event sent to the client, or "" if the stream
	// ended without one.
	Terminal EventType

	// ErrorKind classifies the failure when the stream did not complete.
	ErrorKind ErrorKind

	// ConversationID is the id carried by the last done event.
	ConversationID string

	// UpstreamStatus is the upstream HTTP status, 0 if no response arrived.
	UpstreamStatus int

	// ContentEvents counts the content events sent to the client.
	ContentEvents int

	// ClientGone is true when a downstream write failed.
	ClientGone bool
}

// Relay translates one upstream chat stream into the client event protocol.
// A Relay has no per-stream state and is safe for concurrent use.
type Relay struct {
	upstream    Upstream
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewRelay creates a Relay. A zero idleTimeout selects DefaultIdleTimeout.
func NewRelay(upstream Upstream, idleTimeout time.Duration, logger *slog.Logger) *Relay {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Relay{
		upstream:    upstream,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

// session is the state of one relayed stream.
type session struct {
	emitter    *sse.Writer
	translator translator
	logger     *slog.Logger
	cancel     context.CancelCauseFunc
	result     Result
}

// Stream relays one chat request, writing SSE frames to w until a terminal
// event is sent, the upstream closes, or the client goes away.
//
// The first frame is always a connected event, written before the upstream
// request is sent. At most one terminal event is written and nothing follows
// it. Stream returns once it will write nothing more to w; the caller closes
// w.
func (r *Relay) Stream(ctx context.Context, streamID string, req coze.ChatRequest, w io.Writer) Result {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	logger := r.logger.With("stream_id", streamID)
	s := &session{
		emitter:    sse.NewWriter(w),
		translator: translator{logger: logger},
		logger:     logger,
		cancel:     cancel,
	}

	if err := s.emit(connectedEvent()); err != nil {
		return s.result
	}

	idle := newIdleTimer(r.idleTimeout, func() { cancel(ErrUpstreamTimeout) })
	defer idle.stop()

	resp, err := r.upstream.OpenStream(ctx, req)
	if err != nil {
		s.fail(ctx, err)
		return s.result
	}
	defer resp.Body.Close()

	// Response headers count as upstream progress.
	idle.reset()

	s.result.UpstreamStatus = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		s.fail(ctx, &UpstreamStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		})
		return s.result
	}

	if err := s.relay(idle.reader(resp.Body)); err != nil {
		s.fail(ctx, err)
		return s.result
	}

	if s.result.Terminal == "" {
		logger.Debug("upstream closed without a terminal event")
	}

	return s.result
}

// relay is the STREAMING state: it reads upstream frames and emits client
// events until a terminal event is sent or the upstream is exhausted.
func (s *session) relay(body io.Reader) error {
	reader := sse.NewReader(body)

	for {
		ev, err := reader.Next()
		if err != nil {
			return fmt.Errorf("reading upstream stream: %w", err)
		}
		if ev == nil {
			return nil
		}

		out, handled := s.translator.translate(ev)
		if !handled {
			continue
		}
		reader.ClearType()

		if out == nil {
			continue
		}

		if err := s.emit(*out); err != nil {
			return err
		}

		if out.Terminal() {
			return nil
		}
	}
}

// emit writes one client event. A failed write means the client is gone; the
// session context is cancelled so the upstream read stops promptly.
func (s *session) emit(e ClientEvent) error {
	if err := s.emitter.WriteData(e); err != nil {
		s.result.ClientGone = true
		s.result.ErrorKind = KindClientGone
		s.cancel(errClientGone)
		s.logger.Debug("client write failed",
			"event", e.Type,
			"error", err,
		)
		return fmt.Errorf("%w: %w", errClientGone, err)
	}

	switch e.Type {
	case EventContent:
		s.result.ContentEvents++
	case EventDone:
		if e.ConversationID != nil {
			s.result.ConversationID = *e.ConversationID
		}
	case EventCompleted, EventError:
		s.result.Terminal = e.Type
		if e.Type == EventError && s.result.ErrorKind == KindNone {
			s.result.ErrorKind = KindChatFailed
		}
	}

	return nil
}

// fail ends the stream with a single error event, unless the client is
// already gone.
func (s *session) fail(ctx context.Context, err error) {
	kind := classify(ctx, err)
	s.result.ErrorKind = kind

	if kind == KindClientGone {
		s.logger.Info("client disconnected, upstream aborted")
		return
	}

	attrs := []any{"kind", kind, "error", err}
	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs, "status", statusErr.StatusCode, "body", statusErr.Body)
	}
	s.logger.Error("chat stream failed", attrs...)

	_ = s.emit(errorEvent(clientMessage(kind, err)))
}

// idleTimer fires once no upstream progress was seen for the configured
// duration. Every successful read through reader re-arms it.
type idleTimer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

func newIdleTimer(d time.Duration, fire func()) *idleTimer {
	return &idleTimer{
		d:     d,
		timer: time.AfterFunc(d, fire),
	}
}

func (t *idleTimer) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer.Reset(t.d)
}

func (t *idleTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer.Stop()
}

func (t *idleTimer) reader(r io.Reader) io.Reader {
	return &idleReader{r: r, timer: t}
}

type idleReader struct {
	r     io.Reader
	timer *idleTimer
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.timer.reset()
	}
	return n, err
}
