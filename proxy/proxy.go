// Package proxy relays the upstream chat API's SSE stream to browser clients
// as a small, stable event protocol.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/coze"
	"github.com/sxpeea/sxpeea/pkg/eventstream"
	"github.com/sxpeea/sxpeea/proxy/header"
	"github.com/sxpeea/sxpeea/proxy/worker"
)

// StreamRequest is the body of POST /chat/stream.
type StreamRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

// HealthResponse is the body of GET /chat/health.
type HealthResponse struct {
	Status        string `json:"status"`
	BotConfigured bool   `json:"bot_configured"`
}

// Proxy serves the chat relay routes. Each stream runs independently; the
// only state shared between streams is the upstream client and the telemetry
// worker pool.
type Proxy struct {
	config        Config
	client        *coze.Client
	relay         *Relay
	workerPool    *worker.Pool
	logger        *slog.Logger
	headerHandler *header.Handler
}

// New creates a new Proxy. Finished streams are reported to publisher through
// an asynchronous worker pool.
func New(config Config, publisher eventstream.Publisher, logger *slog.Logger) (*Proxy, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}

	if config.DefaultUserID == "" {
		config.DefaultUserID = coze.DefaultUserID
	}

	wp, err := worker.NewPool(&worker.Config{
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	client := coze.NewClient(coze.Config{
		BaseURL: config.UpstreamURL,
		Credentials: coze.Credentials{
			BotID: config.BotID,
			Token: config.APIToken,
		},
	})

	return &Proxy{
		config:        config,
		client:        client,
		relay:         NewRelay(client, config.IdleTimeout, logger),
		workerPool:    wp,
		logger:        logger,
		headerHandler: header.NewHandler(),
	}, nil
}

// Register mounts the relay routes on router.
func (p *Proxy) Register(router fiber.Router) {
	router.Post("/chat/stream", p.handleStream)
	router.Get("/chat/health", p.handleHealth)
}

// SetCredentials swaps the upstream bot id and token. Streams already in
// flight are not affected.
func (p *Proxy) SetCredentials(botID, token string) {
	p.client.SetCredentials(coze.Credentials{BotID: botID, Token: token})
	p.logger.Info("chat credentials updated", "bot_configured", botID != "")
}

// Close waits for queued telemetry to drain.
func (p *Proxy) Close() {
	p.workerPool.Close()
}

func (p *Proxy) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:        "ok",
		BotConfigured: p.client.BotConfigured(),
	})
}

func (p *Proxy) handleStream(c *fiber.Ctx) error {
	var req StreamRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		p.logger.Debug("invalid chat request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(content.ErrorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(content.ErrorResponse{Error: coze.ErrEmptyMessage.Error()})
	}

	if req.UserID == "" {
		req.UserID = p.config.DefaultUserID
	}

	streamID := uuid.NewString()
	p.headerHandler.SetStreamHeaders(c, streamID)

	p.logger.Debug("starting chat stream",
		"stream_id", streamID,
		"conversation_id", req.ConversationID,
		"user_id", req.UserID,
	)

	// fasthttp's SetBodyStreamWriter buffers writes behind its own pipe, so
	// frames would not reach the socket as they are produced. With io.Pipe
	// every pw.Write blocks until fasthttp has consumed it, and a client
	// disconnect surfaces as a write error in the relay.
	pr, pw := io.Pipe()
	go p.streamToPipe(streamID, req, pw)

	// Unknown size (-1) selects chunked transfer encoding.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// streamToPipe runs one relay session and reports it to the worker pool.
func (p *Proxy) streamToPipe(streamID string, req StreamRequest, pw *io.PipeWriter) {
	defer pw.Close()

	startedAt := time.Now()

	// context.Background() rather than the request context: fasthttp recycles
	// its RequestCtx once the handler returns, while this goroutine keeps
	// streaming.
	result := p.relay.Stream(context.Background(), streamID, coze.ChatRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
	}, pw)

	completedAt := time.Now()

	p.logger.Info("chat stream finished",
		"stream_id", streamID,
		"terminal", result.Terminal,
		"error_kind", result.ErrorKind,
		"content_events", result.ContentEvents,
		"duration", completedAt.Sub(startedAt),
	)

	evt := eventstream.NewChatStreamEvent(streamID, startedAt.UTC(), completedAt.UTC())
	evt.Outcome = outcome(result)
	evt.ErrorKind = string(result.ErrorKind)
	evt.ConversationID = result.ConversationID
	evt.UserID = req.UserID
	evt.UpstreamStatus = result.UpstreamStatus
	evt.ContentEvents = result.ContentEvents

	p.workerPool.Enqueue(worker.Job{Event: evt})
}

func outcome(r Result) eventstream.Outcome {
	switch {
	case r.ClientGone:
		return eventstream.OutcomeAborted
	case r.Terminal == EventCompleted:
		return eventstream.OutcomeCompleted
	case r.Terminal == EventError:
		return eventstream.OutcomeErrored
	default:
		return eventstream.OutcomeEnded
	}
}

var _ Upstream = (*coze.Client)(nil)
