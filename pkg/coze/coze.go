// Package coze provides a minimal client for the Coze v3 streaming chat API.
//
// The client only opens the streaming request. Parsing and interpreting the
// upstream SSE stream is left to the caller (see pkg/sse and the proxy
// package).
package coze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
)

const (
	// DefaultBaseURL is the public Coze API endpoint.
	DefaultBaseURL = "https://api.coze.cn"

	// DefaultUserID is used when the caller does not identify the end user.
	DefaultUserID = "web_user"

	chatPath = "/v3/chat"
)

// ErrEmptyMessage is returned when a chat request carries no message.
var ErrEmptyMessage = errors.New("message is required")

// Credentials are the bot identity and API token used for upstream requests.
type Credentials struct {
	BotID string
	Token string
}

// Config configures a Client.
type Config struct {
	// BaseURL is the upstream API root (e.g. "https://api.coze.cn").
	BaseURL string

	// Credentials are the initial bot id and token. They can be swapped at
	// runtime with Client.SetCredentials.
	Credentials Credentials

	// HTTPClient is used for upstream requests. Defaults to a client with no
	// overall timeout, streams are bounded by the caller's context.
	HTTPClient *http.Client
}

// ChatRequest is a single user turn.
type ChatRequest struct {
	Message        string
	ConversationID string
	UserID         string
}

// Client opens streaming chat requests against the upstream API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      atomic.Pointer[Credentials]
}

// NewClient creates a new Client.
func NewClient(c Config) *Client {
	baseURL := strings.TrimRight(c.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
	client.SetCredentials(c.Credentials)

	return client
}

// SetCredentials replaces the credentials used by subsequent requests.
// Streams already in flight keep the credentials they were opened with.
func (c *Client) SetCredentials(creds Credentials) {
	c.creds.Store(&creds)
}

// Credentials returns the current credentials.
func (c *Client) Credentials() Credentials {
	return *c.creds.Load()
}

// BotConfigured reports whether a bot id is set.
func (c *Client) BotConfigured() bool {
	return c.Credentials().BotID != ""
}

// OpenStream sends a streaming chat request and returns the raw upstream
// response. The caller owns the response body and must close it. A non-2xx
// status is not an error at this layer, the caller decides how to surface it.
func (c *Client) OpenStream(ctx context.Context, req ChatRequest) (*http.Response, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}

	creds := c.Credentials()

	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	body, err := json.Marshal(chatRequest{
		BotID:          creds.BotID,
		UserID:         userID,
		Stream:         true,
		ConversationID: req.ConversationID,
		AdditionalMessages: []requestMessage{
			{
				Role:        "user",
				Content:     req.Message,
				ContentType: "text",
				Type:        "question",
			},
		},
		Parameters: map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.Token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending chat request: %w", err)
	}

	return resp, nil
}
