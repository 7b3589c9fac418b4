package proxy

import "time"

// DefaultIdleTimeout is how long the relay waits for the next upstream byte
// before giving up on a stream.
const DefaultIdleTimeout = 120 * time.Second

// Config is the chat relay configuration.
type Config struct {
	// UpstreamURL is the upstream chat API root (e.g., "https://api.coze.cn")
	UpstreamURL string

	// BotID identifies the upstream bot. An empty BotID is allowed, the
	// health endpoint then reports the bot as not configured.
	BotID string

	// APIToken is the bearer token for upstream requests.
	APIToken string

	// IdleTimeout bounds upstream inactivity: connecting, waiting for
	// response headers, and each gap between body reads.
	// Defaults to DefaultIdleTimeout.
	IdleTimeout time.Duration

	// DefaultUserID is sent upstream when the client does not supply one.
	DefaultUserID string
}
