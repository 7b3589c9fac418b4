// Package api provides the site's public HTTP server: the read-only content
// API, uploaded files, health probes, and the chat relay routes.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// UploadDir is served under /uploads. Empty disables the route.
	UploadDir string
}
