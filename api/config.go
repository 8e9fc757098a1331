// Package api provides the HTTP API server for managing timeline sessions.
package api

import "github.com/kronoshq/kronos/pkg/eventstream"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// Events receives session change events. Nil disables publishing.
	Events eventstream.Publisher
}
