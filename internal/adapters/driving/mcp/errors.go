// Package mcp provides an MCP (Model Context Protocol) server adapter for mathink.
// It lets AI assistants draw strokes, navigate history and edit recognized
// symbols on a shared ink canvas.
package mcp

import "errors"

// ErrMissingInkService is returned when the ink service is not provided.
var ErrMissingInkService = errors.New("mcp: ink service is required")

// ErrMissingExecutor is returned when no executor owns the ink service.
var ErrMissingExecutor = errors.New("mcp: executor is required")

// ErrNoSessionStore is returned by session tools when sessions are not configured.
var ErrNoSessionStore = errors.New("mcp: sessions are not configured")
