package tui

import "errors"

// ErrMissingInkService is returned when the ink service is not provided.
var ErrMissingInkService = errors.New("tui: ink service is required")

// ErrNoSessionStore is reported when saving without a session service.
var ErrNoSessionStore = errors.New("tui: sessions are not configured")

// ErrNothingSelected is reported when a node action has no selection.
var ErrNothingSelected = errors.New("tui: no node selected")
