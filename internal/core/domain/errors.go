package domain

import "errors"

// Domain errors represent engine failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a required port is not configured.
	ErrNotImplemented = errors.New("not implemented")

	// ErrClosed indicates an operation on a stopped component.
	ErrClosed = errors.New("closed")

	// ErrInvalidLog indicates an ink log whose cursor or ranges are out of bounds.
	ErrInvalidLog = errors.New("invalid ink log")

	// Recognition Errors.

	// ErrRecognizerUnavailable indicates no recognizer is attached.
	// Drawing and history keep working; only recognition is disabled.
	ErrRecognizerUnavailable = errors.New("recognizer unavailable")

	// ErrRecognitionFailed indicates the recognizer reported a failure.
	// The recognizer's own error is wrapped alongside it.
	ErrRecognitionFailed = errors.New("recognition failed")

	// ErrMalformedRecognizerResult indicates a result whose nodes cannot be
	// mapped onto the effective ink it was requested for.
	ErrMalformedRecognizerResult = errors.New("malformed recognizer result")
)
