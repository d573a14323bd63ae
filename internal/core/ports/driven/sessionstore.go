package driven

import (
	"context"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// SessionStore persists ink sessions.
type SessionStore interface {
	// Save stores a session. Creates if new, updates if exists.
	Save(ctx context.Context, session domain.Session) error

	// Get retrieves a session by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns summaries of all sessions, most recently updated first.
	List(ctx context.Context) ([]domain.SessionSummary, error)

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
}
