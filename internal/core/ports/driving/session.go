package driving

import (
	"context"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// SessionService saves and restores ink sessions.
type SessionService interface {
	// Save stores log under name and returns the new session.
	Save(ctx context.Context, name string, log domain.InkLog, latex string) (*domain.Session, error)

	// Update overwrites an existing session's ink.
	Update(ctx context.Context, id string, log domain.InkLog, latex string) (*domain.Session, error)

	// Get retrieves a session by ID or unique name.
	Get(ctx context.Context, ref string) (*domain.Session, error)

	// List returns all session summaries, most recent first.
	List(ctx context.Context) ([]domain.SessionSummary, error)

	// Delete removes a session by ID or unique name.
	Delete(ctx context.Context, ref string) error
}
