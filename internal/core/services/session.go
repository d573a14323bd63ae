package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService saves and restores ink sessions.
type SessionService struct {
	store driven.SessionStore
	now   func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(store driven.SessionStore) *SessionService {
	return &SessionService{
		store: store,
		now:   time.Now,
	}
}

// Save stores log under name and returns the new session.
func (s *SessionService) Save(ctx context.Context, name string, log domain.InkLog, latex string) (*domain.Session, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
	}
	if err := validateLog(log); err != nil {
		return nil, err
	}

	now := s.now()
	session := domain.Session{
		ID:        uuid.NewString(),
		Name:      name,
		Log:       log,
		LaTeX:     latex,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// Update overwrites an existing session's ink.
func (s *SessionService) Update(ctx context.Context, id string, log domain.InkLog, latex string) (*domain.Session, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateLog(log); err != nil {
		return nil, err
	}
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	session.Log = log
	session.LaTeX = latex
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, *session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Get retrieves a session by ID or unique name.
func (s *SessionService) Get(ctx context.Context, ref string) (*domain.Session, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	id, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// List returns all session summaries, most recent first.
func (s *SessionService) List(ctx context.Context) ([]domain.SessionSummary, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Delete removes a session by ID or unique name.
func (s *SessionService) Delete(ctx context.Context, ref string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	id, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// resolve maps a session reference to an ID. IDs win over names.
func (s *SessionService) resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: session reference is required", domain.ErrInvalidInput)
	}
	if _, err := s.store.Get(ctx, ref); err == nil {
		return ref, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	summaries, err := s.store.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, summary := range summaries {
		if summary.Name == ref {
			matches = append(matches, summary.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("session %q: %w", ref, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %d sessions named %q, use an ID", domain.ErrInvalidInput, len(matches), ref)
	}
}

func validateLog(log domain.InkLog) error {
	return NewInkStore().Restore(log)
}
