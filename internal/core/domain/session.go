package domain

import "time"

// Session is a persisted ink log.
type Session struct {
	// ID is the unique identifier for the session.
	ID string

	// Name is the human-readable name.
	Name string

	// Log is the full ink history, including redo-available units.
	Log InkLog

	// LaTeX is the last recognized expression, if any.
	LaTeX string

	// CreatedAt is when the session was first saved.
	CreatedAt time.Time

	// UpdatedAt is when the session was last saved.
	UpdatedAt time.Time
}

// Summary returns the listing entry for the session.
func (s Session) Summary() SessionSummary {
	return SessionSummary{
		ID:        s.ID,
		Name:      s.Name,
		Units:     s.Log.HistoryIndex,
		LaTeX:     s.LaTeX,
		UpdatedAt: s.UpdatedAt,
	}
}

// SessionSummary is a lightweight listing entry.
type SessionSummary struct {
	ID    string
	Name  string
	Units int // committed log units
	LaTeX string

	UpdatedAt time.Time
}
