package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// InkStore is the append-only ink log with an undo/redo cursor.
//
// Units before the cursor are committed. Units at or after it can be
// redone until the next Append truncates them.
type InkStore struct {
	units []domain.Ink
	index int
}

// NewInkStore creates an empty ink store.
func NewInkStore() *InkStore {
	return &InkStore{}
}

// Append truncates the redo history and commits unit.
// Removal markers and character replacements must reference positions
// of the current effective ink.
func (s *InkStore) Append(unit domain.Ink) error {
	if unit == nil {
		return domain.ErrInvalidInput
	}
	if _, err := applyUnit(s.EffectiveInk(), unit); err != nil {
		return err
	}
	s.units = append(s.units[:s.index:s.index], unit)
	s.index = len(s.units)
	return nil
}

// Undo moves the cursor back one unit and returns the unit it uncommitted.
func (s *InkStore) Undo() (domain.Ink, bool) {
	if s.index == 0 {
		return nil, false
	}
	s.index--
	return s.units[s.index], true
}

// Redo moves the cursor forward one unit and returns the unit it recommitted.
func (s *InkStore) Redo() (domain.Ink, bool) {
	if s.index == len(s.units) {
		return nil, false
	}
	s.index++
	return s.units[s.index-1], true
}

// History reports undo/redo availability.
func (s *InkStore) History() domain.History {
	return domain.History{
		CanUndo: s.index > 0,
		CanRedo: s.index < len(s.units),
	}
}

// Len returns the total number of units, redo history included.
func (s *InkStore) Len() int {
	return len(s.units)
}

// EffectiveInk replays the committed units into the visible ink sequence.
// The result is recomputed on every call.
func (s *InkStore) EffectiveInk() []domain.Ink {
	ink, err := ReplayInk(s.units[:s.index])
	if err != nil {
		// Append and Restore only admit logs that replay cleanly.
		panic(fmt.Sprintf("ink store holds an invalid log: %v", err))
	}
	return ink
}

// Log returns a copy of the ink log.
func (s *InkStore) Log() domain.InkLog {
	return domain.InkLog{
		Units:        slices.Clone(s.units),
		HistoryIndex: s.index,
	}
}

// Restore replaces the log. The full log must replay cleanly, redo
// history included, so every cursor position stays valid.
func (s *InkStore) Restore(log domain.InkLog) error {
	if log.HistoryIndex < 0 || log.HistoryIndex > len(log.Units) {
		return fmt.Errorf("%w: history index %d outside 0..%d", domain.ErrInvalidLog, log.HistoryIndex, len(log.Units))
	}
	if _, err := ReplayInk(log.Units); err != nil {
		return err
	}
	s.units = slices.Clone(log.Units)
	s.index = log.HistoryIndex
	return nil
}

// ReplayInk derives the effective ink from a sequence of committed units.
//
// A stroke appends itself. A removal marker deletes the positions it
// names. A character replacement deletes its positions and inserts itself
// at the smallest of them. Positions always address the sequence as it
// was when the unit was appended.
func ReplayInk(units []domain.Ink) ([]domain.Ink, error) {
	ink := make([]domain.Ink, 0, len(units))
	for i, unit := range units {
		next, err := applyUnit(ink, unit)
		if err != nil {
			return nil, fmt.Errorf("%w: unit %d: %w", domain.ErrInvalidLog, i, err)
		}
		ink = next
	}
	return ink, nil
}

func applyUnit(ink []domain.Ink, unit domain.Ink) ([]domain.Ink, error) {
	switch u := unit.(type) {
	case domain.Stroke:
		return append(ink, u), nil
	case domain.RemovalMarker:
		return removePositions(ink, u.Removed)
	case domain.CharacterReplacement:
		kept, err := removePositions(ink, u.Replaced)
		if err != nil {
			return nil, err
		}
		at := slices.Min(u.Replaced)
		return slices.Insert(kept, at, domain.Ink(u)), nil
	default:
		return nil, fmt.Errorf("%w: unknown ink %T", domain.ErrInvalidInput, unit)
	}
}

// removePositions returns ink without the given positions.
// It never modifies ink in place.
func removePositions(ink []domain.Ink, positions []int) ([]domain.Ink, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no positions", domain.ErrInvalidInput)
	}
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(ink) {
			return nil, fmt.Errorf("%w: position %d outside 0..%d", domain.ErrInvalidInput, p, len(ink)-1)
		}
		drop[p] = true
	}
	kept := make([]domain.Ink, 0, len(ink)-len(drop))
	for i, unit := range ink {
		if !drop[i] {
			kept = append(kept, unit)
		}
	}
	return kept, nil
}
