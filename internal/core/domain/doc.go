// Package domain defines the core entities of the ink engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Ink: A closed sum type of Stroke, CharacterReplacement and RemovalMarker
//   - InkLog: The raw ink history with its undo/redo cursor
//   - TerminalNode: A recognized (or synthesized) group of effective-ink positions
//   - Node: A resolved node snapshot handed to hosts
//   - Session: A persisted ink log
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
