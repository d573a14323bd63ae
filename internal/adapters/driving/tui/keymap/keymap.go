// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the full help.
	Help key.Binding

	// Undo steps the history back.
	Undo key.Binding

	// Redo steps the history forward.
	Redo key.Binding

	// Mode toggles between drawing and selecting.
	Mode key.Binding

	// Cancel clears the selection.
	Cancel key.Binding

	// Remove deletes the selected node.
	Remove key.Binding

	// Candidate applies a numbered candidate to the selected node.
	Candidate key.Binding

	// Process reruns recognition.
	Process key.Binding

	// Save stores the session.
	Save key.Binding

	// Preview renders the selected node.
	Preview key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r", "ctrl+y"),
			key.WithHelp("r", "redo"),
		),
		Mode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "draw/select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete", "backspace"),
			key.WithHelp("x", "remove"),
		),
		Candidate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "replace"),
		),
		Process: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "recognize"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Preview: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "preview"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.Undo, k.Redo, k.Help, k.Quit}
}

// SelectHelp returns keybindings for select mode.
func (k *KeyMap) SelectHelp() []key.Binding {
	return []key.Binding{k.Mode, k.Candidate, k.Remove, k.Cancel, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Mode, k.Undo, k.Redo},
		{k.Candidate, k.Remove, k.Cancel, k.Preview},
		{k.Process, k.Save, k.Help, k.Quit},
	}
}

// CandidateIndex returns the zero-based candidate index for a digit key.
func CandidateIndex(keyStr string) (int, bool) {
	if len(keyStr) != 1 || keyStr[0] < '1' || keyStr[0] > '9' {
		return 0, false
	}
	return int(keyStr[0] - '1'), true
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
