package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Dispatcher = (*Dispatcher)(nil)

// Dispatcher delivers engine work to the program as messages.Dispatched.
// Work is queued and sent in posting order by a single flushing goroutine,
// so neither Attach nor Post blocks the caller. (*tea.Program).Send blocks
// until Run has started, and Attach is called before Run.
type Dispatcher struct {
	mu       sync.Mutex
	send     func(tea.Msg)
	queue    []func()
	flushing bool
}

// NewDispatcher creates a detached dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach starts delivering through send, usually (*tea.Program).Send.
// Work posted earlier is delivered first.
func (d *Dispatcher) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
	d.kickLocked()
}

// Post implements driven.Dispatcher.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, fn)
	d.kickLocked()
}

func (d *Dispatcher) kickLocked() {
	if d.send == nil || d.flushing || len(d.queue) == 0 {
		return
	}
	d.flushing = true
	go d.flush(d.send)
}

func (d *Dispatcher) flush(send func(tea.Msg)) {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.flushing = false
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()

		send(messages.Dispatched{Fn: fn})
	}
}
