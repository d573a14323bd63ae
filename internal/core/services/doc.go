// Package services implements the driving port interfaces.
// Services contain the core engine logic and orchestrate
// calls to driven ports (adapters).
//
// The ink engine (InkManager and the components it composes) is
// single-owner: it is not safe for concurrent use and relies on a
// driven.Dispatcher to bring asynchronous work back to its goroutine.
//
// Services are pure Go with no CGO or external dependencies.
package services
