// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Dispatcher: Marshals asynchronous completions onto the owner goroutine
//   - ConfigStore: Application configuration
//   - SessionStore: Session persistence
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - Recognizer: Handwriting recognition. Without it, drawing and history still work.
//   - Renderer: Host view notifications. A detached renderer simply misses events.
//   - RecognitionMetrics: Request counters and latencies.
//   - InkRasterizer: Node previews and ink export.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
