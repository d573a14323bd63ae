package driven

// Dispatcher runs functions on the goroutine that owns the ink engine.
//
// Post must not block and must not run fn inline on the calling goroutine;
// fn runs later, in posting order.
type Dispatcher interface {
	Post(fn func())
}
