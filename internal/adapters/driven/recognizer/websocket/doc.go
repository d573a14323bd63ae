// Package websocket provides a driven.Recognizer that talks to a remote
// recognition server over a single shared websocket connection.
//
// Requests are JSON messages tagged with the request ID. A reader goroutine
// routes each reply to the call waiting on that ID, so several requests may
// be in flight at once. The connection is dialed on first use and redialed
// after any transport error. Outgoing requests pass through a token bucket.
package websocket
