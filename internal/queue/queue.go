// Package queue provides the durable event queue used as a write-ahead
// buffer between the tick path and the history migrator.
package queue

import "context"

// Queue is an append-only, trim-able sequence of raw event payloads.
// Append must be cheap and must never block on the permanent store.
// Peek and Trim are deliberately separate operations; the resulting
// at-least-once window across a crash is documented, not hidden.
type Queue interface {
	Append(ctx context.Context, payload []byte) error
	// Peek returns up to n entries in insertion order without removing them.
	Peek(ctx context.Context, n int) ([][]byte, error)
	// Trim removes the first n entries.
	Trim(ctx context.Context, n int) error
	Len(ctx context.Context) (int64, error)
}
