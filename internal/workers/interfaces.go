// Package workers runs the long-lived background loops of a process (the
// connectivity prober, the sync job, the metrics listener) under one
// cancellation scope.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is cancelled or the
// worker fails; a worker that stops because ctx was cancelled returns nil.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// Func adapts an ordinary function to [Worker].
type Func func(ctx context.Context) error

// Run calls f(ctx).
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}
