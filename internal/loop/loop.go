// Package loop runs closures on a single goroutine.
//
// The parameter graph is not safe for concurrent use. Everything that
// touches it from elsewhere (network callbacks, file watchers, HTTP
// handlers) posts a closure to the loop that owns the graph.
package loop

import (
	"context"
	"errors"
)

// ErrStopped is returned when work is posted to a loop that is no longer
// running.
var ErrStopped = errors.New("loop stopped")

// Loop is a FIFO queue of closures drained by Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// New creates a loop whose queue holds up to size pending closures.
func New(size int) *Loop {
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the queue is full and returns false once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- fn() }) {
		return ErrStopped
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// The closure may have run just before the loop stopped.
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Run drains the queue until ctx is cancelled. Closures still queued when
// Run returns are dropped. Run must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }
