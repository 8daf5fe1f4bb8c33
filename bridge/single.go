package bridge

import (
	"context"

	"github.com/kbukum/applesignin/errors"
)

// Result is a value or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// Single is a cold single-value stream. Every subscription calls start
// again, so subscribers never share or replay a result.
type Single[T any] struct {
	start func(ctx context.Context) *Future[T]
}

// NewSingle creates a Single from a Future factory. start must complete the
// future it returns, including when ctx is cancelled.
func NewSingle[T any](start func(ctx context.Context) *Future[T]) *Single[T] {
	return &Single[T]{start: start}
}

// Subscribe starts a new attempt. The returned channel receives exactly one
// Result and is then closed.
func (s *Single[T]) Subscribe(ctx context.Context) <-chan Result[T] {
	out := make(chan Result[T], 1)
	f := s.start(ctx)
	if f == nil {
		out <- Result[T]{Err: errors.Internal(nil).WithDetail("reason", "stream produced no future")}
		close(out)
		return out
	}
	go func() {
		defer close(out)
		<-f.Done()
		r, _ := f.Peek()
		out <- r
	}()
	return out
}

// First subscribes and waits for the single result.
func (s *Single[T]) First(ctx context.Context) (T, error) {
	r := <-s.Subscribe(ctx)
	return r.Value, r.Err
}
