package bridge

import (
	"context"
	"sync"
)

// Future is the read side of a one-shot result.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise returns a linked Promise and Future.
func NewPromise[T any]() (*Promise[T], *Future[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return &Promise[T]{f: f}, f
}

// Resolved returns a Future already completed with v.
func Resolved[T any](v T) *Future[T] {
	p, f := NewPromise[T]()
	p.Resolve(v)
	return f
}

// Rejected returns a Future already completed with err.
func Rejected[T any](err error) *Future[T] {
	p, f := NewPromise[T]()
	p.Reject(err)
	return f
}

// Resolve completes the future with v. It reports whether this call won.
func (p *Promise[T]) Resolve(v T) bool {
	return p.f.complete(v, nil)
}

// Reject completes the future with err. It reports whether this call won.
func (p *Promise[T]) Reject(err error) bool {
	var zero T
	return p.f.complete(zero, err)
}

// Future returns the read side.
func (p *Promise[T]) Future() *Future[T] {
	return p.f
}

func (f *Future[T]) complete(v T, err error) bool {
	won := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
		won = true
	})
	return won
}

// Done is closed once the future is completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future completes or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek returns the result without blocking. ok is false while pending.
func (f *Future[T]) Peek() (Result[T], bool) {
	select {
	case <-f.done:
		return Result[T]{Value: f.value, Err: f.err}, true
	default:
		return Result[T]{}, false
	}
}

// Then schedules cb on exec once the future completes. A nil exec runs cb
// inline on an internal goroutine.
func (f *Future[T]) Then(exec Executor, cb func(T, error)) {
	if exec == nil {
		exec = Inline
	}
	go func() {
		<-f.done
		exec(func() { cb(f.value, f.err) })
	}()
}
