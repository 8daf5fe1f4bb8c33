package bridge

import "sync"

// Executor runs a callback in some execution context. It must not block
// the caller for longer than it takes to hand the callback off.
type Executor func(func())

// Inline runs callbacks synchronously.
var Inline Executor = func(fn func()) { fn() }

// Goroutine runs every callback on its own goroutine.
var Goroutine Executor = func(fn func()) { go fn() }

// SerialExecutor runs callbacks one at a time in submission order.
type SerialExecutor struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// NewSerialExecutor creates an idle SerialExecutor.
func NewSerialExecutor() *SerialExecutor {
	return &SerialExecutor{}
}

// Execute enqueues fn. It never blocks.
func (e *SerialExecutor) Execute(fn func()) {
	e.mu.Lock()
	e.queue = append(e.queue, fn)
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()
	go e.drain()
}

// Executor returns e as an Executor.
func (e *SerialExecutor) Executor() Executor {
	return e.Execute
}

func (e *SerialExecutor) drain() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.running = false
			e.mu.Unlock()
			return
		}
		fn := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.mu.Unlock()
		fn()
	}
}
