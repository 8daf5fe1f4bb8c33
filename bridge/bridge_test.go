package bridge

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPromiseFirstCompletionWins(t *testing.T) {
	p, f := NewPromise[string]()
	if !p.Resolve("first") {
		t.Fatal("expected first Resolve to win")
	}
	if p.Resolve("second") {
		t.Error("expected second Resolve to lose")
	}
	if p.Reject(stderrors.New("late")) {
		t.Error("expected Reject after Resolve to lose")
	}
	v, err := f.Await(context.Background())
	if v != "first" || err != nil {
		t.Errorf("Await() = %q, %v", v, err)
	}
	if p.Future() != f {
		t.Error("Promise.Future() should return the linked future")
	}
}

func TestPromiseConcurrentCompletion(t *testing.T) {
	p, f := NewPromise[int]()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if p.Resolve(i) {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Errorf("expected exactly one winner, got %d", wins.Load())
	}
	if _, ok := f.Peek(); !ok {
		t.Error("expected future to be complete")
	}
}

func TestFutureAwaitContext(t *testing.T) {
	_, f := NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Await(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if _, ok := f.Peek(); ok {
		t.Error("future should still be pending")
	}
}

func TestResolvedAndRejected(t *testing.T) {
	if r, ok := Resolved(7).Peek(); !ok || r.Value != 7 || r.Err != nil {
		t.Errorf("Resolved: %+v, %v", r, ok)
	}
	boom := stderrors.New("boom")
	if r, ok := Rejected[int](boom).Peek(); !ok || r.Err != boom {
		t.Errorf("Rejected: %+v, %v", r, ok)
	}
}

func TestThenRunsOnExecutor(t *testing.T) {
	p, f := NewPromise[string]()
	var viaExecutor atomic.Bool
	got := make(chan string, 1)
	exec := Executor(func(fn func()) {
		viaExecutor.Store(true)
		fn()
	})
	f.Then(exec, func(v string, err error) { got <- v })
	p.Resolve("done")

	select {
	case v := <-got:
		if v != "done" || !viaExecutor.Load() {
			t.Errorf("callback got %q, viaExecutor=%v", v, viaExecutor.Load())
		}
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}
}

func TestThenNilExecutor(t *testing.T) {
	got := make(chan error, 1)
	Rejected[int](stderrors.New("x")).Then(nil, func(_ int, err error) { got <- err })
	select {
	case err := <-got:
		if err == nil {
			t.Error("expected error")
		}
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}
}

func TestSerialExecutorPreservesOrder(t *testing.T) {
	e := NewSerialExecutor()
	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	wg.Add(100)
	for i := 0; i < 100; i++ {
		i := i
		e.Execute(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	wg.Wait()
	for i, v := range order {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, order)
		}
	}
}

func TestSerialExecutorNeverOverlaps(t *testing.T) {
	exec := NewSerialExecutor().Executor()
	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go exec(func() {
			defer wg.Done()
			n := active.Add(1)
			if n > maxActive.Load() {
				maxActive.Store(n)
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		})
	}
	wg.Wait()
	if maxActive.Load() != 1 {
		t.Errorf("expected serial execution, max concurrency %d", maxActive.Load())
	}
}

func TestChannelDeliverOnce(t *testing.T) {
	ch, f := NewChannel()
	data := map[string]string{"code": "X"}
	if !ch.Deliver(ResultOK, data) {
		t.Fatal("expected first delivery to win")
	}
	data["code"] = "mutated"
	if ch.Deliver(ResultCanceled, nil) || ch.Teardown() {
		t.Error("expected later deliveries to be ignored")
	}
	msg, err := f.Await(context.Background())
	if err != nil || msg.Code != ResultOK || msg.Data["code"] != "X" {
		t.Errorf("unexpected message %+v, %v", msg, err)
	}
	if !ch.Delivered() {
		t.Error("expected Delivered() to be true")
	}
}

func TestChannelTeardownCancels(t *testing.T) {
	ch, f := NewChannel()
	if ch.Delivered() {
		t.Fatal("fresh channel reports delivered")
	}
	if !ch.Teardown() {
		t.Fatal("expected teardown to resolve the channel")
	}
	msg, _ := f.Await(context.Background())
	if msg.Code != ResultCanceled || msg.Data != nil {
		t.Errorf("expected cancelled message without data, got %+v", msg)
	}
}

func TestResultCodeString(t *testing.T) {
	tests := map[ResultCode]string{ResultOK: "ok", ResultCanceled: "canceled", ResultCode(42): "unknown(42)"}
	for code, want := range tests {
		if code.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(code), code.String(), want)
		}
	}
}

func TestSingleStartsAttemptPerSubscription(t *testing.T) {
	var starts atomic.Int32
	s := NewSingle(func(ctx context.Context) *Future[int] {
		n := starts.Add(1)
		p, f := NewPromise[int]()
		go p.Resolve(int(n))
		return f
	})

	a, errA := s.First(context.Background())
	b, errB := s.First(context.Background())
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors %v %v", errA, errB)
	}
	if a == b || starts.Load() != 2 {
		t.Errorf("expected independent attempts, got %d and %d (starts=%d)", a, b, starts.Load())
	}
}

func TestSingleSubscribeDeliversOnceAndCloses(t *testing.T) {
	boom := stderrors.New("failed")
	s := NewSingle(func(context.Context) *Future[string] { return Rejected[string](boom) })
	ch := s.Subscribe(context.Background())
	r, ok := <-ch
	if !ok || r.Err != boom {
		t.Fatalf("expected failure result, got %+v ok=%v", r, ok)
	}
	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after one result")
	}
}

func TestSingleNilFuture(t *testing.T) {
	s := NewSingle(func(context.Context) *Future[int] { return nil })
	if _, err := s.First(context.Background()); err == nil {
		t.Error("expected error for nil future")
	}
}
