package covey

import (
	"context"
	"runtime/debug"
	"sync"
)

// Future is a single-assignment cell holding either a value or an error.
// It is resolved exactly once; every read after resolution observes the same
// outcome.
type Future[R any] struct {
	done  chan struct{}
	once  sync.Once
	value R
	err   error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

func (f *Future[R]) resolve(v R, err error) {
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future is resolved.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the future is resolved and returns its outcome. A task
// that panicked yields a *PanicError; a task discarded at shutdown yields
// ErrBrokenPromise; a rejected submission yields ErrQueueFull.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetContext is Get bounded by a context. If ctx ends first, the context
// error is returned and the task keeps running; the outcome stays available
// through later calls.
func (f *Future[R]) GetContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Process submits a value-returning callable and returns the future holding
// its result. Submission failures are not returned directly: the future
// resolves with the admission error, so callers handle exactly one failure
// path.
func Process[R any](p *Pool, fn func() R) *Future[R] {
	if fn == nil {
		f := newFuture[R]()
		var zero R
		f.resolve(zero, ErrNilTask)
		return f
	}
	return ProcessWorker(p, func(int) R { return fn() })
}

// ProcessWorker is Process for callables that receive the id of the worker
// executing them.
func ProcessWorker[R any](p *Pool, fn func(workerID int) R) *Future[R] {
	f := newFuture[R]()
	if fn == nil {
		var zero R
		f.resolve(zero, ErrNilTask)
		return f
	}

	task := Task{
		fn: func(workerID int) {
			defer func() {
				if r := recover(); r != nil {
					var zero R
					f.resolve(zero, &PanicError{Value: r, Stack: string(debug.Stack())})
				}
			}()
			f.resolve(fn(workerID), nil)
		},
		abandon: func() {
			var zero R
			f.resolve(zero, ErrBrokenPromise)
		},
	}

	if err := p.post(task); err != nil {
		var zero R
		f.resolve(zero, err)
	}
	return f
}
