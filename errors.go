package covey

import "fmt"

// Common errors returned by the pool.
var (
	// ErrQueueFull is returned by Post when the selected worker's queue has
	// no free slot. The pool tries exactly one worker per submission, so the
	// caller decides whether to back off, drop, or resubmit.
	ErrQueueFull = &PoolError{msg: "worker queue is full"}

	// ErrPoolShutdown is returned when submitting to a pool that has been
	// shut down. A shut-down pool never accepts tasks again.
	ErrPoolShutdown = &PoolError{msg: "pool is shutdown"}

	// ErrNilTask is returned when the submitted callable is nil.
	ErrNilTask = &PoolError{msg: "task is nil"}

	// ErrEmptyTask is returned by Task.Invoke when the task holds no
	// callable, either because it was never given one or because it was
	// moved from.
	ErrEmptyTask = &PoolError{msg: "task holds no callable"}

	// ErrBrokenPromise resolves a Future whose task was discarded before it
	// could run, which happens when the pool shuts down with the task still
	// queued.
	ErrBrokenPromise = &PoolError{msg: "task dropped before execution"}

	// ErrInvalidConfig is returned by NewPool when option validation fails.
	ErrInvalidConfig = &PoolError{msg: "invalid config"}
)

// PoolError represents an error that occurred within the pool.
//
// PoolError implements the error interface and supports error unwrapping
// via errors.Unwrap for compatibility with errors.Is and errors.As.
type PoolError struct {
	msg string
	err error
}

// Error returns a formatted error message. If an underlying error exists,
// it is included in the output.
func (e *PoolError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("covey: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("covey: %s", e.msg)
}

// Unwrap returns the underlying error, allowing use with errors.Is and errors.As.
func (e *PoolError) Unwrap() error {
	return e.err
}

// PanicError wraps a value recovered from a panicking task. Futures returned
// by Process resolve with a *PanicError when the wrapped callable panics.
type PanicError struct {
	// Value is the value the task panicked with.
	Value any

	// Stack is the stack trace captured at the recovery point.
	Stack string
}

// Error returns a description including the recovered value.
func (e *PanicError) Error() string {
	return fmt.Sprintf("covey: task panicked: %v", e.Value)
}
