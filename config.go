package covey

import (
	"time"

	"github.com/ygrebnov/errorc"
)

// Default values applied by NewPool for zero-valued config fields.
const (
	// DefaultQueueSize is the per-worker queue capacity used when QueueSize
	// is zero.
	DefaultQueueSize = 1024

	// DefaultIdleInterval is the sleep applied when a worker finds no work
	// locally and nothing to steal.
	DefaultIdleInterval = time.Millisecond
)

// Config contains all configuration options for the pool.
type Config struct {
	// Threads is the number of workers.
	// If 0, defaults to runtime.NumCPU(), minimum 1.
	Threads int

	// QueueSize is the capacity of each worker's queue. Rounded up to the
	// next power of two, minimum 2. If 0, defaults to DefaultQueueSize.
	QueueSize int

	// IdleInterval is how long a worker sleeps after both its own queue and
	// its donor's queue came up empty. If 0, defaults to DefaultIdleInterval.
	// Submission stays branch-free: there is no wake-up signal, so an idle
	// pool reacts to a new task within at most one interval.
	IdleInterval time.Duration

	// OnWorkerStart is called on each worker goroutine once, before it
	// begins popping tasks. Panics are contained.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called on each worker goroutine once, after its loop
	// exits. Panics are contained.
	OnWorkerStop func(workerID int)

	// PanicHandler is called with the recovered value when a task submitted
	// via Post panics. If nil, the panic is discarded. Tasks submitted via
	// Process report panics through their future instead.
	PanicHandler func(r any)

	// Metrics receives pool events. If nil, events are discarded.
	Metrics Metrics

	// PinWorkerThreads locks each worker goroutine to an OS thread.
	PinWorkerThreads bool
}

// DefaultConfig returns a Config with the documented defaults left to be
// resolved by NewPool.
func DefaultConfig() Config {
	return Config{
		Threads:      0, // resolved to runtime.NumCPU()
		QueueSize:    DefaultQueueSize,
		IdleInterval: DefaultIdleInterval,
	}
}

// validate checks the configuration and returns an error if invalid.
func (c *Config) validate() error {
	if c.Threads < 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("", "Threads must be >= 0"))
	}
	if c.QueueSize < 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("", "QueueSize must be >= 0"))
	}
	if c.IdleInterval < 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("", "IdleInterval must be >= 0"))
	}
	return nil
}

// Option configures a pool at construction.
type Option func(*Config)

// WithThreads sets the number of workers. Zero selects runtime.NumCPU().
func WithThreads(n int) Option {
	return func(c *Config) { c.Threads = n }
}

// WithQueueSize sets the per-worker queue capacity. Values that are not a
// power of two are rounded up.
func WithQueueSize(n int) Option {
	return func(c *Config) { c.QueueSize = n }
}

// WithIdleInterval sets the sleep between polls of an idle worker.
func WithIdleInterval(d time.Duration) Option {
	return func(c *Config) { c.IdleInterval = d }
}

// WithWorkerHooks sets the per-worker lifecycle callbacks. Either may be nil.
func WithWorkerHooks(onStart, onStop func(workerID int)) Option {
	return func(c *Config) {
		c.OnWorkerStart = onStart
		c.OnWorkerStop = onStop
	}
}

// WithPanicHandler sets the handler invoked when a fire-and-forget task panics.
func WithPanicHandler(fn func(r any)) Option {
	return func(c *Config) { c.PanicHandler = fn }
}

// WithMetrics sets the Metrics sink receiving pool events.
func WithMetrics(m Metrics) Option {
	return func(c *Config) { c.Metrics = m }
}

// WithPinWorkerThreads locks worker goroutines to OS threads.
func WithPinWorkerThreads(pin bool) Option {
	return func(c *Config) { c.PinWorkerThreads = pin }
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
