package group

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/coveylib/covey"
)

// Group runs a set of related tasks on a covey pool with structured error
// handling. Tasks are submitted through the pool's admission path, so a full
// queue surfaces as a task error rather than a blocked caller.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	pool   *covey.Pool
	wg     sync.WaitGroup
	config Config

	errors    []error
	errorsMux sync.Mutex
	failOnce  sync.Once
	firstErr  atomic.Value
}

// New creates a Group executing on the given pool.
func New(pool *covey.Pool, opts ...Option) *Group {
	return NewWithContext(context.Background(), pool, opts...)
}

// NewWithContext creates a Group whose tasks observe a context derived from
// the given parent.
func NewWithContext(ctx context.Context, pool *covey.Pool, opts ...Option) *Group {
	config := BuildConfig(opts)

	if ctx == nil {
		ctx = context.Background()
	}
	groupCtx, cancel := context.WithCancel(ctx)

	return &Group{
		ctx:    groupCtx,
		cancel: cancel,
		pool:   pool,
		config: config,
	}
}

// Go submits a function to the pool. Panics are captured as *covey.PanicError
// and handled according to the group's error mode, as is an admission failure
// (full queue or pool shutdown).
func (g *Group) Go(fn func(context.Context) error) {
	g.wg.Add(1)

	err := g.pool.Post(func() {
		defer g.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				g.handleError(&covey.PanicError{
					Value: r,
					Stack: string(debug.Stack()),
				})
			}
		}()

		if err := fn(g.ctx); err != nil {
			g.handleError(err)
		}
	})
	if err != nil {
		g.wg.Done()
		g.handleError(err)
	}
}

// GoSafe submits a function with no error return. Panics and admission
// failures are still handled according to the group's error mode.
func (g *Group) GoSafe(fn func(context.Context)) {
	g.Go(func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}

// Wait blocks until all submitted tasks have completed and returns the
// group's errors according to its error mode. The group context is cancelled
// on return.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.Stop()

	switch g.config.errorMode {
	case IgnoreErrors:
		return nil

	case FailFast:
		if v := g.firstErr.Load(); v != nil {
			return v.(error)
		}
		return nil

	case CollectAll:
		g.errorsMux.Lock()
		collected := make([]error, len(g.errors))
		copy(collected, g.errors)
		g.errorsMux.Unlock()

		if len(collected) > 0 {
			return AggregateError{Errors: collected}
		}
		return nil

	default:
		return nil
	}
}

// Stop cancels the group context, signaling running tasks to stop.
func (g *Group) Stop() {
	g.cancel()
}

func (g *Group) handleError(err error) {
	switch g.config.errorMode {
	case IgnoreErrors:
		return

	case FailFast:
		g.failOnce.Do(func() {
			g.firstErr.Store(err)
			g.cancel()
		})

	case CollectAll:
		g.errorsMux.Lock()
		g.errors = append(g.errors, err)
		g.errorsMux.Unlock()
	}
}
