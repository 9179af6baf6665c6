// Package covey provides a fixed-size, sharded worker pool built for low
// submission and dispatch latency under contention.
//
// Instead of one shared queue, the pool gives every worker its own bounded
// lock-free MPMC ring queue. Producers submit through a round-robin counter,
// so they spread across queues and rarely contend; workers pop their own
// queue first and, when it is empty, steal one task from the next worker in
// the ring before backing off with a short sleep.
//
// # Quick Start
//
//	pool, err := covey.NewPool()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Shutdown()
//
//	err = pool.Post(func() {
//	    fmt.Println("task executed")
//	})
//	if errors.Is(err, covey.ErrQueueFull) {
//	    // the chosen worker's queue was full; back off or drop
//	}
//
// # Results and Errors
//
// Post is fire-and-forget. To observe a result or a panic, use Process,
// which returns a Future resolved exactly once:
//
//	f := covey.Process(pool, func() int { return 42 })
//	v, err := f.Get()
//
// A panicking task resolves its future with a *covey.PanicError; a task still
// queued when the pool shuts down resolves with ErrBrokenPromise. Tasks may
// also take the executing worker's id:
//
//	f := covey.ProcessWorker(pool, func(workerID int) int { return workerID })
//
// # Admission
//
// Submission never blocks and never retries: the pool picks one worker and
// attempts one push. A full queue yields ErrQueueFull, preserving latency and
// avoiding convoy effects. Size queues for expected bursts with
// WithQueueSize; capacities round up to a power of two.
//
// # Shutdown
//
// Shutdown stops every worker and joins them in order. Tasks still queued are
// discarded, not executed. There is no graceful drain; callers who need all
// work finished call Wait before Shutdown.
//
// # Limits
//
// The pool is intentionally narrow: no unbounded queueing, no priorities, no
// per-task cancellation, no resizing after construction. Tasks must not block
// indefinitely; a parked task starves its worker.
//
// # Observability
//
// Pass a Metrics implementation via WithMetrics to receive execution,
// rejection, steal, and drop events; the observability/prometheus subpackage
// exports them as Prometheus collectors together with a Stats snapshot
// poller.
package covey
