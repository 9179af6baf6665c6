package covey

import (
	"runtime"
	"sync"
	"sync/atomic"
)

const (
	poolStateRunning uint32 = iota
	poolStateStopped
)

// Pool is a fixed-size sharded worker pool. Each worker consumes its own
// bounded MPMC queue and steals from the next worker's queue when idle.
type Pool struct {
	config  Config
	workers []*worker
	metrics Metrics

	state      atomic.Uint32
	submitWg   sync.WaitGroup
	nextWorker atomic.Uint64

	counters poolCounters
}

type poolCounters struct {
	submitted atomic.Uint64
	completed atomic.Uint64
	rejected  atomic.Uint64
	dropped   atomic.Uint64
}

// NewPool creates a pool and starts its workers. Workers form a ring: worker
// i steals from worker (i+1) mod N. With a single worker the donor is the
// worker itself, which is safe.
//
// Example:
//
//	pool, err := covey.NewPool(
//	    covey.WithThreads(4),
//	    covey.WithQueueSize(256),
//	)
func NewPool(opts ...Option) (*Pool, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Threads == 0 {
		cfg.Threads = runtime.NumCPU()
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.IdleInterval == 0 {
		cfg.IdleInterval = DefaultIdleInterval
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}

	p := &Pool{
		config:  cfg,
		metrics: cfg.Metrics,
		workers: make([]*worker, cfg.Threads),
	}
	p.state.Store(poolStateRunning)

	for i := range p.workers {
		p.workers[i] = newWorker(i, p, cfg.QueueSize)
	}
	for i, w := range p.workers {
		w.start(p.workers[(i+1)%len(p.workers)])
	}

	return p, nil
}

// Post submits a fire-and-forget task. The pool picks one worker round-robin
// and attempts a single push: if that worker's queue is full, Post returns
// ErrQueueFull without trying the others. It never blocks.
//
// Within a single producer posting to a single worker, FIFO order is
// preserved; no ordering holds across producers or workers.
func (p *Pool) Post(fn func()) error {
	if fn == nil {
		return ErrNilTask
	}
	return p.post(NewTask(fn))
}

// PostWorker submits a task that receives the id of the worker executing it.
// Admission behaves exactly like Post.
func (p *Pool) PostWorker(fn func(workerID int)) error {
	if fn == nil {
		return ErrNilTask
	}
	return p.post(NewWorkerTask(fn))
}

func (p *Pool) post(t Task) error {
	if p.state.Load() == poolStateStopped {
		return ErrPoolShutdown
	}

	p.counters.submitted.Add(1)
	p.submitWg.Add(1)

	next := p.nextWorker.Add(1)
	w := p.workers[next%uint64(len(p.workers))]

	if !w.post(t) {
		p.submitWg.Done()
		p.counters.rejected.Add(1)
		p.metrics.RecordTaskRejected()
		return ErrQueueFull
	}
	return nil
}

// Wait blocks until every admitted task has completed or been dropped at
// shutdown. It does not stop the pool.
func (p *Pool) Wait() {
	p.submitWg.Wait()
}

// Shutdown stops all workers and discards any tasks still queued without
// executing them; discarded Process tasks resolve their futures with
// ErrBrokenPromise. Workers are joined in id order. Repeated calls are
// no-ops.
func (p *Pool) Shutdown() {
	if !p.state.CompareAndSwap(poolStateRunning, poolStateStopped) {
		return
	}

	for _, w := range p.workers {
		w.stop()
	}

	dropped := 0
	var task Task
	for _, w := range p.workers {
		for w.queue.pop(&task) {
			task.discard()
			p.submitWg.Done()
			dropped++
		}
	}
	if dropped > 0 {
		p.counters.dropped.Add(uint64(dropped))
		p.metrics.RecordTasksDropped(dropped)
	}
}

// IsShutdown reports whether the pool has been shut down.
func (p *Pool) IsShutdown() bool {
	return p.state.Load() == poolStateStopped
}

// NumWorkers returns the number of workers, fixed at construction.
func (p *Pool) NumWorkers() int {
	return len(p.workers)
}

// Stats returns a snapshot of pool statistics. Counters are read without
// locks and may be slightly inconsistent during concurrent operations.
func (p *Pool) Stats() Stats {
	submitted := p.counters.submitted.Load()
	completed := p.counters.completed.Load()
	rejected := p.counters.rejected.Load()
	dropped := p.counters.dropped.Load()

	workerStats := make([]WorkerStats, len(p.workers))
	var stolen, failed uint64
	totalDepth := 0
	totalCapacity := 0

	for i, w := range p.workers {
		depth := w.queue.size()
		capacity := w.queue.capacity()
		totalDepth += depth
		totalCapacity += capacity

		ws := WorkerStats{
			WorkerID:      i,
			TasksExecuted: w.tasksExecuted.Load(),
			TasksStolen:   w.tasksStolen.Load(),
			TasksFailed:   w.tasksFailed.Load(),
			QueueDepth:    depth,
			QueueCapacity: capacity,
		}
		stolen += ws.TasksStolen
		failed += ws.TasksFailed
		workerStats[i] = ws
	}

	utilization := float64(0)
	if totalCapacity > 0 {
		utilization = float64(totalDepth) / float64(totalCapacity) * 100.0
	}

	return Stats{
		Submitted:          submitted,
		Completed:          completed,
		Rejected:           rejected,
		Dropped:            dropped,
		Stolen:             stolen,
		Failed:             failed,
		InFlight:           submitted - completed - rejected - dropped,
		NumWorkers:         len(p.workers),
		TotalQueueDepth:    totalDepth,
		TotalQueueCapacity: totalCapacity,
		Utilization:        utilization,
		WorkerStats:        workerStats,
	}
}
