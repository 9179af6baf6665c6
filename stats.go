package covey

// Stats is a snapshot of pool counters. All values are collected without
// locks and may be slightly inconsistent during concurrent operations.
type Stats struct {
	// Submitted is the total number of tasks offered to the pool, including
	// rejected ones.
	Submitted uint64

	// Completed is the total number of tasks that finished execution,
	// including tasks that panicked.
	Completed uint64

	// Rejected is the total number of submissions that found their worker's
	// queue full.
	Rejected uint64

	// Dropped is the total number of queued tasks discarded at shutdown
	// without being executed.
	Dropped uint64

	// Stolen is the total number of tasks workers took from their donor's
	// queue instead of their own.
	Stolen uint64

	// Failed is the total number of tasks whose panic reached the worker.
	// Panics recovered inside the task itself, as Process tasks do, are not
	// counted.
	Failed uint64

	// InFlight is the estimated number of tasks currently queued or
	// executing: Submitted - Completed - Rejected - Dropped.
	InFlight uint64

	// NumWorkers is fixed at pool creation.
	NumWorkers int

	// TotalQueueDepth is the combined number of tasks currently queued.
	TotalQueueDepth int

	// TotalQueueCapacity is the combined capacity of all worker queues.
	TotalQueueCapacity int

	// Utilization is TotalQueueDepth / TotalQueueCapacity in percent.
	Utilization float64

	// WorkerStats holds one entry per worker, indexed by worker id.
	WorkerStats []WorkerStats
}

// WorkerStats contains counters for an individual worker. Each worker owns
// its counters, so reading them causes no contention.
type WorkerStats struct {
	// WorkerID is the 0-based worker id.
	WorkerID int

	// TasksExecuted is the number of tasks this worker ran, stolen ones
	// included.
	TasksExecuted uint64

	// TasksStolen is the number of tasks this worker took from its donor.
	TasksStolen uint64

	// TasksFailed is the number of executed tasks whose panic reached this
	// worker (see Stats.Failed). These are also counted in TasksExecuted.
	TasksFailed uint64

	// QueueDepth is the current number of tasks waiting in this worker's
	// queue.
	QueueDepth int

	// QueueCapacity is the fixed capacity of this worker's queue.
	QueueCapacity int
}
