package covey

import "time"

// Metrics receives pool events as they happen. Implementations must be safe
// for concurrent use; methods are called from worker goroutines and from
// submitters on the hot path, so they should be cheap.
//
// The observability/prometheus subpackage provides an implementation backed
// by Prometheus collectors.
type Metrics interface {
	// RecordTaskExecuted is called after each task invocation with the
	// executing worker's id and the invocation duration.
	RecordTaskExecuted(workerID int, d time.Duration)

	// RecordTaskPanic is called when a task's panic reaches the worker.
	// Panics recovered inside the task itself, as Process tasks do, are not
	// reported.
	RecordTaskPanic(workerID int)

	// RecordTaskStolen is called when a worker takes a task from its donor.
	RecordTaskStolen(workerID int)

	// RecordTaskRejected is called when a submission finds its worker's
	// queue full.
	RecordTaskRejected()

	// RecordTasksDropped is called at shutdown with the number of queued
	// tasks discarded without execution.
	RecordTasksDropped(n int)
}

// nopMetrics is the default sink, discarding every event.
type nopMetrics struct{}

func (nopMetrics) RecordTaskExecuted(int, time.Duration) {}
func (nopMetrics) RecordTaskPanic(int)                   {}
func (nopMetrics) RecordTaskStolen(int)                  {}
func (nopMetrics) RecordTaskRejected()                   {}
func (nopMetrics) RecordTasksDropped(int)                {}
