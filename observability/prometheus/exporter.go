package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/coveylib/covey"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts covey.Metrics events to Prometheus collectors.
// Register it on a pool with covey.WithMetrics.
type MetricsExporter struct {
	taskDurationSeconds *prom.HistogramVec
	taskPanicTotal      *prom.CounterVec
	taskStolenTotal     *prom.CounterVec
	taskRejectedTotal   prom.Counter
	taskDroppedTotal    prom.Counter
}

var _ covey.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for pool
// events.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "covey"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"worker"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of task panics.",
	}, []string{"worker"})
	stolenVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_stolen_total",
		Help:      "Total number of tasks stolen from the donor queue.",
	}, []string{"worker"})
	rejected := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_rejected_total",
		Help:      "Total number of submissions rejected with a full queue.",
	})
	dropped := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_dropped_total",
		Help:      "Total number of queued tasks discarded at shutdown.",
	})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if stolenVec, err = registerCollector(reg, stolenVec); err != nil {
		return nil, err
	}
	if rejected, err = registerCollector(reg, rejected); err != nil {
		return nil, err
	}
	if dropped, err = registerCollector(reg, dropped); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: durationVec,
		taskPanicTotal:      panicVec,
		taskStolenTotal:     stolenVec,
		taskRejectedTotal:   rejected,
		taskDroppedTotal:    dropped,
	}, nil
}

// RecordTaskExecuted records a task invocation duration.
func (m *MetricsExporter) RecordTaskExecuted(workerID int, d time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(workerLabel(workerID)).Observe(d.Seconds())
}

// RecordTaskPanic records a task panic.
func (m *MetricsExporter) RecordTaskPanic(workerID int) {
	if m == nil {
		return
	}
	m.taskPanicTotal.WithLabelValues(workerLabel(workerID)).Inc()
}

// RecordTaskStolen records a steal from the donor queue.
func (m *MetricsExporter) RecordTaskStolen(workerID int) {
	if m == nil {
		return
	}
	m.taskStolenTotal.WithLabelValues(workerLabel(workerID)).Inc()
}

// RecordTaskRejected records a rejected submission.
func (m *MetricsExporter) RecordTaskRejected() {
	if m == nil {
		return
	}
	m.taskRejectedTotal.Inc()
}

// RecordTasksDropped records tasks discarded at shutdown.
func (m *MetricsExporter) RecordTasksDropped(n int) {
	if m == nil {
		return
	}
	m.taskDroppedTotal.Add(float64(n))
}

func workerLabel(workerID int) string {
	return strconv.Itoa(workerID)
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
