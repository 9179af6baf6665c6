package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/coveylib/covey"
)

// SnapshotProvider provides current pool stats snapshots.
type SnapshotProvider interface {
	Stats() covey.Stats
}

// SnapshotPoller periodically exports pool Stats() snapshots into Prometheus
// gauges. Event counters are the exporter's job; the poller covers the
// gauge-shaped values only a snapshot can produce, like queue depth.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]SnapshotProvider

	poolQueueDepth    *prom.GaugeVec
	poolQueueCapacity *prom.GaugeVec
	poolInFlight      *prom.GaugeVec
	poolWorkers       *prom.GaugeVec
	poolUtilization   *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(namespace string, reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if namespace == "" {
		namespace = "covey"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	queueDepth := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_queue_depth",
		Help:      "Queued tasks per pool.",
	}, []string{"pool"})
	queueCapacity := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_queue_capacity",
		Help:      "Combined queue capacity per pool.",
	}, []string{"pool"})
	inFlight := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_in_flight",
		Help:      "Tasks queued or executing per pool.",
	}, []string{"pool"})
	workers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_workers",
		Help:      "Worker count per pool.",
	}, []string{"pool"})
	utilization := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_utilization",
		Help:      "Queue utilization per pool in percent.",
	}, []string{"pool"})

	var err error
	if queueDepth, err = registerCollector(reg, queueDepth); err != nil {
		return nil, err
	}
	if queueCapacity, err = registerCollector(reg, queueCapacity); err != nil {
		return nil, err
	}
	if inFlight, err = registerCollector(reg, inFlight); err != nil {
		return nil, err
	}
	if workers, err = registerCollector(reg, workers); err != nil {
		return nil, err
	}
	if utilization, err = registerCollector(reg, utilization); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:          interval,
		pools:             make(map[string]SnapshotProvider),
		poolQueueDepth:    queueDepth,
		poolQueueCapacity: queueCapacity,
		poolInFlight:      inFlight,
		poolWorkers:       workers,
		poolUtilization:   utilization,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider SnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	if name == "" {
		name = "pool"
	}
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolQueueDepth.WithLabelValues(name).Set(float64(stats.TotalQueueDepth))
		p.poolQueueCapacity.WithLabelValues(name).Set(float64(stats.TotalQueueCapacity))
		p.poolInFlight.WithLabelValues(name).Set(float64(stats.InFlight))
		p.poolWorkers.WithLabelValues(name).Set(float64(stats.NumWorkers))
		p.poolUtilization.WithLabelValues(name).Set(stats.Utilization)
	}
}
