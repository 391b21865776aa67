package forkjoin

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vnykmshr/parflow/pkg/metrics"
	"github.com/vnykmshr/parflow/pkg/parallel/partition"
	"github.com/vnykmshr/parflow/pkg/parallel/poolconfig"
	"github.com/vnykmshr/parflow/pkg/parallel/threadprio"
)

// WorkRange is the slice of a workload handed to one participant.
type WorkRange = partition.WorkRange

// Stats is a point-in-time view of pool activity.
type Stats struct {
	// Workers is the number of worker threads, caller excluded.
	Workers int
	// Cycles counts dispatched fork-join cycles.
	Cycles int64
	// Inline counts calls that ran entirely on the caller.
	Inline int64
}

// Pool runs fork-join cycles over a fixed set of worker threads. The calling
// goroutine always takes part as participant 0, so a pool with N workers
// splits work N+1 ways.
//
// One cycle runs at a time; concurrent callers are serialized. Calling Run or
// Reduce from inside a range function of the same pool deadlocks.
type Pool struct {
	name     string
	size     int
	log      *zap.Logger
	priority threadprio.Priority
	metrics  atomic.Pointer[metrics.Registry]

	// dispatchMu admits one cycle at a time.
	dispatchMu sync.Mutex

	// mu guards gen, job and stopped; wake is signalled on every change.
	mu      sync.Mutex
	wake    *sync.Cond
	gen     uint64
	job     *cycle
	stopped bool

	ready     sync.WaitGroup
	exited    sync.WaitGroup
	closeOnce sync.Once
	closed    atomic.Bool

	cycles atomic.Int64
	inline atomic.Int64
}

// New creates a pool and blocks until every worker has registered and is
// waiting for work. With a zero WorkerCount the pool sizes itself to the
// hardware concurrency minus one, reserving a thread for the caller.
func New(cfg poolconfig.PoolConfig) *Pool {
	p := &Pool{
		name:     cfg.PoolName("forkjoin"),
		size:     cfg.Workers(1),
		log:      cfg.Log(),
		priority: cfg.Priority,
	}
	p.wake = sync.NewCond(&p.mu)
	p.metrics.Store(cfg.Metrics)

	p.ready.Add(p.size)
	p.exited.Add(p.size)
	for id := 1; id <= p.size; id++ {
		go p.worker(id)
	}
	p.ready.Wait()

	p.metrics.Load().SetForkJoinWorkers(p.name, p.size)
	p.log.Debug("forkjoin pool started",
		zap.String("pool", p.name),
		zap.Int("workers", p.size),
		zap.Stringer("priority", p.priority))
	return p
}

// worker is the main loop of one worker thread; id is its participant index.
func (p *Pool) worker(id int) {
	defer p.exited.Done()

	if err := threadprio.Pin(p.priority); err != nil {
		p.log.Warn("forkjoin worker priority not applied",
			zap.String("pool", p.name), zap.Int("worker", id), zap.Error(err))
	}

	p.mu.Lock()
	seen := p.gen
	p.ready.Done()
	for {
		for !p.stopped && p.gen == seen {
			p.wake.Wait()
		}
		if p.stopped {
			p.mu.Unlock()
			return
		}
		seen = p.gen
		c := p.job
		p.mu.Unlock()

		if c != nil && id < len(c.ranges) {
			c.execute(id)
			c.done.Arrive()
		}

		p.mu.Lock()
	}
}

// Size returns the number of worker threads, caller excluded.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.size
}

// Name returns the pool name used in logs and metrics.
func (p *Pool) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Stats returns current counters.
func (p *Pool) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return Stats{
		Workers: p.size,
		Cycles:  p.cycles.Load(),
		Inline:  p.inline.Load(),
	}
}

// Close stops and joins every worker. Run and Reduce keep working after
// Close but execute on the caller only. Close is idempotent.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.dispatchMu.Lock()
		p.closed.Store(true)
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		p.wake.Broadcast()
		p.dispatchMu.Unlock()

		p.exited.Wait()
		p.metrics.Load().SetForkJoinWorkers(p.name, 0)
		p.log.Debug("forkjoin pool stopped",
			zap.String("pool", p.name),
			zap.Int64("cycles", p.cycles.Load()),
			zap.Int64("inline", p.inline.Load()))
	})
}

// EnableMetrics enables metrics collection. It is a no-op on a nil pool.
func (p *Pool) EnableMetrics(config metrics.Config) error {
	if p == nil {
		return nil
	}
	r := metrics.FromConfig(config)
	p.metrics.Store(r)
	if !p.closed.Load() {
		r.SetForkJoinWorkers(p.name, p.size)
	}
	return nil
}

// DisableMetrics disables metrics collection.
func (p *Pool) DisableMetrics() {
	if p == nil {
		return
	}
	p.metrics.Store(nil)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (p *Pool) MetricsEnabled() bool {
	return p != nil && p.metrics.Load() != nil
}

var _ metrics.Instrumentable = (*Pool)(nil)
