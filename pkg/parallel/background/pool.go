package background

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vnykmshr/parflow/internal/rendezvous"
	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
	"github.com/vnykmshr/parflow/pkg/metrics"
	"github.com/vnykmshr/parflow/pkg/parallel/poolconfig"
	"github.com/vnykmshr/parflow/pkg/parallel/threadprio"
)

// Stats is a point-in-time view of pool activity.
type Stats struct {
	// Workers is the number of worker threads.
	Workers int
	// Tasks is the number of registered tasks.
	Tasks int
	// Invocations counts task calls across all workers.
	Invocations int64
	// Execs counts completed Exec broadcasts.
	Execs int64
	// Disperses counts task list mutations.
	Disperses int64
	// Panics counts recovered task panics.
	Panics int64
}

// Pool runs repeating tasks on a fixed set of worker threads.
type Pool struct {
	name     string
	size     int
	log      *zap.Logger
	priority threadprio.Priority
	timeout  time.Duration
	metrics  atomic.Pointer[metrics.Registry]

	// listMu guards tasks and nextID. Scanning workers hold it shared.
	listMu sync.RWMutex
	tasks  []entry
	nextID TaskID

	disperse *disperser
	wake     *rendezvous.Notifier

	// execMu admits one Exec at a time; orderMu guards order and execGen.
	execMu  sync.Mutex
	orderMu sync.Mutex
	order   *execOrder
	execGen uint64

	stop      chan struct{}
	stopOnce  sync.Once
	closed    atomic.Bool
	ready     sync.WaitGroup
	exited    sync.WaitGroup
	exitedCh  chan struct{}
	cancelAll context.CancelFunc

	taskCount   atomic.Int64
	invocations atomic.Int64
	execs       atomic.Int64
	disperses   atomic.Int64
	panics      atomic.Int64
}

// New creates a pool and blocks until every worker is running. With a zero
// WorkerCount the pool sizes itself to the hardware concurrency.
func New(cfg poolconfig.PoolConfig) *Pool {
	root, cancel := context.WithCancel(context.Background())

	p := &Pool{
		name:      cfg.PoolName("background"),
		size:      cfg.Workers(0),
		log:       cfg.Log(),
		priority:  cfg.Priority,
		timeout:   cfg.WaitTimeout(),
		disperse:  newDisperser(root),
		wake:      rendezvous.NewNotifier(),
		stop:      make(chan struct{}),
		exitedCh:  make(chan struct{}),
		cancelAll: cancel,
	}
	p.metrics.Store(cfg.Metrics)

	p.ready.Add(p.size)
	p.exited.Add(p.size)
	for id := 0; id < p.size; id++ {
		go p.worker(id)
	}
	p.ready.Wait()

	p.metrics.Load().SetBackgroundWorkers(p.name, p.size)
	p.log.Debug("background pool started",
		zap.String("pool", p.name),
		zap.Int("workers", p.size),
		zap.Duration("wait_timeout", p.timeout),
		zap.Stringer("priority", p.priority))
	return p
}

// Size returns the number of worker threads.
func (p *Pool) Size() int {
	return p.size
}

// Name returns the pool name used in logs and metrics.
func (p *Pool) Name() string {
	return p.name
}

// Stats returns current counters.
//
// Stats does not touch the task list lock, so tasks may call it.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:     p.size,
		Tasks:       int(p.taskCount.Load()),
		Invocations: p.invocations.Load(),
		Execs:       p.execs.Load(),
		Disperses:   p.disperses.Load(),
		Panics:      p.panics.Load(),
	}
}

// Close stops every worker and waits for them to exit. Registered tasks are
// abandoned and a pending Exec returns ErrClosed. Close is idempotent.
func (p *Pool) Close() {
	p.stopWorkers()
	<-p.exitedCh
}

// Shutdown is Close bounded by ctx. If the workers have not exited when ctx
// is done, typically because a task ignores its context, it returns an error
// wrapping ErrTimeout. The workers keep being asked to stop either way.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.stopWorkers()
	select {
	case <-p.exitedCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background pool %q shutdown: %w: %w", p.name, pferrors.ErrTimeout, ctx.Err())
	}
}

// Done returns a channel closed once every worker has exited.
func (p *Pool) Done() <-chan struct{} {
	return p.exitedCh
}

func (p *Pool) stopWorkers() {
	p.stopOnce.Do(func() {
		p.closed.Store(true)
		close(p.stop)
		p.cancelAll()
		p.wake.Broadcast()

		go func() {
			p.exited.Wait()
			p.metrics.Load().SetBackgroundWorkers(p.name, 0)
			p.log.Debug("background pool stopped",
				zap.String("pool", p.name),
				zap.Int64("invocations", p.invocations.Load()),
				zap.Int64("execs", p.execs.Load()),
				zap.Int64("panics", p.panics.Load()))
			close(p.exitedCh)
		}()
	})
}

func (p *Pool) stopping() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// EnableMetrics enables metrics collection.
func (p *Pool) EnableMetrics(config metrics.Config) error {
	r := metrics.FromConfig(config)
	p.metrics.Store(r)
	if !p.closed.Load() {
		r.SetBackgroundWorkers(p.name, p.size)
	}
	return nil
}

// DisableMetrics disables metrics collection.
func (p *Pool) DisableMetrics() {
	p.metrics.Store(nil)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (p *Pool) MetricsEnabled() bool {
	return p.metrics.Load() != nil
}

var _ metrics.Instrumentable = (*Pool)(nil)
