package background

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/vnykmshr/parflow/internal/rendezvous"
	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
	"github.com/vnykmshr/parflow/pkg/parallel/threadprio"
)

// execOrder is one Exec broadcast. Worker i alone writes panics[i].
type execOrder struct {
	gen    uint64
	fn     func(workerID int)
	ack    *rendezvous.Latch
	panics []*pferrors.PanicError
}

func (o *execOrder) execute(workerID int) {
	defer o.ack.Arrive()
	defer func() {
		if r := recover(); r != nil {
			o.panics[workerID] = &pferrors.PanicError{
				Participant: workerID,
				Value:       r,
				Stack:       debug.Stack(),
			}
		}
	}()
	o.fn(workerID)
}

func (o *execOrder) firstPanic() *pferrors.PanicError {
	for _, perr := range o.panics {
		if perr != nil {
			return perr
		}
	}
	return nil
}

// Exec runs fn exactly once on every worker and returns when all of them
// have finished. Workers stop scanning tasks to take the order and resume
// afterwards. Concurrent callers are serialized.
//
// Exec returns ErrClosed if the pool is closed before or while the order
// runs, and a *errors.PanicError for the lowest worker id whose fn panicked.
// It must not be called from a task or from fn itself.
func (p *Pool) Exec(fn func(workerID int)) error {
	if fn == nil {
		return nil
	}
	if p.closed.Load() {
		return pferrors.ErrClosed
	}

	p.execMu.Lock()
	defer p.execMu.Unlock()

	start := time.Now()
	p.disperse.raise()
	defer func() {
		p.disperse.lower()
		p.wake.Broadcast()
	}()

	o := &execOrder{
		fn:     fn,
		ack:    rendezvous.NewLatch(p.size),
		panics: make([]*pferrors.PanicError, p.size),
	}
	p.orderMu.Lock()
	p.execGen++
	o.gen = p.execGen
	p.order = o
	p.orderMu.Unlock()
	p.wake.Broadcast()

	select {
	case <-o.ack.Done():
	case <-p.exitedCh:
		select {
		case <-o.ack.Done():
		default:
			return pferrors.ErrClosed
		}
	}

	p.orderMu.Lock()
	p.order = nil
	p.orderMu.Unlock()

	p.execs.Add(1)
	p.metrics.Load().ObserveExec(p.name, time.Since(start))

	if perr := o.firstPanic(); perr != nil {
		return perr
	}
	return nil
}

// pendingOrder returns the order a worker that last ran generation seen
// still has to run, or nil.
func (p *Pool) pendingOrder(seen uint64) *execOrder {
	p.orderMu.Lock()
	defer p.orderMu.Unlock()
	if p.order == nil || p.order.gen == seen {
		return nil
	}
	return p.order
}

// SetPriority applies prio to the thread of every worker. Failures of
// individual workers are joined into the returned error.
func (p *Pool) SetPriority(prio threadprio.Priority) error {
	if err := prio.Validate(); err != nil {
		return err
	}

	errs := make([]error, p.size)
	if err := p.Exec(func(workerID int) {
		if err := threadprio.Apply(prio); err != nil {
			errs[workerID] = fmt.Errorf("worker %d: %w", workerID, err)
		}
	}); err != nil {
		return err
	}
	return errors.Join(errs...)
}
