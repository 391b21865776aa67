package forkjoin

import (
	"runtime/debug"
	"time"

	"github.com/vnykmshr/parflow/internal/rendezvous"
	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
	"github.com/vnykmshr/parflow/pkg/metrics"
	"github.com/vnykmshr/parflow/pkg/parallel/partition"
)

// cycle is the job installed for one dispatch. It is fully built before any
// worker is woken and never written afterwards, except that participant i
// alone may store into panics[i].
type cycle struct {
	fn     func(WorkRange)
	ranges []WorkRange
	done   *rendezvous.Latch
	panics []*pferrors.PanicError
}

func (c *cycle) execute(participant int) {
	defer func() {
		if r := recover(); r != nil {
			c.panics[participant] = &pferrors.PanicError{
				Participant: participant,
				Value:       r,
				Stack:       debug.Stack(),
			}
		}
	}()
	c.fn(c.ranges[participant])
}

// firstPanic returns the panic of the lowest participant, mirroring what a
// sequential left-to-right loop would have raised.
func (c *cycle) firstPanic() *pferrors.PanicError {
	for _, perr := range c.panics {
		if perr != nil {
			return perr
		}
	}
	return nil
}

// Run calls fn once per participant with disjoint ranges that together cover
// [0, count), using every worker plus the caller. It returns once every
// participant has finished.
//
// Ranges must be processed independently; the pool orders nothing between
// participants. If fn panics on any participant, Run re-panics on the caller
// with a *errors.PanicError after all participants have finished.
func (p *Pool) Run(count int, fn func(WorkRange)) {
	p.RunN(count, 0, fn)
}

// RunN is Run limited to n participants, caller included. n <= 0 means all;
// larger values are clamped to the pool size plus one.
func (p *Pool) RunN(count, n int, fn func(WorkRange)) {
	parts := p.participants(count, n)
	if parts == 1 {
		p.countInline(metrics.KindRun)
		fn(partition.Whole(count))
		return
	}
	p.dispatch(metrics.KindRun, count, parts, fn)
}

// For calls fn(i) for every i in [0, count), splitting the indices across
// all participants.
func (p *Pool) For(count int, fn func(i int)) {
	p.Run(count, func(r WorkRange) {
		for i := r.Offset; i < r.End(); i++ {
			fn(i)
		}
	})
}

func (p *Pool) participants(count, n int) int {
	if p == nil || p.closed.Load() {
		return 1
	}
	return partition.Participants(count, n, p.size)
}

func (p *Pool) countInline(kind string) {
	if p == nil {
		return
	}
	p.inline.Add(1)
	p.metrics.Load().CountInline(p.name, kind)
}

// dispatch runs one fork-join cycle with the given number of participants.
func (p *Pool) dispatch(kind string, count, participants int, fn func(WorkRange)) {
	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()

	c := &cycle{
		fn:     fn,
		ranges: partition.Partition(count, participants),
		done:   rendezvous.NewLatch(participants - 1),
		panics: make([]*pferrors.PanicError, participants),
	}

	if p.closed.Load() {
		// Closed between the participant decision and here; keep the range
		// shape the caller was promised and walk it on this goroutine.
		for i := range c.ranges {
			c.execute(i)
		}
		p.countInline(kind)
	} else {
		start := time.Now()

		p.mu.Lock()
		p.job = c
		p.gen++
		p.mu.Unlock()
		p.wake.Broadcast()

		c.execute(0)
		c.done.Wait()

		p.mu.Lock()
		p.job = nil
		p.mu.Unlock()

		p.cycles.Add(1)
		p.metrics.Load().ObserveCycle(p.name, kind, participants, time.Since(start))
	}

	if perr := c.firstPanic(); perr != nil {
		panic(perr)
	}
}
