// Package rendezvous provides the one-shot synchronisation primitives shared
// by the fork-join and background pools.
package rendezvous

import (
	"context"
	"sync/atomic"
)

// Latch is a one-shot countdown barrier. It is created with the number of
// parties that must arrive; the channel returned by Done is closed when the
// last one calls Arrive. A Latch is never reset; each cycle uses a new one.
type Latch struct {
	remaining atomic.Int64
	done      chan struct{}
}

// NewLatch creates a latch waiting for n arrivals. n <= 0 yields a latch that
// is already open.
func NewLatch(n int) *Latch {
	l := &Latch{done: make(chan struct{})}
	if n <= 0 {
		close(l.done)
		return l
	}
	l.remaining.Store(int64(n))
	return l
}

// Arrive records one arrival. Arriving more times than the latch was created
// for is an invariant violation and panics.
func (l *Latch) Arrive() {
	switch n := l.remaining.Add(-1); {
	case n == 0:
		close(l.done)
	case n < 0:
		panic("rendezvous: latch arrival after release")
	}
}

// Wait blocks until every party has arrived.
func (l *Latch) Wait() {
	<-l.done
}

// WaitContext blocks until every party has arrived or ctx is done.
func (l *Latch) WaitContext(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once the latch has opened.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}

// Remaining reports how many arrivals are still outstanding.
func (l *Latch) Remaining() int {
	if n := l.remaining.Load(); n > 0 {
		return int(n)
	}
	return 0
}
