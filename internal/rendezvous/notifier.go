package rendezvous

import (
	"sync"
	"time"
)

// Notifier is a broadcast wake-up with generation semantics, usable like a
// condition variable whose wait can be bounded by a timeout.
//
// Waiters take the current channel with C, re-check their condition, and only
// then block on it. A Broadcast issued between C and the block still releases
// them, so no wake-up is lost.
type Notifier struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{})}
}

// C returns the channel that the next Broadcast closes.
func (n *Notifier) C() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ch
}

// Broadcast wakes every goroutine blocked on a channel obtained from C.
func (n *Notifier) Broadcast() {
	n.mu.Lock()
	close(n.ch)
	n.ch = make(chan struct{})
	n.mu.Unlock()
}

// Wait blocks on wake until it is closed, timer t fires after timeout, or
// stop is closed. It reports whether the wake channel fired. t is reused
// between calls to avoid a timer allocation per idle period; with Go 1.23
// timer semantics Reset and Stop discard any stale tick.
func Wait(wake <-chan struct{}, stop <-chan struct{}, t *time.Timer, timeout time.Duration) bool {
	t.Reset(timeout)
	fired := false
	select {
	case <-wake:
		fired = true
	case <-stop:
	case <-t.C:
		return false
	}
	t.Stop()
	return fired
}
