package background

import (
	"context"
	"sync"
	"time"
)

// disperser hands out the scan token given to tasks. Raising it cancels the
// current token so scanning workers leave the task list at their next check;
// the last lower installs a fresh token.
type disperser struct {
	mu      sync.Mutex
	root    context.Context
	holders int
	token   context.Context
	cancel  context.CancelFunc
}

func newDisperser(root context.Context) *disperser {
	d := &disperser{root: root}
	d.token, d.cancel = context.WithCancel(root)
	return d
}

func (d *disperser) raise() {
	d.mu.Lock()
	d.holders++
	d.cancel()
	d.mu.Unlock()
}

func (d *disperser) lower() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.holders--
	switch {
	case d.holders < 0:
		panic("background: disperse lowered more often than raised")
	case d.holders == 0:
		d.token, d.cancel = context.WithCancel(d.root)
	}
}

// current returns the token scans run under. It is already canceled while
// any dispersal is outstanding.
func (d *disperser) current() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token
}

// acquire takes the task list for writing. Scanning workers hold the list
// shared and only let go between task calls, so the token is canceled first.
func (p *Pool) acquire() {
	start := time.Now()
	p.disperse.raise()
	p.listMu.Lock()

	p.disperses.Add(1)
	p.metrics.Load().ObserveDisperse(p.name, time.Since(start))
}

// release undoes acquire and wakes the workers to rescan.
func (p *Pool) release() {
	n := len(p.tasks)
	p.taskCount.Store(int64(n))
	p.disperse.lower()
	p.listMu.Unlock()
	p.wake.Broadcast()

	p.metrics.Load().SetBackgroundTasks(p.name, n)
}
