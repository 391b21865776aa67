package background

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/vnykmshr/parflow/internal/rendezvous"
	pfcontext "github.com/vnykmshr/parflow/pkg/common/context"
	"github.com/vnykmshr/parflow/pkg/parallel/threadprio"
)

// worker is the main loop of one worker thread.
func (p *Pool) worker(id int) {
	defer p.exited.Done()

	if err := threadprio.Pin(p.priority); err != nil {
		p.log.Warn("background worker priority not applied",
			zap.String("pool", p.name), zap.Int("worker", id), zap.Error(err))
	}

	idle := time.NewTimer(p.timeout)
	idle.Stop()
	defer idle.Stop()

	var seen uint64
	p.ready.Done()

	for {
		// Take the wake channel before looking at any condition so that a
		// broadcast issued in between is not lost.
		wake := p.wake.C()

		if p.stopping() {
			return
		}
		if o := p.pendingOrder(seen); o != nil {
			seen = o.gen
			o.execute(id)
			continue
		}
		if p.scan(id) {
			continue
		}
		rendezvous.Wait(wake, p.stop, idle, p.timeout)
	}
}

// scan makes one pass over the task list in priority order and reports
// whether any task did work. The pass ends early once the scan token is
// canceled.
func (p *Pool) scan(id int) bool {
	p.listMu.RLock()
	defer p.listMu.RUnlock()

	ctx := p.disperse.current()
	if len(p.tasks) == 0 || pfcontext.IsCanceled(ctx) {
		return false
	}

	worked := false
	for i := range p.tasks {
		e := &p.tasks[i]
		for !pfcontext.IsCanceled(ctx) {
			if !p.invoke(ctx, e, id) {
				break
			}
			worked = true
		}
		if pfcontext.IsCanceled(ctx) {
			break
		}
	}
	return worked
}

// invoke runs one call of a task. The call is counted before it starts. A
// panic is logged, counted and treated as "no more work"; the task stays
// registered.
func (p *Pool) invoke(ctx context.Context, e *entry, id int) (more bool) {
	p.invocations.Add(1)
	p.metrics.Load().AddTaskInvocations(p.name, 1)

	defer func() {
		if r := recover(); r != nil {
			more = false
			p.panics.Add(1)
			p.metrics.Load().CountTaskPanic(p.name)
			p.log.Error("background task panicked",
				zap.String("pool", p.name),
				zap.Int("worker", id),
				zap.String("task", e.task.Name),
				zap.Uint64("task_id", uint64(e.id)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	return e.task.Run(ctx, id)
}
