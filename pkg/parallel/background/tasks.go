package background

import (
	"cmp"
	"context"
	"slices"
)

// TaskFunc is one invocation of a repeating task. It returns true while it
// has more work and false when it has nothing to do right now. A pass in
// which every task returns false on its first call backs the worker off for
// one TaskWaitTimeout. ctx is the scan token; it is canceled when the task
// list is about to change, an Exec starts, or the pool closes.
type TaskFunc func(ctx context.Context, workerID int) bool

// Task describes a repeating task.
type Task struct {
	// Name identifies the task in logs and Tasks.
	Name string
	// Priority orders the scan; higher runs first. Equal priorities keep
	// insertion order.
	Priority int
	// Run is the task body.
	Run TaskFunc
}

// TaskID identifies a registered task. The zero TaskID is never assigned.
type TaskID uint64

// TaskInfo describes a registered task.
type TaskInfo struct {
	ID       TaskID
	Name     string
	Priority int
}

type entry struct {
	id   TaskID
	task Task
}

// AddTask registers t and returns its id. Tasks with a nil Run are ignored
// and yield 0. When AddTask returns, every worker has left the previous list
// and the next scan sees t.
func (p *Pool) AddTask(t Task) TaskID {
	if t.Run == nil {
		return 0
	}
	return p.AddTasks(t)[0]
}

// AddTasks registers several tasks under a single list mutation, so no scan
// observes only some of them. The returned ids match the argument order.
func (p *Pool) AddTasks(tasks ...Task) []TaskID {
	ids := make([]TaskID, len(tasks))

	p.acquire()
	defer p.release()

	added := false
	for i, t := range tasks {
		if t.Run == nil {
			continue
		}
		p.nextID++
		ids[i] = p.nextID
		p.tasks = append(p.tasks, entry{id: p.nextID, task: t})
		added = true
	}
	if added {
		slices.SortStableFunc(p.tasks, func(a, b entry) int {
			return cmp.Compare(b.task.Priority, a.task.Priority)
		})
	}
	return ids
}

// RemoveTask unregisters the task with the given id. It reports whether the
// task was registered. When RemoveTask returns, no worker is running it.
func (p *Pool) RemoveTask(id TaskID) bool {
	p.acquire()
	defer p.release()

	i := slices.IndexFunc(p.tasks, func(e entry) bool { return e.id == id })
	if i < 0 {
		return false
	}
	p.tasks = slices.Delete(p.tasks, i, i+1)
	return true
}

// DeleteTasks unregisters every task. When DeleteTasks returns, no worker is
// running any of them and none will be called again.
func (p *Pool) DeleteTasks() {
	p.acquire()
	defer p.release()

	clear(p.tasks)
	p.tasks = p.tasks[:0]
}

// Tasks returns the registered tasks in scan order. Like the mutating
// methods it must not be called from a task.
func (p *Pool) Tasks() []TaskInfo {
	p.listMu.RLock()
	defer p.listMu.RUnlock()

	infos := make([]TaskInfo, len(p.tasks))
	for i, e := range p.tasks {
		infos[i] = TaskInfo{ID: e.id, Name: e.task.Name, Priority: e.task.Priority}
	}
	return infos
}
