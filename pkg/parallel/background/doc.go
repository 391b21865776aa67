/*
Package background provides a pool of long-lived workers that keep running a
priority-ordered set of repeating tasks, plus a synchronous broadcast.

Tasks:

A Task is a function called over and over by whichever worker reaches it. It
returns true while it has more work and false once it has nothing to do right
now. Workers walk the task list from the highest priority down; each task is
called until it returns false, then the next one gets its turn.

	pool := background.New(poolconfig.PoolConfig{WorkerCount: 2})
	defer pool.Close()

	pool.AddTask(background.Task{
		Name:     "flush",
		Priority: 10,
		Run: func(ctx context.Context, workerID int) bool {
			return queue.FlushOne(ctx)
		},
	})

The context passed to a task is the scan token. It is canceled whenever the
task list is about to change, an Exec is starting, or the pool is closing.
Long-running tasks should check it and return promptly; a task that neither
returns false nor watches the token starves list mutation and shutdown.

Exec:

Exec runs a function exactly once on every worker and returns once all of
them have finished. It is intended for per-thread setup such as changing
the scheduling priority of the workers:

	err := pool.Exec(func(workerID int) {
		threadprio.Apply(prio)
	})

Exec and the task list methods must not be called from inside a task or an
Exec function of the same pool.

Idle workers sleep until they are woken by a list change or an Exec, or until
the configured TaskWaitTimeout elapses.
*/
package background
