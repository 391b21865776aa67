/*
Package parallel groups the execution pools of parflow and their shared
building blocks.

This package offers components for running numeric work on fixed sets of
worker threads:

  - forkjoin: Synchronous fork-join cycles over a partitioned range
  - background: Repeating prioritized tasks and a synchronous broadcast
  - partition: Splitting [0, count) into contiguous per-participant ranges
  - poolconfig: Worker count, priority, idle timeout, logger and metrics
  - threadprio: Scheduling priority of the calling OS thread

Fork-join:

The caller takes part as participant 0 and the call returns once every
participant has finished its range:

	pool := forkjoin.New(poolconfig.Default())
	defer pool.Close()

	pool.Run(len(dst), func(r forkjoin.WorkRange) {
		for i := r.Offset; i < r.End(); i++ {
			dst[i] = src[i] * 2
		}
	})

Background:

Workers scan the task list from the highest priority down and call each task
until it reports no more work:

	bg := background.New(poolconfig.PoolConfig{WorkerCount: 2})
	defer bg.Close()

	bg.AddTask(background.Task{Name: "flush", Priority: 1, Run: flush})
	bg.Exec(func(workerID int) { threadprio.Apply(prio) })

Both pools are built once, live as long as the program needs them and never
spawn threads per call.
*/
package parallel
