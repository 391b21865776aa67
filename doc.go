/*
Package parflow provides a parallel execution substrate for numeric workloads.

Pools (pkg/parallel):
  - forkjoin: Run and Reduce over a partitioned range; the caller takes part
  - background: Long-lived workers running prioritized repeating tasks, plus Exec
  - partition: Range splitting shared by both pools
  - poolconfig: Construction-time configuration for both pools
  - threadprio: Scheduling priority of worker threads

Collaborators:
  - kernels: Vector map, axpy, reductions and random fills on a fork-join pool
  - bookkeeping: Cron and interval tasks, Redis stats observer
  - metrics: Prometheus instrumentation for both pools

Example usage:

	import (
		"github.com/vnykmshr/parflow/pkg/kernels"
		"github.com/vnykmshr/parflow/pkg/parallel/background"
		"github.com/vnykmshr/parflow/pkg/parallel/forkjoin"
		"github.com/vnykmshr/parflow/pkg/parallel/poolconfig"
	)

	compute := forkjoin.New(poolconfig.Default())
	defer compute.Close()
	bg := background.New(poolconfig.PoolConfig{WorkerCount: 2})
	defer bg.Close()

	kernels.Axpy(compute, -lr, grad, weights)
	bg.AddTask(checkpoint.Task())
*/
package parflow
