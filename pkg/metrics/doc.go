// Package metrics provides Prometheus instrumentation for parflow pools.
//
// Both pool kinds implement Instrumentable. Metrics are off by default; a
// PoolConfig carrying a *Registry, or a later EnableMetrics call, turns them
// on. Every series carries a "pool" label taken from the pool name.
//
// # Quick Start
//
//	reg := prometheus.NewRegistry()
//	pool := forkjoin.New(poolconfig.PoolConfig{
//		Name:    "kernels",
//		Metrics: metrics.FromConfig(metrics.Config{Enabled: true, Registry: reg}),
//	})
//	defer pool.Close()
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # Available Metrics
//
// ## Fork-join
//
//   - parflow_forkjoin_cycles_total{pool,kind}: dispatched cycles (kind is run or reduce)
//   - parflow_forkjoin_inline_total{pool,kind}: calls that ran inline on the caller
//   - parflow_forkjoin_cycle_duration_seconds{pool,kind}: dispatch to barrier release
//   - parflow_forkjoin_participants{pool}: participants per cycle, caller included
//   - parflow_forkjoin_workers{pool}: worker threads, caller excluded
//
// ## Background
//
//   - parflow_background_workers{pool}: worker threads
//   - parflow_background_tasks{pool}: registered repeating tasks
//   - parflow_background_task_invocations_total{pool}: task invocations
//   - parflow_background_task_panics_total{pool}: recovered task panics
//   - parflow_background_execs_total{pool}: exec broadcasts
//   - parflow_background_exec_duration_seconds{pool}: exec publication to last acknowledgement
//   - parflow_background_disperse_total{pool}: task list mutations
//   - parflow_background_disperse_wait_seconds{pool}: time a mutation waited for scanners to leave
//
// # Custom Registry
//
// FromConfig binds one Registry per prometheus.Registerer, so several pools
// can share an isolated registry without duplicate registration panics.
package metrics
