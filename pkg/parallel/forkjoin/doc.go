/*
Package forkjoin provides a fork-join pool for parallelising numeric loops.

A Pool owns a fixed set of worker threads that live as long as the pool. Each
call to Run or Reduce is one fork-join cycle: the range [0, count) is split
into contiguous per-participant ranges, the job is published, workers are
woken, the caller processes its own range as participant 0, and the call
returns once every participant has finished.

Basic usage:

	pool := forkjoin.New(poolconfig.Default())
	defer pool.Close()

	pool.Run(len(dst), func(r forkjoin.WorkRange) {
		for i := r.Offset; i < r.End(); i++ {
			dst[i] = a[i] + b[i]
		}
	})

	sum := forkjoin.Reduce(pool, len(xs),
		func(r forkjoin.WorkRange) float64 {
			var s float64
			for _, x := range xs[r.Offset:r.End()] {
				s += x
			}
			return s
		},
		func(partials []float64) float64 {
			var s float64
			for _, v := range partials {
				s += v
			}
			return s
		})

Partitioning:

Ranges differ in size by at most one; the first count%participants ranges get
the extra unit. Work of 0 or 1 units, a participant limit of 1, a pool without
workers, and a nil or closed pool all run the function once on the caller with
the whole range and no synchronisation.

Contract for range functions:

  - Ranges are disjoint; writes to shared state must stay within the range.
  - Range functions must not call back into the same pool.
  - A panic does not wedge the pool. It is recovered on the participant, the
    cycle still completes, and the caller re-panics with a *errors.PanicError
    for the lowest participant that panicked.

Cycles are not cancelable once dispatched.
*/
package forkjoin
