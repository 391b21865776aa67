package forkjoin

import (
	"github.com/vnykmshr/parflow/pkg/metrics"
	"github.com/vnykmshr/parflow/pkg/parallel/partition"
)

// Reduce evaluates red on every participant's range and combines the
// partial results with final on the caller.
//
// final receives one partial per participant in participant order and only
// runs after every participant has finished. When the work is not split
// (count <= 1, a single participant, or a nil or closed pool) Reduce returns
// red over the whole range and final is not called.
//
// A nil pool is valid and runs everything on the caller.
func Reduce[T any](p *Pool, count int, red func(WorkRange) T, final func(partials []T) T) T {
	return ReduceN(p, count, 0, red, final)
}

// ReduceN is Reduce limited to n participants, caller included.
func ReduceN[T any](p *Pool, count, n int, red func(WorkRange) T, final func(partials []T) T) T {
	parts := p.participants(count, n)
	if parts == 1 {
		p.countInline(metrics.KindReduce)
		return red(partition.Whole(count))
	}

	cache := make([]T, parts)
	p.dispatch(metrics.KindReduce, count, parts, func(r WorkRange) {
		cache[r.Participant] = red(r)
	})
	return final(cache)
}
