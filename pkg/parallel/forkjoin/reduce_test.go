package forkjoin

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
)

func sumSquares(r WorkRange) int64 {
	var s int64
	for i := r.Offset; i < r.End(); i++ {
		s += int64(i) * int64(i)
	}
	return s
}

func addAll(partials []int64) int64 {
	var s int64
	for _, v := range partials {
		s += v
	}
	return s
}

func TestReduceSumOfSquares(t *testing.T) {
	const workers = 3
	p := newPool(t, workers)

	for _, count := range []int{0, 1, 2, workers, workers + 1, 10 * (workers + 1), 1000} {
		want := sumSquares(WorkRange{Count: count})
		got := Reduce(p, count, sumSquares, addAll)
		assert.Equal(t, want, got, "count=%d", count)
	}
}

func TestReduceFinalSeesEveryPartial(t *testing.T) {
	p := newPool(t, 3)

	got := Reduce(p, 8,
		func(r WorkRange) []int { return []int{r.Participant, r.Count} },
		func(partials [][]int) []int {
			require.Len(t, partials, 4)
			for i, part := range partials {
				require.NotNil(t, part, "partial %d missing", i)
				assert.Equal(t, i, part[0])
				assert.Equal(t, 2, part[1])
			}
			return []int{len(partials)}
		})

	assert.Equal(t, []int{4}, got)
}

func TestReduceNSingleParticipantSkipsFinal(t *testing.T) {
	p := newPool(t, 3)

	var finals atomic.Int32
	got := ReduceN(p, 100, 1, sumSquares, func(ps []int64) int64 {
		finals.Add(1)
		return addAll(ps)
	})

	assert.Equal(t, sumSquares(WorkRange{Count: 100}), got)
	assert.Zero(t, finals.Load())
	assert.Equal(t, int64(1), p.Stats().Inline)
}

func TestReduceNLimitsParticipants(t *testing.T) {
	p := newPool(t, 4)

	got := ReduceN(p, 100, 2,
		func(r WorkRange) int { return r.Count },
		func(ps []int) int {
			assert.Equal(t, []int{50, 50}, ps)
			return ps[0] + ps[1]
		})
	assert.Equal(t, 100, got)
}

func TestReducePanicSkipsFinal(t *testing.T) {
	p := newPool(t, 2)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		perr, ok := r.(*pferrors.PanicError)
		require.True(t, ok, "recovered %T", r)
		assert.Equal(t, 1, perr.Participant)
		assert.True(t, errors.Is(perr, pferrors.ErrPanicked))
	}()

	Reduce(p, 30,
		func(r WorkRange) int {
			if r.Participant == 1 {
				panic(errors.New("bad partial"))
			}
			return r.Count
		},
		func([]int) int {
			t.Error("final must not run after a panic")
			return 0
		})
}

func TestReduceAfterClose(t *testing.T) {
	p := New(poolConfigWorkers(3))
	p.Close()

	got := Reduce(p, 50, sumSquares, func([]int64) int64 {
		t.Fatal("final must not run on a closed pool")
		return 0
	})
	assert.Equal(t, sumSquares(WorkRange{Count: 50}), got)
}
