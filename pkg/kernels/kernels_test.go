package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
	"github.com/vnykmshr/parflow/pkg/parallel/forkjoin"
	"github.com/vnykmshr/parflow/pkg/parallel/poolconfig"
)

// size spans several grains with a ragged tail.
const size = 3*Grain + 17

func newPool(t *testing.T) *forkjoin.Pool {
	t.Helper()
	p := forkjoin.New(poolconfig.PoolConfig{WorkerCount: 3})
	t.Cleanup(p.Close)
	return p
}

func ramp(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i%97) - 48
	}
	return x
}

func TestParticipants(t *testing.T) {
	assert.Equal(t, 1, participants(0))
	assert.Equal(t, 1, participants(Grain))
	assert.Equal(t, 2, participants(Grain+1))
	assert.Equal(t, 4, participants(size))
}

func TestMap(t *testing.T) {
	p := newPool(t)
	src := ramp(size)
	dst := make([]float64, size)

	require.NoError(t, Map(p, dst, src, math.Abs))
	for i := range src {
		require.Equal(t, math.Abs(src[i]), dst[i], "index %d", i)
	}
	assert.Greater(t, p.Stats().Cycles, int64(0))

	err := Map(p, dst[:1], src, math.Abs)
	assert.True(t, pferrors.IsValidationError(err))
}

func TestAxpyAndScale(t *testing.T) {
	p := newPool(t)
	x := ramp(size)
	y := make([]float64, size)
	for i := range y {
		y[i] = 1
	}

	require.NoError(t, Axpy(p, 2, x, y))
	for i := range y {
		require.Equal(t, 1+2*x[i], y[i], "index %d", i)
	}

	Scale(p, 0.5, y)
	for i := range y {
		require.Equal(t, (1+2*x[i])*0.5, y[i], "index %d", i)
	}

	assert.Error(t, Axpy(p, 1, x, y[:10]))
}

func TestReductionsMatchSequential(t *testing.T) {
	p := newPool(t)

	for _, n := range []int{0, 1, 2, Grain, size} {
		x := ramp(n)
		y := make([]float64, n)
		for i := range y {
			y[i] = float64(i % 5)
		}

		var sum, dot, sq float64
		for i := range x {
			sum += x[i]
			dot += x[i] * y[i]
			sq += x[i] * x[i]
		}

		assert.InDelta(t, sum, Sum(p, x), 1e-9, "sum n=%d", n)
		assert.InDelta(t, sq, SumSquares(p, x), 1e-9, "sum of squares n=%d", n)
		assert.InDelta(t, math.Sqrt(sq), Norm(p, x), 1e-9, "norm n=%d", n)

		got, err := Dot(p, x, y)
		require.NoError(t, err)
		assert.InDelta(t, dot, got, 1e-9, "dot n=%d", n)
	}

	_, err := Dot(p, make([]float64, 3), make([]float64, 4))
	assert.True(t, pferrors.IsValidationError(err))
}

func TestMaxAbs(t *testing.T) {
	p := newPool(t)

	v, i := MaxAbs(p, nil)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, -1, i)

	x := make([]float64, size)
	x[Grain+5] = -7
	x[3*Grain+1] = 7
	x[10] = 3

	v, i = MaxAbs(p, x)
	assert.Equal(t, 7.0, v)
	assert.Equal(t, Grain+5, i, "ties resolve to the lowest index")

	v, i = MaxAbs(nil, x)
	assert.Equal(t, 7.0, v)
	assert.Equal(t, Grain+5, i)
}

func TestFillIsIndependentOfPoolSize(t *testing.T) {
	p := newPool(t)

	seq := make([]float64, size)
	par := make([]float64, size)
	FillUniform(nil, seq, 42, -1, 1)
	FillUniform(p, par, 42, -1, 1)
	assert.Equal(t, seq, par)
	for _, v := range par {
		require.True(t, v >= -1 && v < 1, "value %v out of range", v)
	}

	other := make([]float64, size)
	FillUniform(p, other, 43, -1, 1)
	assert.NotEqual(t, par, other)

	FillNormal(nil, seq, 7, 0, 1)
	FillNormal(p, par, 7, 0, 1)
	assert.Equal(t, seq, par)
}

func TestFillNormalMoments(t *testing.T) {
	p := newPool(t)

	x := make([]float64, 1<<16)
	FillNormal(p, x, 1, 3, 2)

	mean := Sum(p, x) / float64(len(x))
	assert.InDelta(t, 3, mean, 0.05)

	centered := make([]float64, len(x))
	require.NoError(t, Map(p, centered, x, func(v float64) float64 { return v - mean }))
	variance := SumSquares(p, centered) / float64(len(x))
	assert.InDelta(t, 4, variance, 0.1)
}
