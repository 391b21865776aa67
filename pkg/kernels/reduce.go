package kernels

import (
	"math"

	"github.com/vnykmshr/parflow/pkg/parallel/forkjoin"
)

func sumPartials(partials []float64) float64 {
	var s float64
	for _, v := range partials {
		s += v
	}
	return s
}

// Sum returns the sum of x. Partial sums are combined in participant order,
// so the result may differ from a sequential sum in the last bits.
func Sum(p *forkjoin.Pool, x []float64) float64 {
	return forkjoin.ReduceN(p, len(x), participants(len(x)), func(r forkjoin.WorkRange) float64 {
		var s float64
		for _, v := range x[r.Offset:r.End()] {
			s += v
		}
		return s
	}, sumPartials)
}

// Dot returns the inner product of x and y.
func Dot(p *forkjoin.Pool, x, y []float64) (float64, error) {
	if err := checkLen("y", len(y), len(x)); err != nil {
		return 0, err
	}
	return forkjoin.ReduceN(p, len(x), participants(len(x)), func(r forkjoin.WorkRange) float64 {
		var s float64
		ys := y[r.Offset:r.End()]
		for i, v := range x[r.Offset:r.End()] {
			s += v * ys[i]
		}
		return s
	}, sumPartials), nil
}

// SumSquares returns the sum of x[i]*x[i].
func SumSquares(p *forkjoin.Pool, x []float64) float64 {
	return forkjoin.ReduceN(p, len(x), participants(len(x)), func(r forkjoin.WorkRange) float64 {
		var s float64
		for _, v := range x[r.Offset:r.End()] {
			s += v * v
		}
		return s
	}, sumPartials)
}

// Norm returns the Euclidean norm of x.
func Norm(p *forkjoin.Pool, x []float64) float64 {
	return math.Sqrt(SumSquares(p, x))
}

// MaxAbs returns the largest absolute value in x and its index, or (0, -1)
// for an empty vector. Ties resolve to the lowest index.
func MaxAbs(p *forkjoin.Pool, x []float64) (float64, int) {
	type best struct {
		val float64
		idx int
	}
	b := forkjoin.ReduceN(p, len(x), participants(len(x)), func(r forkjoin.WorkRange) best {
		out := best{idx: -1}
		for i := r.Offset; i < r.End(); i++ {
			if a := math.Abs(x[i]); out.idx < 0 || a > out.val {
				out = best{a, i}
			}
		}
		return out
	}, func(partials []best) best {
		out := best{idx: -1}
		for _, b := range partials {
			if b.idx >= 0 && (out.idx < 0 || b.val > out.val) {
				out = b
			}
		}
		return out
	})
	return b.val, b.idx
}
