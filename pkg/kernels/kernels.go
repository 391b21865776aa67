package kernels

import (
	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
	"github.com/vnykmshr/parflow/pkg/parallel/forkjoin"
)

// Grain is the smallest number of elements handed to one participant.
const Grain = 4096

// participants caps the split so that each range holds at least Grain
// elements.
func participants(n int) int {
	return max((n+Grain-1)/Grain, 1)
}

func checkLen(field string, got, want int) error {
	if got != want {
		return pferrors.NewValidationError("kernels", field, got, "length mismatch").
			WithHint("vectors must have equal length")
	}
	return nil
}

// Map sets dst[i] = f(src[i]). f must be safe for concurrent use.
func Map(p *forkjoin.Pool, dst, src []float64, f func(float64) float64) error {
	if err := checkLen("dst", len(dst), len(src)); err != nil {
		return err
	}
	p.RunN(len(src), participants(len(src)), func(r forkjoin.WorkRange) {
		d, s := dst[r.Offset:r.End()], src[r.Offset:r.End()]
		for i, v := range s {
			d[i] = f(v)
		}
	})
	return nil
}

// Axpy computes y += alpha*x.
func Axpy(p *forkjoin.Pool, alpha float64, x, y []float64) error {
	if err := checkLen("y", len(y), len(x)); err != nil {
		return err
	}
	p.RunN(len(x), participants(len(x)), func(r forkjoin.WorkRange) {
		xs, ys := x[r.Offset:r.End()], y[r.Offset:r.End()]
		for i, v := range xs {
			ys[i] += alpha * v
		}
	})
	return nil
}

// Scale computes x *= alpha.
func Scale(p *forkjoin.Pool, alpha float64, x []float64) {
	p.RunN(len(x), participants(len(x)), func(r forkjoin.WorkRange) {
		xs := x[r.Offset:r.End()]
		for i := range xs {
			xs[i] *= alpha
		}
	})
}
