package kernels

import (
	"math/rand/v2"

	"github.com/vnykmshr/parflow/pkg/parallel/forkjoin"
)

// rngBlock is the number of values drawn from one generator stream. Streams
// are keyed by block index, which keeps fills independent of how the pool
// splits the vector.
const rngBlock = 1024

// fillBlocks calls fill once per rngBlock-sized block of dst with a
// generator seeded from seed and the block offset.
func fillBlocks(p *forkjoin.Pool, dst []float64, seed uint64, fill func(rng *rand.Rand, block []float64)) {
	blocks := (len(dst) + rngBlock - 1) / rngBlock
	p.RunN(blocks, participants(len(dst)), func(r forkjoin.WorkRange) {
		for b := r.Offset; b < r.End(); b++ {
			lo := b * rngBlock
			hi := min(lo+rngBlock, len(dst))
			fill(rand.New(rand.NewPCG(seed, uint64(lo))), dst[lo:hi])
		}
	})
}

// FillUniform fills dst with values drawn uniformly from [lo, hi).
func FillUniform(p *forkjoin.Pool, dst []float64, seed uint64, lo, hi float64) {
	width := hi - lo
	fillBlocks(p, dst, seed, func(rng *rand.Rand, block []float64) {
		for i := range block {
			block[i] = lo + width*rng.Float64()
		}
	})
}

// FillNormal fills dst with normally distributed values.
func FillNormal(p *forkjoin.Pool, dst []float64, seed uint64, mean, stddev float64) {
	fillBlocks(p, dst, seed, func(rng *rand.Rand, block []float64) {
		for i := range block {
			block[i] = mean + stddev*rng.NormFloat64()
		}
	})
}
