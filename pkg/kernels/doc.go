// Package kernels implements elementwise and reduction kernels over float64
// vectors on top of a fork-join pool.
//
// Every kernel accepts a nil pool and then runs on the caller. Inputs shorter
// than Grain per participant are not split further, so small vectors never pay
// the dispatch cost. Random fills are deterministic for a given seed whatever
// the pool size.
package kernels
