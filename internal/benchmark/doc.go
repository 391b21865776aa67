// Package benchmark holds benchmarks that compare the parflow pools with
// plain goroutine fan-out. Run with:
//
//	go test -bench=. -benchmem ./internal/benchmark
package benchmark
