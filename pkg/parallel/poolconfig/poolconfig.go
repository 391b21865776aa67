// Package poolconfig holds the construction-time configuration shared by the
// fork-join and background pools.
//
// Everything a pool would otherwise query from the environment (hardware
// concurrency, thread priority policy, idle poll granularity) is an explicit
// field here so tests can build pools with deterministic shapes.
package poolconfig

import (
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/vnykmshr/parflow/pkg/common/validation"
	"github.com/vnykmshr/parflow/pkg/metrics"
	"github.com/vnykmshr/parflow/pkg/parallel/threadprio"
)

const (
	// DefaultTaskWaitTimeout bounds how long an idle background worker sleeps
	// before re-checking for tasks.
	DefaultTaskWaitTimeout = 10 * time.Millisecond

	// MinTaskWaitTimeout is what non-positive timeouts are clamped to.
	MinTaskWaitTimeout = time.Millisecond
)

// PoolConfig configures a pool.
type PoolConfig struct {
	// Name labels the pool in logs and metrics.
	Name string

	// WorkerCount is the number of worker threads. Zero derives it from
	// HardwareConcurrency; negative values are clamped to zero.
	WorkerCount int

	// HardwareConcurrency is the number of hardware threads to size against
	// when WorkerCount is zero. Zero means runtime.NumCPU().
	HardwareConcurrency int

	// Priority is applied by every worker to its own OS thread at start-up.
	Priority threadprio.Priority

	// TaskWaitTimeout bounds idle sleeps of background workers and therefore
	// the pickup latency of newly added tasks. Zero means
	// DefaultTaskWaitTimeout; negative values clamp to MinTaskWaitTimeout.
	TaskWaitTimeout time.Duration

	// Logger receives pool lifecycle and failure logs. Nil disables logging.
	Logger *zap.Logger

	// Metrics receives pool metrics. Nil disables metrics.
	Metrics *metrics.Registry
}

// Default returns a configuration sized to the machine.
func Default() PoolConfig {
	return PoolConfig{
		HardwareConcurrency: runtime.NumCPU(),
		TaskWaitTimeout:     DefaultTaskWaitTimeout,
	}
}

// Validate checks the configuration strictly. Pools never call it; they
// clamp instead. Front-ends call it to reject bad flags early.
func (c PoolConfig) Validate() error {
	if err := validation.ValidateNonNegative("poolconfig", "worker_count", c.WorkerCount); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("poolconfig", "hardware_concurrency", c.HardwareConcurrency); err != nil {
		return err
	}
	if c.TaskWaitTimeout != 0 {
		if err := validation.ValidatePositiveDuration("poolconfig", "task_wait_timeout", c.TaskWaitTimeout); err != nil {
			return err
		}
	}
	return c.Priority.Validate()
}

// Hardware returns the effective hardware concurrency, at least 1.
func (c PoolConfig) Hardware() int {
	if c.HardwareConcurrency > 0 {
		return c.HardwareConcurrency
	}
	return max(runtime.NumCPU(), 1)
}

// Workers resolves the worker count. reserve is subtracted from the
// hardware concurrency when WorkerCount is zero; the fork-join pool reserves
// one thread for the calling goroutine.
func (c PoolConfig) Workers(reserve int) int {
	switch {
	case c.WorkerCount > 0:
		return c.WorkerCount
	case c.WorkerCount < 0:
		return 0
	}
	return max(c.Hardware()-reserve, 0)
}

// WaitTimeout resolves TaskWaitTimeout.
func (c PoolConfig) WaitTimeout() time.Duration {
	switch {
	case c.TaskWaitTimeout == 0:
		return DefaultTaskWaitTimeout
	case c.TaskWaitTimeout < MinTaskWaitTimeout:
		return MinTaskWaitTimeout
	}
	return c.TaskWaitTimeout
}

// Log returns the configured logger, or a no-op logger.
func (c PoolConfig) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// PoolName returns Name, or fallback when empty.
func (c PoolConfig) PoolName(fallback string) string {
	if c.Name == "" {
		return fallback
	}
	return c.Name
}
