package bookkeeping

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	pfcontext "github.com/vnykmshr/parflow/pkg/common/context"
	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
	"github.com/vnykmshr/parflow/pkg/common/validation"
	"github.com/vnykmshr/parflow/pkg/parallel/background"
	"github.com/vnykmshr/parflow/pkg/parallel/forkjoin"
)

// RedisObserverConfig configures a RedisObserver.
type RedisObserverConfig struct {
	// Redis is the client used for publication. Required.
	Redis redis.UniversalClient

	// Key is the prefix of the stats hash; the full key is Key:InstanceID.
	Key string

	// Channel receives a JSON copy of every snapshot. Empty disables it.
	Channel string

	// InstanceID distinguishes processes sharing a Redis. Defaults to
	// hostname-pid.
	InstanceID string

	// Timeout bounds one publication.
	Timeout time.Duration

	// KeyTTL is how long the hash outlives the last publication.
	KeyTTL time.Duration

	// Logger receives publication failures when running as a task.
	Logger *zap.Logger
}

// DefaultRedisObserverConfig returns defaults for everything but the client.
func DefaultRedisObserverConfig() RedisObserverConfig {
	return RedisObserverConfig{
		Key:        "parflow:stats",
		InstanceID: instanceID(),
		Timeout:    500 * time.Millisecond,
		KeyTTL:     time.Hour,
	}
}

func instanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

// RedisObserver publishes pool counters to Redis.
type RedisObserver struct {
	cfg        RedisObserverConfig
	key        string
	background *background.Pool
	forkjoin   *forkjoin.Pool
	log        *zap.Logger

	published atomic.Int64
	failures  atomic.Int64
}

// NewRedisObserver creates an observer of the given pools. Either pool may
// be nil.
func NewRedisObserver(cfg RedisObserverConfig, bg *background.Pool, fj *forkjoin.Pool) (*RedisObserver, error) {
	if err := validation.ValidateNotNil("bookkeeping", "redis", cfg.Redis); err != nil {
		return nil, err
	}

	defaults := DefaultRedisObserverConfig()
	if cfg.Key == "" {
		cfg.Key = defaults.Key
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = defaults.InstanceID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.KeyTTL <= 0 {
		cfg.KeyTTL = defaults.KeyTTL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &RedisObserver{
		cfg:        cfg,
		key:        cfg.Key + ":" + cfg.InstanceID,
		background: bg,
		forkjoin:   fj,
		log:        log,
	}, nil
}

// Key returns the Redis hash the observer writes.
func (o *RedisObserver) Key() string {
	return o.key
}

// Snapshot collects the current counters.
func (o *RedisObserver) Snapshot() map[string]interface{} {
	fields := map[string]interface{}{
		"instance":   o.cfg.InstanceID,
		"updated_at": time.Now().UnixMilli(),
	}
	if o.background != nil {
		s := o.background.Stats()
		fields["background_workers"] = s.Workers
		fields["background_tasks"] = s.Tasks
		fields["background_invocations"] = s.Invocations
		fields["background_execs"] = s.Execs
		fields["background_disperses"] = s.Disperses
		fields["background_panics"] = s.Panics
	}
	if o.forkjoin != nil {
		s := o.forkjoin.Stats()
		fields["forkjoin_workers"] = s.Workers
		fields["forkjoin_cycles"] = s.Cycles
		fields["forkjoin_inline"] = s.Inline
	}
	return fields
}

// Publish writes one snapshot to the hash and, if configured, the channel,
// in a single transaction.
func (o *RedisObserver) Publish(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	fields := o.Snapshot()
	pipe := o.cfg.Redis.TxPipeline()
	pipe.HSet(ctx, o.key, fields)
	pipe.Expire(ctx, o.key, o.cfg.KeyTTL)
	if o.cfg.Channel != "" {
		payload, err := json.Marshal(fields)
		if err != nil {
			return pferrors.NewOperationError("bookkeeping", "encode snapshot", err)
		}
		pipe.Publish(ctx, o.cfg.Channel, payload)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		o.failures.Add(1)
		if pfcontext.IsTimedOut(ctx) {
			err = fmt.Errorf("%w after %s: %w", pferrors.ErrTimeout, o.cfg.Timeout, err)
		}
		return pferrors.NewOperationError("bookkeeping", "publish", err).WithContext(o.key)
	}
	o.published.Add(1)
	return nil
}

// Published returns the number of successful publications.
func (o *RedisObserver) Published() int64 {
	return o.published.Load()
}

// Failures returns the number of failed publications.
func (o *RedisObserver) Failures() int64 {
	return o.failures.Load()
}

// Task schedules Publish every interval on a background pool. Failures are
// logged and retried at the next due time.
func (o *RedisObserver) Task(name string, priority int, interval time.Duration, opts ...Option) (*Scheduled, error) {
	return Every(name, priority, interval, func(ctx context.Context, workerID int) {
		// A list mutation must not abort a publication halfway; Timeout
		// bounds it instead.
		if err := o.Publish(context.WithoutCancel(ctx)); err != nil {
			o.log.Warn("stats publication failed",
				zap.String("task", name),
				zap.Int("worker", workerID),
				zap.Error(err))
		}
	}, opts...)
}
