package bookkeeping

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	pfcontext "github.com/vnykmshr/parflow/pkg/common/context"
	pferrors "github.com/vnykmshr/parflow/pkg/common/errors"
	"github.com/vnykmshr/parflow/pkg/common/validation"
	"github.com/vnykmshr/parflow/pkg/parallel/background"
)

// Clock tells the current time. *testutil.MockClock satisfies it.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Job is the body of a scheduled task.
type Job func(ctx context.Context, workerID int)

// Option configures a scheduled task.
type Option func(*Scheduled)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduled) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation evaluates cron expressions in loc instead of time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduled) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMaxRuns stops the task after n firings. Zero means unlimited.
func WithMaxRuns(n int) Option {
	return func(s *Scheduled) {
		s.maxRuns = int64(max(n, 0))
	}
}

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// never marks a task that will not fire again.
const never = math.MaxInt64

// Scheduled is a job gated by a schedule.
type Scheduled struct {
	name     string
	priority int
	expr     string
	schedule cron.Schedule
	job      Job
	clock    Clock
	loc      *time.Location
	maxRuns  int64

	next atomic.Int64 // unix nanoseconds of the next due time
	runs atomic.Int64
}

// Cron schedules job by a cron expression.
func Cron(name string, priority int, expr string, job Job, opts ...Option) (*Scheduled, error) {
	if err := validation.ValidateNotEmpty("bookkeeping", "expression", expr); err != nil {
		return nil, err
	}
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, pferrors.NewValidationError("bookkeeping", "expression", expr, err.Error()).
			WithHint("use a cron expression such as \"*/5 * * * *\" or \"@every 1m\"")
	}
	return newScheduled(name, priority, expr, schedule, job, opts)
}

// Every schedules job at a fixed interval, rounded down to the second as
// cron.Every does. The first firing is one interval from now.
func Every(name string, priority int, interval time.Duration, job Job, opts ...Option) (*Scheduled, error) {
	if interval < time.Second {
		return nil, pferrors.NewValidationError("bookkeeping", "interval", interval, "must be at least one second").
			WithHint("schedules have one second resolution")
	}
	return newScheduled(name, priority, "@every "+interval.String(), cron.Every(interval), job, opts)
}

func newScheduled(name string, priority int, expr string, schedule cron.Schedule, job Job, opts []Option) (*Scheduled, error) {
	if job == nil {
		return nil, pferrors.NewValidationError("bookkeeping", "job", nil, "must not be nil")
	}
	s := &Scheduled{
		name:     name,
		priority: priority,
		expr:     expr,
		schedule: schedule,
		job:      job,
		clock:    realClock{},
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.next.Store(s.following(s.clock.Now()))
	return s, nil
}

// following returns the due time after now in unix nanoseconds.
func (s *Scheduled) following(now time.Time) int64 {
	t := s.schedule.Next(now.In(s.loc))
	if t.IsZero() {
		return never
	}
	return t.UnixNano()
}

// Task returns the background task that runs the job when it is due.
func (s *Scheduled) Task() background.Task {
	return background.Task{
		Name:     s.name,
		Priority: s.priority,
		Run:      s.run,
	}
}

// run claims the current due time, if any, and runs the job. Workers race on
// a compare-and-swap of the due time, so each firing has one winner.
func (s *Scheduled) run(ctx context.Context, workerID int) bool {
	if pfcontext.IsCanceled(ctx) {
		return false
	}
	due := s.next.Load()
	now := s.clock.Now()
	if due == never || now.UnixNano() < due {
		return false
	}
	if !s.next.CompareAndSwap(due, s.following(now)) {
		return false
	}
	if n := s.runs.Add(1); s.maxRuns > 0 && n >= s.maxRuns {
		s.next.Store(never)
	}

	s.job(ctx, workerID)
	return true
}

// Name returns the task name.
func (s *Scheduled) Name() string {
	return s.name
}

// Next returns the next due time, or the zero time once the task is done.
func (s *Scheduled) Next() time.Time {
	n := s.next.Load()
	if n == never {
		return time.Time{}
	}
	return time.Unix(0, n).In(s.loc)
}

// Runs returns how many times the job has fired.
func (s *Scheduled) Runs() int64 {
	return s.runs.Load()
}

func (s *Scheduled) String() string {
	return fmt.Sprintf("%s(%s)", s.name, s.expr)
}
