// Package threadprio adjusts the scheduling priority of the calling OS thread.
//
// Pool workers lock themselves to an OS thread for their whole lifetime, so a
// priority applied from a worker (at start-up or through a background Exec
// broadcast) stays with that worker. Apply must only be called from a
// goroutine that holds runtime.LockOSThread; otherwise the change lands on
// whichever thread the goroutine happens to run on.
package threadprio

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/vnykmshr/parflow/pkg/common/validation"
)

// Class selects how a worker thread's priority is derived.
type Class int

const (
	// Unchanged leaves the thread at the priority it inherited.
	Unchanged Class = iota
	// BelowCurrent lowers the thread one step below its inherited priority.
	BelowCurrent
	// Explicit sets the nice value given in Priority.Nice.
	Explicit
)

// Nice value bounds on Unix systems.
const (
	MinNice = -20
	MaxNice = 19
)

func (c Class) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case BelowCurrent:
		return "below-current"
	case Explicit:
		return "explicit"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass parses the names produced by Class.String.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unchanged":
		return Unchanged, nil
	case "below-current", "below", "lower":
		return BelowCurrent, nil
	case "explicit", "other":
		return Explicit, nil
	default:
		return Unchanged, fmt.Errorf("threadprio: unknown class %q", s)
	}
}

// Priority is a thread priority request.
type Priority struct {
	Class Class
	// Nice is used only with Explicit; clamped into [MinNice, MaxNice].
	Nice int
}

func (p Priority) String() string {
	if p.Class == Explicit {
		return fmt.Sprintf("explicit(nice=%d)", p.Nice)
	}
	return p.Class.String()
}

// Validate checks the request strictly.
func (p Priority) Validate() error {
	if err := validation.ValidateRange("threadprio", "class", int(p.Class), int(Unchanged), int(Explicit)); err != nil {
		return err
	}
	if p.Class == Explicit {
		return validation.ValidateRange("threadprio", "nice", p.Nice, MinNice, MaxNice)
	}
	return nil
}

// target computes the nice value to set given the current one, and whether
// anything needs to change.
func (p Priority) target(current int) (int, bool) {
	switch p.Class {
	case BelowCurrent:
		if current >= MaxNice {
			return current, false
		}
		return current + 1, true
	case Explicit:
		n := min(max(p.Nice, MinNice), MaxNice)
		return n, n != current
	default:
		return current, false
	}
}

// Apply applies p to the calling OS thread.
func Apply(p Priority) error {
	if p.Class == Unchanged {
		return nil
	}
	cur, err := Current()
	if err != nil {
		return err
	}
	next, change := p.target(cur)
	if !change {
		return nil
	}
	if err := setNice(next); err != nil {
		return fmt.Errorf("threadprio: set nice %d: %w", next, err)
	}
	return nil
}

// Current returns the nice value of the calling OS thread.
func Current() (int, error) {
	n, err := getNice()
	if err != nil {
		return 0, fmt.Errorf("threadprio: get nice: %w", err)
	}
	return n, nil
}

// Pin locks the calling goroutine to its OS thread for the rest of its life
// and applies p to that thread. The goroutine must never call
// runtime.UnlockOSThread: when it exits still locked the runtime discards the
// thread, so a modified priority cannot leak into unrelated goroutines.
func Pin(p Priority) error {
	runtime.LockOSThread()
	return Apply(p)
}
