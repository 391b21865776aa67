// Package context holds small helpers for the yield points of pool tasks.
package context

import (
	"context"
	"errors"
	"time"
)

// IsCanceled returns true if the context has been canceled or has expired.
// Background tasks call it between units of work to honour a disperse request.
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// IsTimedOut returns true if the context was canceled due to a timeout
func IsTimedOut(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// Sleep pauses for d or until ctx is done, whichever comes first.
// It returns false if the context ended the wait.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return !IsCanceled(ctx)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
