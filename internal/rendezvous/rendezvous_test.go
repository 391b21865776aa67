package rendezvous

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatch(t *testing.T) {
	t.Run("opens after all arrivals", func(t *testing.T) {
		l := NewLatch(3)
		assert.Equal(t, 3, l.Remaining())

		var wg sync.WaitGroup
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.Arrive()
			}()
		}
		wg.Wait()

		select {
		case <-l.Done():
		case <-time.After(time.Second):
			t.Fatal("latch did not open")
		}
		assert.Equal(t, 0, l.Remaining())
		l.Wait()
	})

	t.Run("zero parties is open", func(t *testing.T) {
		l := NewLatch(0)
		select {
		case <-l.Done():
		default:
			t.Fatal("latch with no parties should already be open")
		}
	})

	t.Run("stays closed until last arrival", func(t *testing.T) {
		l := NewLatch(2)
		l.Arrive()
		select {
		case <-l.Done():
			t.Fatal("latch opened early")
		default:
		}
		assert.Equal(t, 1, l.Remaining())
	})

	t.Run("over-arrival panics", func(t *testing.T) {
		l := NewLatch(1)
		l.Arrive()
		assert.Panics(t, l.Arrive)
	})

	t.Run("wait with context", func(t *testing.T) {
		l := NewLatch(1)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		require.ErrorIs(t, l.WaitContext(ctx), context.DeadlineExceeded)

		l.Arrive()
		require.NoError(t, l.WaitContext(context.Background()))
	})
}

func TestNotifier(t *testing.T) {
	t.Run("broadcast releases waiters", func(t *testing.T) {
		n := NewNotifier()
		const waiters = 4

		var wg sync.WaitGroup
		ready := make(chan struct{}, waiters)
		for i := 0; i < waiters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ch := n.C()
				ready <- struct{}{}
				<-ch
			}()
		}
		for i := 0; i < waiters; i++ {
			<-ready
		}
		n.Broadcast()

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("waiters were not released")
		}
	})

	t.Run("broadcast before block is not lost", func(t *testing.T) {
		n := NewNotifier()
		ch := n.C()
		n.Broadcast()

		timer := time.NewTimer(time.Hour)
		defer timer.Stop()
		assert.True(t, Wait(ch, nil, timer, time.Second))
	})

	t.Run("wait times out", func(t *testing.T) {
		n := NewNotifier()
		timer := time.NewTimer(time.Hour)
		defer timer.Stop()

		start := time.Now()
		assert.False(t, Wait(n.C(), nil, timer, 5*time.Millisecond))
		assert.Less(t, time.Since(start), time.Second)

		// the timer is reusable after firing
		assert.False(t, Wait(n.C(), nil, timer, time.Millisecond))
	})

	t.Run("stop releases wait", func(t *testing.T) {
		n := NewNotifier()
		stop := make(chan struct{})
		close(stop)
		timer := time.NewTimer(time.Hour)
		defer timer.Stop()
		assert.False(t, Wait(n.C(), stop, timer, time.Minute))
	})
}
