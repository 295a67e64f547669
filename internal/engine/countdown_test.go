package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownDeliversTicks(t *testing.T) {
	ticked := make(chan struct{}, 16)
	c := NewCountdown(5*time.Millisecond, func() {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})
	defer c.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never arrived", i+1)
		}
	}
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	c := NewCountdown(time.Millisecond, func() {})
	c.Stop()
	c.Stop() // must not panic
}

func TestCountdownStopHaltsTicks(t *testing.T) {
	var count atomic.Int64
	c := NewCountdown(time.Millisecond, func() { count.Add(1) })

	time.Sleep(20 * time.Millisecond)
	c.Stop()
	after := count.Load()
	time.Sleep(20 * time.Millisecond)

	// One tick may already be in flight at Stop; beyond that the
	// counter must not move.
	if drift := count.Load() - after; drift > 1 {
		t.Errorf("counter advanced %d ticks after Stop", drift)
	}
}

func TestCountdownStopFromTick(t *testing.T) {
	done := make(chan struct{})
	ready := make(chan *Countdown, 1)
	var once atomic.Bool
	c := NewCountdown(10*time.Millisecond, func() {
		if once.CompareAndSwap(false, true) {
			(<-ready).Stop()
			close(done)
		}
	})
	ready <- c

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stopping from the tick callback deadlocked")
	}
}
