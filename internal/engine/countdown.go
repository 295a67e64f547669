package engine

import (
	"sync"
	"time"
)

// Countdown delivers tick callbacks at a fixed interval until stopped.
// Stop is synchronous from the caller's point of view: after Stop
// returns no new tick is started, and the session's phase guard makes
// a tick already in flight a no-op.
type Countdown struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// NewCountdown starts a ticker goroutine calling tick every interval
func NewCountdown(interval time.Duration, tick func()) *Countdown {
	c := &Countdown{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-c.stop:
				return
			case <-c.ticker.C:
				select {
				case <-c.stop:
					return
				default:
				}
				tick()
			}
		}
	}()
	return c
}

// Stop halts the countdown. Safe to call more than once and from
// within a tick callback.
func (c *Countdown) Stop() {
	c.once.Do(func() {
		c.ticker.Stop()
		close(c.stop)
	})
}
