package session

import (
	"context"
	"sync"
	"time"
)

const (
	CaptchaCooldown = 60 * time.Second
	CooldownTick    = time.Second
)

// Clock abstracts time for the cooldown.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Cooldown is a resend countdown counted in ticks. It lives in memory only.
type Cooldown struct {
	clock  Clock
	period time.Duration
	tick   time.Duration

	mu    sync.Mutex
	until time.Time
}

func NewCooldown(clock Clock, period, tick time.Duration) *Cooldown {
	if clock == nil {
		clock = SystemClock
	}
	if tick <= 0 {
		tick = CooldownTick
	}
	return &Cooldown{clock: clock, period: period, tick: tick}
}

// Start (re)starts the countdown from the full period.
func (c *Cooldown) Start() {
	c.mu.Lock()
	c.until = c.clock.Now().Add(c.period)
	c.mu.Unlock()
}

// Reset stops the countdown.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	c.until = time.Time{}
	c.mu.Unlock()
}

// Remaining is the number of ticks left, rounded up; 0 when idle.
func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	left := c.until.Sub(c.clock.Now())
	c.mu.Unlock()

	if left <= 0 {
		return 0
	}
	return int((left + c.tick - 1) / c.tick)
}

func (c *Cooldown) Active() bool {
	return c.Remaining() > 0
}

// Countdown emits Remaining once per tick until it reaches 0, which is sent
// last, or until ctx is done. The channel is closed afterwards.
func (c *Cooldown) Countdown(ctx context.Context) <-chan int {
	out := make(chan int, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(c.tick)
		defer ticker.Stop()

		for {
			n := c.Remaining()
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
			if n == 0 {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
