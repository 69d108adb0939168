package model

import (
	"sync"
	"time"
)

// Clock tracks one side's remaining time. Only the running side's clock
// consumes time.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft: initialTime,
		now:      time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

// StartAt starts the clock as if it had been started at t. A t in the
// future is treated as now.
func (c *Clock) StartAt(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return
	}
	if now := c.now(); t.After(now) {
		t = now
	}
	c.lastStarted = t
	c.isRunning = true
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		if c.timeLeft < 0 {
			c.timeLeft = 0
		}
		c.isRunning = false
	}
}

// Reset stops the clock and sets the remaining time.
func (c *Clock) Reset(timeLeft time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeLeft = timeLeft
	c.isRunning = false
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

// Banked returns the time left when the clock was last started or stopped,
// without the time consumed by the current run.
func (c *Clock) Banked() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLeft
}

// StartedAt returns when the current run began. Only meaningful while the
// clock is running.
func (c *Clock) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStarted
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
