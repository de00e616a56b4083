package auctiontimer

import (
	"sync"
	"time"

	"auction-house/utils"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
)

// Timer schedules a single delayed action. Starting it again replaces the
// pending action, so at most one is outstanding.
type Timer struct {
	clock clock.Clock

	mu      sync.Mutex
	pending *handle
}

type handle struct {
	timer  *clock.Timer
	fireAt time.Time
	done   atomic.Bool // fired or cancelled
}

// New creates a timer driven by clk; a nil clock means wall-clock time
func New(clk clock.Clock) *Timer {
	if clk == nil {
		clk = clock.New()
	}
	return &Timer{clock: clk}
}

// Start schedules onExpire to run once duration has elapsed. A non-positive
// duration leaves the auction without a clock and terminates the process.
func (t *Timer) Start(duration time.Duration, onExpire func()) {
	if duration <= 0 || onExpire == nil {
		utils.Fatal("auction timer: cannot schedule expiry", map[string]any{
			"duration": duration.String(),
			"callback": onExpire != nil,
		})
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	h := &handle{fireAt: t.clock.Now().Add(duration)}
	h.timer = t.clock.AfterFunc(duration, func() {
		if h.done.CompareAndSwap(false, true) {
			onExpire()
		}
	})
	t.pending = h
}

// RemainingSeconds returns whole seconds until the pending action fires, or 0
// when it already fired, was cancelled or was never scheduled.
func (t *Timer) RemainingSeconds() int {
	t.mu.Lock()
	h := t.pending
	t.mu.Unlock()

	if h == nil || h.done.Load() {
		return 0
	}
	remaining := h.fireAt.Sub(t.clock.Now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Second)
}

// Cancel prevents the pending action from running if it has not started yet
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	if t.pending == nil {
		return
	}
	t.pending.done.Store(true)
	t.pending.timer.Stop()
	t.pending = nil
}
