package timeofday

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// Stopper cancels a pending timer.
type Stopper interface {
	Stop() bool
}

// Timers schedules delayed callbacks. Tests substitute a manual implementation.
type Timers interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// RealTimers implements Timers with time.AfterFunc.
type RealTimers struct{}

// AfterFunc runs f on its own goroutine after d.
func (RealTimers) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// RepeatInterval returns the repeat period for a hold that has lasted elapsed.
func RepeatInterval(elapsed time.Duration) time.Duration {
	switch {
	case elapsed >= config.RepeatFastestAfter:
		return config.RepeatFastestInterval
	case elapsed >= config.RepeatFastAfter:
		return config.RepeatFastInterval
	}
	return config.RepeatInitialInterval
}

// RepeatController drives press-and-hold stepping. Start fires one step at
// once and then keeps firing, accelerating the longer the hold lasts, until
// Stop. Only one field repeats at a time; a new Start replaces the old hold.
type RepeatController struct {
	timers Timers
	onStep func(f Field, delta int)

	mu      sync.Mutex
	pending Stopper
	gen     uint64
	elapsed time.Duration
	closed  bool
}

// NewRepeatController calls onStep for every step. A nil timers selects RealTimers.
func NewRepeatController(timers Timers, onStep func(f Field, delta int)) *RepeatController {
	if timers == nil {
		timers = RealTimers{}
	}
	return &RepeatController{timers: timers, onStep: onStep}
}

// Start begins holding field f in direction delta (+1 or -1).
func (r *RepeatController) Start(f Field, delta int) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.cancelLocked()
	r.gen++
	gen := r.gen
	r.elapsed = 0
	r.scheduleLocked(gen, f, delta)
	r.mu.Unlock()

	slog.Debug(config.MsgRepeatStart,
		config.LogKeyComponent, config.CompStepper,
		config.LogKeyField, f.String(),
		config.LogKeyDelta, delta)

	r.onStep(f, delta)
}

// Stop ends the current hold. Calling it with no hold active is a no-op.
func (r *RepeatController) Stop() {
	r.mu.Lock()
	active := r.pending != nil
	r.cancelLocked()
	r.gen++
	r.mu.Unlock()

	if active {
		slog.Debug(config.MsgRepeatStop, config.LogKeyComponent, config.CompStepper)
	}
}

// Close stops the hold and refuses any later Start.
func (r *RepeatController) Close() {
	r.Stop()
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Active reports whether a hold is in progress.
func (r *RepeatController) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}

func (r *RepeatController) cancelLocked() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

func (r *RepeatController) scheduleLocked(gen uint64, f Field, delta int) {
	interval := RepeatInterval(r.elapsed)
	r.pending = r.timers.AfterFunc(interval, func() {
		r.fire(gen, interval, f, delta)
	})
}

func (r *RepeatController) fire(gen uint64, interval time.Duration, f Field, delta int) {
	r.mu.Lock()
	// A stale timer may still run after Stop or a newer Start.
	if gen != r.gen || r.closed {
		r.mu.Unlock()
		return
	}
	r.elapsed += interval
	r.scheduleLocked(gen, f, delta)
	r.mu.Unlock()

	r.onStep(f, delta)
}
