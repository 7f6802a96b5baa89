package popover

import (
	"log/slog"
	"sync"

	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// Geometry is one measurement of the anchor, the popover and the viewport.
type Geometry struct {
	Anchor   Rect
	Popover  Size
	Viewport Size
}

// Measurer reports the current geometry. It returns false while any of the
// elements is not laid out yet.
type Measurer func() (Geometry, bool)

// FrameScheduler runs f once on the next frame. The returned cancel func
// prevents f from running if it has not started yet.
type FrameScheduler interface {
	RequestFrame(f func()) (cancel func())
}

// EventSource notifies about viewport changes (resize, scroll).
type EventSource interface {
	Subscribe(f func()) (unsubscribe func())
}

// Tracker keeps a popover positioned while it is open. Open places it at
// once and again on the following frame; every source event schedules one
// more frame, with at most one frame pending at a time.
type Tracker struct {
	cfg       Config
	measure   Measurer
	scheduler FrameScheduler
	sources   []EventSource
	apply     func(Result)

	// applyMu serializes apply with Close.
	applyMu sync.Mutex

	mu      sync.Mutex
	open    bool
	gen     uint64
	cancel  func()
	unsubs  []func()
	last    Result
	applied bool
}

// NewTracker wires a measurer to apply. apply only runs when the result
// changed since the last call, and must not call Close.
func NewTracker(cfg Config, measure Measurer, scheduler FrameScheduler, apply func(Result), sources ...EventSource) *Tracker {
	return &Tracker{
		cfg:       cfg.WithDefaults(),
		measure:   measure,
		scheduler: scheduler,
		sources:   sources,
		apply:     apply,
	}
}

// Open starts tracking. Calling it while open is a no-op.
func (t *Tracker) Open() {
	t.mu.Lock()
	if t.open {
		t.mu.Unlock()
		return
	}
	t.open = true
	t.gen++
	t.applied = false
	for _, src := range t.sources {
		t.unsubs = append(t.unsubs, src.Subscribe(t.Notify))
	}
	t.mu.Unlock()

	t.Update()
	t.Notify()
}

// Notify schedules a recompute on the next frame unless one is already pending.
func (t *Tracker) Notify() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open || t.cancel != nil {
		return
	}
	gen := t.gen
	t.cancel = t.scheduler.RequestFrame(func() { t.frame(gen) })
}

func (t *Tracker) frame(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.open {
		t.mu.Unlock()
		return
	}
	t.cancel = nil
	t.mu.Unlock()

	t.Update()
}

// Update recomputes the placement synchronously. A Close that lands while
// the geometry is measured discards the result.
func (t *Tracker) Update() {
	t.mu.Lock()
	open, gen := t.open, t.gen
	t.mu.Unlock()
	if !open {
		return
	}

	geo, ok := t.measure()
	if !ok {
		slog.Debug(config.MsgPlacementSkip, config.LogKeyComponent, config.CompPopover)
		return
	}
	res := Compute(geo.Anchor, geo.Popover, geo.Viewport, t.cfg)

	t.applyMu.Lock()
	defer t.applyMu.Unlock()

	t.mu.Lock()
	if !t.open || gen != t.gen || (t.applied && res == t.last) {
		t.mu.Unlock()
		return
	}
	t.last, t.applied = res, true
	t.mu.Unlock()

	slog.Debug(config.MsgPlacement,
		config.LogKeyComponent, config.CompPopover,
		config.LogKeyPlacement, string(res.Placement),
		config.LogKeyTop, res.Top,
		config.LogKeyLeft, res.Left)
	t.apply(res)
}

// Close cancels the pending frame and unsubscribes from every source. It
// waits for an apply in progress; none starts after Close returns. Calling
// it again is a no-op.
func (t *Tracker) Close() {
	t.applyMu.Lock()
	defer t.applyMu.Unlock()

	t.mu.Lock()
	t.open = false
	t.gen++
	cancel, unsubs := t.cancel, t.unsubs
	t.cancel, t.unsubs = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, u := range unsubs {
		u()
	}
}

// IsOpen reports whether the tracker is active.
func (t *Tracker) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}

// Last returns the most recently applied result.
func (t *Tracker) Last() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.applied
}
