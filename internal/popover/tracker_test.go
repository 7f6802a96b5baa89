package popover_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jalali-picker/internal/popover"
)

// manualFrames queues frame callbacks until the test flushes them.
type manualFrames struct {
	queued   []*frameReq
	requests int
}

type frameReq struct {
	f        func()
	canceled bool
}

func (m *manualFrames) RequestFrame(f func()) func() {
	m.requests++
	r := &frameReq{f: f}
	m.queued = append(m.queued, r)
	return func() { r.canceled = true }
}

func (m *manualFrames) flush() {
	q := m.queued
	m.queued = nil
	for _, r := range q {
		if !r.canceled {
			r.f()
		}
	}
}

type fakeSource struct {
	listeners map[int]func()
	next      int
}

func (s *fakeSource) Subscribe(f func()) func() {
	if s.listeners == nil {
		s.listeners = map[int]func(){}
	}
	id := s.next
	s.next++
	s.listeners[id] = f
	return func() { delete(s.listeners, id) }
}

func (s *fakeSource) fire() {
	for _, f := range s.listeners {
		f()
	}
}

type trackerRig struct {
	frames  *manualFrames
	resize  *fakeSource
	scroll  *fakeSource
	geo     popover.Geometry
	ready   bool
	applied []popover.Result
	tracker *popover.Tracker
}

func newRig() *trackerRig {
	r := &trackerRig{
		frames: &manualFrames{},
		resize: &fakeSource{},
		scroll: &fakeSource{},
		geo: popover.Geometry{
			Anchor:   popover.Rect{Left: 100, Top: 100, Width: 100, Height: 30},
			Popover:  popover.Size{Width: 200, Height: 200},
			Viewport: popover.Size{Width: 1000, Height: 800},
		},
		ready: true,
	}
	measure := func() (popover.Geometry, bool) { return r.geo, r.ready }
	apply := func(res popover.Result) { r.applied = append(r.applied, res) }
	r.tracker = popover.NewTracker(popover.DefaultConfig(), measure, r.frames, apply, r.resize, r.scroll)
	return r
}

func TestTracker_OpenComputesNowAndNextFrame(t *testing.T) {
	r := newRig()

	r.tracker.Open()
	require.Len(t, r.applied, 1)
	assert.Equal(t, popover.Bottom, r.applied[0].Placement)
	assert.Equal(t, 1, r.frames.requests)

	// Late layout: the popover grew before the next frame.
	r.geo.Popover.Height = 700
	r.frames.flush()
	require.Len(t, r.applied, 2)
	assert.Equal(t, popover.Right, r.applied[1].Placement)
}

func TestTracker_CoalescesEvents(t *testing.T) {
	r := newRig()
	r.tracker.Open()
	r.frames.flush()

	r.resize.fire()
	r.scroll.fire()
	r.resize.fire()
	assert.Equal(t, 2, r.frames.requests, "one frame for three events")

	r.frames.flush()
	r.scroll.fire()
	assert.Equal(t, 3, r.frames.requests, "a new frame after the pending one ran")
}

func TestTracker_SkipsUnchangedResults(t *testing.T) {
	r := newRig()
	r.tracker.Open()
	r.frames.flush()
	r.resize.fire()
	r.frames.flush()

	assert.Len(t, r.applied, 1)
	last, ok := r.tracker.Last()
	assert.True(t, ok)
	assert.Equal(t, r.applied[0], last)
}

func TestTracker_CloseReleasesEverything(t *testing.T) {
	r := newRig()
	r.tracker.Open()
	assert.Len(t, r.resize.listeners, 1)

	r.tracker.Close()
	r.tracker.Close()

	assert.False(t, r.tracker.IsOpen())
	assert.Empty(t, r.resize.listeners)
	assert.Empty(t, r.scroll.listeners)

	r.geo.Popover.Height = 700
	r.frames.flush()
	assert.Len(t, r.applied, 1, "no recompute after close")

	r.tracker.Notify()
	assert.Empty(t, r.frames.queued)
}

func TestTracker_UnmeasuredIsSkipped(t *testing.T) {
	r := newRig()
	r.ready = false
	r.tracker.Open()
	assert.Empty(t, r.applied)

	r.ready = true
	r.frames.flush()
	assert.Len(t, r.applied, 1)
}

func TestTracker_ReopenResubscribes(t *testing.T) {
	r := newRig()
	r.tracker.Open()
	r.tracker.Close()
	r.tracker.Open()

	assert.Len(t, r.resize.listeners, 1)
	assert.Len(t, r.applied, 2, "reopening always applies")
}

func TestTracker_CloseDuringMeasureDropsResult(t *testing.T) {
	geo := popover.Geometry{
		Anchor:   popover.Rect{Left: 100, Top: 100, Width: 100, Height: 30},
		Popover:  popover.Size{Width: 200, Height: 200},
		Viewport: popover.Size{Width: 1000, Height: 800},
	}
	var applied []popover.Result
	var tr *popover.Tracker
	closeWhileMeasuring := false

	tr = popover.NewTracker(popover.DefaultConfig(), func() (popover.Geometry, bool) {
		if closeWhileMeasuring {
			tr.Close()
		}
		return geo, true
	}, &manualFrames{}, func(res popover.Result) { applied = append(applied, res) })

	tr.Open()
	require.Len(t, applied, 1)

	closeWhileMeasuring = true
	geo.Popover.Height = 700
	tr.Update()

	assert.False(t, tr.IsOpen())
	assert.Len(t, applied, 1, "a result measured before Close is discarded")
}

func TestTracker_CloseWaitsForApply(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	geo := popover.Geometry{
		Anchor:   popover.Rect{Left: 100, Top: 100, Width: 100, Height: 30},
		Popover:  popover.Size{Width: 200, Height: 200},
		Viewport: popover.Size{Width: 1000, Height: 800},
	}
	tr := popover.NewTracker(popover.DefaultConfig(),
		func() (popover.Geometry, bool) { return geo, true },
		&manualFrames{},
		func(popover.Result) {
			close(entered)
			<-release
		})

	go tr.Open()
	<-entered

	closed := make(chan struct{})
	go func() {
		tr.Close()
		close(closed)
	}()

	assert.Never(t, func() bool {
		select {
		case <-closed:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond, "Close must wait for the running apply")

	close(release)
	require.Eventually(t, func() bool {
		select {
		case <-closed:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.False(t, tr.IsOpen())
}
