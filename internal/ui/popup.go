package ui

import (
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/popover"
)

// fyneFrames runs popover recomputes on the Fyne event loop, one frame later.
type fyneFrames struct{}

func (fyneFrames) RequestFrame(f func()) func() {
	t := time.AfterFunc(config.FrameInterval, func() { fyne.Do(f) })
	return func() { t.Stop() }
}

// canvasWatch polls the window canvas and reports size changes. Fyne has no
// resize callback for canvases, and scrolling moves the anchor, so the
// anchor position is compared as well.
type canvasWatch struct {
	host *popoverHost
}

func (w canvasWatch) Subscribe(f func()) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(config.ResizePollInterval)
		defer ticker.Stop()

		var lastSize fyne.Size
		var lastPos fyne.Position
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(func() {
					if !w.host.visible() {
						w.host.dismissed()
						return
					}
					size := w.host.canvas.Size()
					pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(w.host.anchor)
					if size != lastSize || pos != lastPos {
						lastSize, lastPos = size, pos
						f()
					}
				})
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }
}

// popoverHost shows content in a non-modal PopUp next to anchor and keeps it
// placed while open.
type popoverHost struct {
	anchor  fyne.CanvasObject
	content fyne.CanvasObject
	cfg     popover.Config
	log     *slog.Logger

	canvas  fyne.Canvas
	popup   *widget.PopUp
	tracker *popover.Tracker

	// OnDismiss runs when the PopUp was closed by a tap outside of it.
	OnDismiss func()
}

func newPopoverHost(anchor, content fyne.CanvasObject, cfg popover.Config) *popoverHost {
	return &popoverHost{
		anchor:  anchor,
		content: content,
		cfg:     cfg,
		log:     slog.With(config.LogKeyComponent, config.CompPopover),
	}
}

// Show opens the PopUp on the anchor's canvas.
func (h *popoverHost) Show() {
	c := fyne.CurrentApp().Driver().CanvasForObject(h.anchor)
	if c == nil {
		h.log.Warn(config.ErrNoCanvas)
		return
	}
	if h.popup == nil || h.canvas != c {
		h.Hide()
		h.canvas = c
		h.popup = widget.NewPopUp(h.content, c)
		h.tracker = popover.NewTracker(h.cfg, h.measure, fyneFrames{}, h.apply, canvasWatch{host: h})
	}
	if h.visible() && h.tracker.IsOpen() {
		return
	}
	h.popup.Resize(h.popup.MinSize())
	h.popup.Show()
	h.tracker.Open()
}

// Hide closes the PopUp and stops tracking.
func (h *popoverHost) Hide() {
	if h.tracker != nil {
		h.tracker.Close()
	}
	if h.popup != nil {
		h.popup.Hide()
	}
}

// Refresh re-measures after the content changed size.
func (h *popoverHost) Refresh() {
	if h.visible() {
		h.popup.Resize(h.popup.MinSize())
		h.tracker.Update()
	}
}

func (h *popoverHost) visible() bool {
	return h.popup != nil && h.popup.Visible()
}

func (h *popoverHost) dismissed() {
	if h.tracker == nil || !h.tracker.IsOpen() {
		return
	}
	h.tracker.Close()
	if h.OnDismiss != nil {
		h.OnDismiss()
	}
}

func (h *popoverHost) measure() (popover.Geometry, bool) {
	if h.popup == nil || h.canvas == nil {
		return popover.Geometry{}, false
	}
	size := h.anchor.Size()
	if size.IsZero() {
		return popover.Geometry{}, false
	}
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(h.anchor)
	pop := h.popup.MinSize()
	vp := h.canvas.Size()

	return popover.Geometry{
		Anchor:   popover.Rect{Left: pos.X, Top: pos.Y, Width: size.Width, Height: size.Height},
		Popover:  popover.Size{Width: pop.Width, Height: pop.Height},
		Viewport: popover.Size{Width: vp.Width, Height: vp.Height},
	}, true
}

func (h *popoverHost) apply(r popover.Result) {
	h.popup.Move(fyne.NewPos(r.Left, r.Top))
}
