// Package popover positions a floating panel next to an anchor so that it
// stays inside the viewport.
package popover

import (
	"slices"

	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// Placement is the anchor side the popover opens on.
type Placement string

const (
	Bottom Placement = config.PlacementBottom
	Top    Placement = config.PlacementTop
	Left   Placement = config.PlacementLeft
	Right  Placement = config.PlacementRight
)

// vertical reports whether the popover stacks above or below the anchor.
func (p Placement) vertical() bool {
	return p == Bottom || p == Top
}

// Align is the cross-axis alignment. For Top/Bottom it is horizontal, for
// Left/Right vertical.
type Align string

const (
	AlignStart  Align = config.AlignStart
	AlignCenter Align = config.AlignCenter
	AlignEnd    Align = config.AlignEnd
)

// Size is a width and height in the viewport's coordinate space.
type Size struct {
	Width, Height float32
}

// Rect is an axis-aligned box in the viewport's coordinate space.
type Rect struct {
	Left, Top, Width, Height float32
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float32 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float32 { return r.Top + r.Height }

// Config tunes Compute. A zero gutter or padding is used as given; negative
// values and an empty placement list or alignment fall back to the defaults.
type Config struct {
	Gutter     float32
	Padding    float32
	Placements []Placement
	Align      Align
}

// DefaultConfig returns gutter 8, padding 8, bottom/top/left/right and end alignment.
func DefaultConfig() Config {
	return Config{
		Gutter:     config.DefaultGutter,
		Padding:    config.DefaultPadding,
		Placements: []Placement{Bottom, Top, Left, Right},
		Align:      AlignEnd,
	}
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Gutter < 0 {
		c.Gutter = def.Gutter
	}
	if c.Padding < 0 {
		c.Padding = def.Padding
	}
	if len(c.Placements) == 0 {
		c.Placements = def.Placements
	}
	if c.Align == "" {
		c.Align = def.Align
	}
	return c
}

// ConfigFromOptions converts the string form used by the options file.
// Unknown placements are skipped.
func ConfigFromOptions(opts config.PopoverOptions) Config {
	c := Config{Gutter: opts.Gutter, Padding: opts.Padding}
	for _, name := range opts.Placements {
		if p, ok := ParsePlacement(name); ok && !slices.Contains(c.Placements, p) {
			c.Placements = append(c.Placements, p)
		}
	}
	if a, ok := ParseAlign(opts.Align); ok {
		c.Align = a
	}
	return c.WithDefaults()
}

// ParsePlacement validates a placement name.
func ParsePlacement(name string) (Placement, bool) {
	switch p := Placement(name); p {
	case Bottom, Top, Left, Right:
		return p, true
	}
	return "", false
}

// ParseAlign validates an alignment name.
func ParseAlign(name string) (Align, bool) {
	switch a := Align(name); a {
	case AlignStart, AlignCenter, AlignEnd:
		return a, true
	}
	return "", false
}

// Result is the chosen side and the popover's top-left corner.
type Result struct {
	Placement Placement
	Top       float32
	Left      float32
}

// Space is the room left on each side of the anchor, padding excluded.
type Space struct {
	Below, Above, Left, Right float32
}

// SpaceAround measures the room between the anchor and the viewport edges.
func SpaceAround(anchor Rect, viewport Size, padding float32) Space {
	return Space{
		Below: viewport.Height - anchor.Bottom() - padding,
		Above: anchor.Top - padding,
		Left:  anchor.Left - padding,
		Right: viewport.Width - anchor.Right() - padding,
	}
}

// On returns the room on placement p's side.
func (s Space) On(p Placement) float32 {
	switch p {
	case Bottom:
		return s.Below
	case Top:
		return s.Above
	case Left:
		return s.Left
	}
	return s.Right
}

func clamp(n, lo, hi float32) float32 {
	return min(max(n, lo), hi)
}

// Choose picks the first preferred placement the popover fits on, or the one
// with the most room when none fits. Ties keep the earlier preference.
func Choose(space Space, pop Size, cfg Config) Placement {
	cfg = cfg.WithDefaults()

	for _, p := range cfg.Placements {
		extent := pop.Width
		if p.vertical() {
			extent = pop.Height
		}
		if extent+cfg.Gutter <= space.On(p) {
			return p
		}
	}

	best := cfg.Placements[0]
	for _, p := range cfg.Placements[1:] {
		if space.On(p) > space.On(best) {
			best = p
		}
	}
	return best
}

// crossAxis aligns a span of length size against the anchor span [start, start+length].
func crossAxis(align Align, start, length, size float32) float32 {
	switch align {
	case AlignStart:
		return start
	case AlignCenter:
		return start + (length-size)/2
	}
	return start + length - size
}

// Compute places pop next to anchor inside viewport. The result is always
// clamped to [padding, viewport - padding - popover] on both axes, even when
// the fallback placement overflows.
func Compute(anchor Rect, pop Size, viewport Size, cfg Config) Result {
	cfg = cfg.WithDefaults()
	placement := Choose(SpaceAround(anchor, viewport, cfg.Padding), pop, cfg)

	var top, left float32
	switch placement {
	case Bottom:
		top = anchor.Bottom() + cfg.Gutter
		left = crossAxis(cfg.Align, anchor.Left, anchor.Width, pop.Width)
	case Top:
		top = anchor.Top - cfg.Gutter - pop.Height
		left = crossAxis(cfg.Align, anchor.Left, anchor.Width, pop.Width)
	case Right:
		left = anchor.Right() + cfg.Gutter
		top = crossAxis(cfg.Align, anchor.Top, anchor.Height, pop.Height)
	case Left:
		left = anchor.Left - cfg.Gutter - pop.Width
		top = crossAxis(cfg.Align, anchor.Top, anchor.Height, pop.Height)
	}

	return Result{
		Placement: placement,
		Top:       clamp(top, cfg.Padding, viewport.Height-cfg.Padding-pop.Height),
		Left:      clamp(left, cfg.Padding, viewport.Width-cfg.Padding-pop.Width),
	}
}
