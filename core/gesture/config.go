package gesture

import (
	"fmt"
	"math"

	"github.com/jask/swipeback/core/drag"
)

const (
	DefaultScrollThreshold = 0.4
	DefaultParallaxOffset  = 0.33
	DefaultSwipeAlpha      = 0.5
	DefaultEdgeSizeDP      = 20
	DefaultTouchSlopDP     = 8

	// ScrimColor is the scrim at full opacity before SwipeAlpha applies.
	ScrimColor Color = 0x99000000
	fullAlpha        = 255
)

// Config is the per-screen gesture configuration. It is read-only while a
// session is active and changes only through Coordinator setters.
type Config struct {
	EdgeMask        drag.Edge
	EdgeSize        float64
	ScrollThreshold float64
	ParallaxOffset  float64
	SwipeAlpha      float64
	ShadowLeft      Drawable
	ShadowRight     Drawable
	Enabled         bool
	// RootSwipe lets the bottom screen of the stack be swiped away.
	RootSwipe        bool
	TouchSlop        float64
	MinFlingVelocity float64
}

// DefaultConfig returns the stock configuration for a 1x density surface.
func DefaultConfig() Config {
	return Config{
		EdgeMask:        drag.EdgeLeft,
		EdgeSize:        DefaultEdgeSizeDP,
		ScrollThreshold: DefaultScrollThreshold,
		ParallaxOffset:  DefaultParallaxOffset,
		SwipeAlpha:      DefaultSwipeAlpha,
		Enabled:         true,
		TouchSlop:       DefaultTouchSlopDP,
	}
}

func (c Config) shadowFor(edge drag.Edge) Drawable {
	switch edge {
	case drag.EdgeLeft:
		return c.ShadowLeft
	case drag.EdgeRight:
		return c.ShadowRight
	}
	return nil
}

// ShadowWidth returns the intrinsic width of the shadow for edge, 0 if none.
func (c Config) ShadowWidth(edge drag.Edge) float64 {
	d := c.shadowFor(edge)
	if d == nil {
		return 0
	}
	return float64(d.IntrinsicWidth())
}

// ValidateThreshold reports whether t lies in (0,1).
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t <= 0 || t >= 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}
	return nil
}

// EdgeLevel is a preset edge size relative to the display.
type EdgeLevel int

const (
	EdgeLevelMin EdgeLevel = iota
	EdgeLevelMed
	EdgeLevelMax
)

func (l EdgeLevel) String() string {
	switch l {
	case EdgeLevelMin:
		return "min"
	case EdgeLevelMed:
		return "med"
	case EdgeLevelMax:
		return "max"
	}
	return "unknown"
}

// DisplayMetrics describes the physical display for edge level presets.
type DisplayMetrics struct {
	WidthPixels float64
	Density     float64
}

// EdgeSizeFor converts a level into pixels.
func (m DisplayMetrics) EdgeSizeFor(l EdgeLevel) float64 {
	switch l {
	case EdgeLevelMax:
		return m.WidthPixels
	case EdgeLevelMed:
		return math.Floor(m.WidthPixels / 2)
	}
	density := m.Density
	if density <= 0 {
		density = 1
	}
	return math.Floor(DefaultEdgeSizeDP*density + 0.5)
}

// SetEdgeOrientation selects which edges start a swipe. Enabling the right
// edge installs the right shadow asset when one was supplied.
func (c *Coordinator) SetEdgeOrientation(mask drag.Edge) {
	c.cfg.EdgeMask = mask & drag.EdgeAll
	c.drag.SetEdges(c.cfg.EdgeMask)
	if mask&drag.EdgeRight != 0 && c.assets.right != nil {
		c.SetShadow(drag.EdgeRight, c.assets.right)
	}
}

// SetScrollThreshold sets the release threshold. Values outside (0,1) are
// rejected and leave the configuration unchanged.
func (c *Coordinator) SetScrollThreshold(t float64) error {
	if err := ValidateThreshold(t); err != nil {
		return err
	}
	c.cfg.ScrollThreshold = t
	c.drag.SetThreshold(t)
	return nil
}

func (c *Coordinator) SetParallaxOffset(offset float64) {
	c.cfg.ParallaxOffset = offset
}

// SetSwipeAlpha scales the scrim; values are clamped to [0,1].
func (c *Coordinator) SetSwipeAlpha(alpha float64) {
	c.cfg.SwipeAlpha = clamp01(alpha)
}

// SetShadow sets the shadow drawn on edge. A nil drawable removes it.
func (c *Coordinator) SetShadow(edge drag.Edge, d Drawable) {
	switch {
	case edge&drag.EdgeLeft != 0:
		c.cfg.ShadowLeft = d
		c.drag.SetShadowWidth(drag.EdgeLeft, c.cfg.ShadowWidth(drag.EdgeLeft))
	case edge&drag.EdgeRight != 0:
		c.cfg.ShadowRight = d
		c.drag.SetShadowWidth(drag.EdgeRight, c.cfg.ShadowWidth(drag.EdgeRight))
	}
	c.surface.RequestRedraw()
}

func (c *Coordinator) SetEdgeSize(px float64) {
	c.cfg.EdgeSize = math.Max(0, px)
	c.drag.SetEdgeSize(c.cfg.EdgeSize)
}

// SetEdgeLevel sizes the edge from the display metrics.
func (c *Coordinator) SetEdgeLevel(l EdgeLevel) {
	c.SetEdgeSize(c.metrics.EdgeSizeFor(l))
}

// SetEnabled turns the gesture on or off. A disabled coordinator passes
// every event through. Disabling mid-drag aborts the session, since the
// release would never be delivered; a settle already under way finishes.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.cfg.Enabled = enabled
	if enabled || c.drag.State() != drag.StateDragging {
		return
	}
	c.drag.Abort()
	c.tracking = false
	c.classified, c.vertical, c.declined = false, false, false
	c.velocity.reset()
}

func (c *Coordinator) SetRootSwipe(enabled bool) {
	c.cfg.RootSwipe = enabled
}

func (c *Coordinator) SetTouchSlop(px float64) {
	c.cfg.TouchSlop = math.Max(0, px)
}

func (c *Coordinator) SetMinFlingVelocity(v float64) {
	c.cfg.MinFlingVelocity = math.Abs(v)
	c.drag.SetMinFlingVelocity(c.cfg.MinFlingVelocity)
}

// Config returns a copy of the current configuration.
func (c *Coordinator) Config() Config { return c.cfg }

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
