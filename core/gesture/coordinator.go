package gesture

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/jask/swipeback/core/drag"
)

// Coordinator interprets a drag.Controller for one navigable screen.
type Coordinator struct {
	nav     Navigator
	surface Surface
	log     *slog.Logger
	cfg     Config
	metrics DisplayMetrics
	assets  struct{ left, right Drawable }

	drag      *drag.Controller
	listeners []Listener

	tracking   bool
	pointerID  int
	down       drag.Point
	last       drag.Point
	classified bool
	vertical   bool
	declined   bool
	velocity   velocityTracker

	target    Target
	percent   float64
	underlayX float64
	torn      bool
	completed bool
}

// Option configures a Coordinator at construction.
type Option func(*Coordinator)

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithConfig replaces the default configuration. The threshold is
// validated by New.
func WithConfig(cfg Config) Option {
	return func(c *Coordinator) { c.cfg = cfg }
}

func WithDisplayMetrics(m DisplayMetrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithShadowAssets supplies the stock shadows. The left one is installed
// when the configuration has none; the right one when the right edge is
// enabled.
func WithShadowAssets(left, right Drawable) Option {
	return func(c *Coordinator) {
		c.assets.left = left
		c.assets.right = right
	}
}

// WithSpring tunes the settle animation.
func WithSpring(fps int, frequency, damping float64) Option {
	return func(c *Coordinator) { c.drag.SetSpring(fps, frequency, damping) }
}

// New builds a coordinator for a screen hosted by nav and drawn on surface.
func New(nav Navigator, surface Surface, opts ...Option) (*Coordinator, error) {
	if nav == nil {
		return nil, fmt.Errorf("%w: navigator is required", ErrPrecondition)
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: surface is required", ErrPrecondition)
	}
	c := &Coordinator{
		nav:     nav,
		surface: surface,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:     DefaultConfig(),
		metrics: DisplayMetrics{Density: 1},
	}
	c.drag = drag.New(dragCallback{c})
	for _, opt := range opts {
		opt(c)
	}
	if err := ValidateThreshold(c.cfg.ScrollThreshold); err != nil {
		return nil, err
	}
	if c.cfg.ShadowLeft == nil {
		c.cfg.ShadowLeft = c.assets.left
	}
	c.drag.SetThreshold(c.cfg.ScrollThreshold)
	c.drag.SetEdgeSize(c.cfg.EdgeSize)
	c.drag.SetMinFlingVelocity(c.cfg.MinFlingVelocity)
	c.drag.SetShadowWidth(drag.EdgeLeft, c.cfg.ShadowWidth(drag.EdgeLeft))
	c.drag.SetShadowWidth(drag.EdgeRight, c.cfg.ShadowWidth(drag.EdgeRight))
	c.SetEdgeOrientation(c.cfg.EdgeMask)
	c.syncBounds()
	return c, nil
}

func (c *Coordinator) State() drag.State      { return c.drag.State() }
func (c *Coordinator) Session() drag.Session  { return c.drag.Session() }
func (c *Coordinator) ScrollPercent() float64 { return c.percent }
func (c *Coordinator) Target() Target         { return c.target }
func (c *Coordinator) Frame() time.Duration   { return c.drag.Frame() }

// Swiped reports whether the content has been dragged past its full width.
func (c *Coordinator) Swiped() bool { return c.percent > 1 }

// Vertical reports whether the current pointer was classified as a vertical
// scroll.
func (c *Coordinator) Vertical() bool { return c.vertical }

// Settling reports whether the host should keep delivering frames.
func (c *Coordinator) Settling() bool { return c.drag.State() == drag.StateSettling }

func (c *Coordinator) syncBounds() {
	w, h := c.surface.Size()
	c.drag.SetBounds(w, h)
}

// HandlePointer feeds one pointer sample through arbitration and the drag
// controller. It reports whether the swipe consumed the event; unconsumed
// events belong to the content under the pointer.
func (c *Coordinator) HandlePointer(ev Event) bool {
	if !c.cfg.Enabled || c.torn {
		return false
	}
	if c.drag.State() == drag.StateSettling {
		return true
	}
	switch ev.Kind {
	case PointerDown:
		return c.pointerDown(ev)
	case PointerMove:
		return c.pointerMove(ev)
	case PointerUp:
		return c.pointerUp(ev, true)
	case PointerCancel:
		return c.pointerUp(ev, false)
	}
	return false
}

func (c *Coordinator) pointerDown(ev Event) bool {
	c.syncBounds()
	c.tracking = true
	c.pointerID = ev.PointerID
	c.down = ev.point()
	c.last = c.down
	c.classified, c.vertical, c.declined = false, false, false
	c.velocity.reset()
	c.velocity.add(ev)
	return false
}

func (c *Coordinator) pointerMove(ev Event) bool {
	if !c.tracking || ev.PointerID != c.pointerID {
		return c.drag.State() == drag.StateDragging
	}
	c.velocity.add(ev)
	p := ev.point()
	if c.drag.State() == drag.StateDragging {
		dx, dy := p.X-c.last.X, p.Y-c.last.Y
		c.last = p
		c.drag.DragBy(dx, dy)
		return true
	}
	c.last = p
	if !c.classified {
		dx, dy := math.Abs(p.X-c.down.X), math.Abs(p.Y-c.down.Y)
		if dx <= c.cfg.TouchSlop && dy <= c.cfg.TouchSlop {
			return false
		}
		c.classified = true
		c.vertical = dy >= dx
		c.log.Debug("gesture classified", "vertical", c.vertical, "dx", dx, "dy", dy, "slop", c.cfg.TouchSlop)
	}
	if c.vertical || c.declined {
		return false
	}
	if !c.drag.TryCapture(ev.PointerID, c.down) {
		c.declined = true
		return false
	}
	c.drag.DragBy(p.X-c.down.X, p.Y-c.down.Y)
	return true
}

func (c *Coordinator) pointerUp(ev Event, release bool) bool {
	consumed := false
	if c.tracking && ev.PointerID == c.pointerID && c.drag.State() == drag.StateDragging {
		vx, vy := 0.0, 0.0
		if release {
			c.velocity.add(ev)
			vx, vy = c.velocity.velocity()
		}
		c.drag.Release(vx, vy)
		s := c.drag.Session()
		c.log.Debug("drag released",
			"session", s.ID,
			"edge", s.Edge,
			"percent", c.percent,
			"vx", vx,
			"vy", vy,
			"target", s.Target)
		c.surface.RequestRedraw()
		consumed = true
	}
	c.tracking = false
	c.classified, c.vertical, c.declined = false, false, false
	c.velocity.reset()
	return consumed
}

// Tick advances a settle animation by one frame. It reports whether more
// frames are needed.
func (c *Coordinator) Tick() bool {
	if c.torn {
		return false
	}
	more := c.drag.ContinueSettling()
	if more {
		c.surface.RequestRedraw()
	}
	return more
}

// Teardown tells the coordinator the dragged screen's view is gone. Any
// session is abandoned, the underlay returns to rest and the host is never
// asked to pop.
func (c *Coordinator) Teardown() {
	if c.torn {
		return
	}
	c.drag.Abort()
	c.torn = true
	c.underlayX = 0
	if layer := c.surface.Underlay(); layer != nil {
		layer.SetOffsetX(0)
	}
}

// TornDown reports whether Teardown was called.
func (c *Coordinator) TornDown() bool { return c.torn }

func (c *Coordinator) applyParallax() {
	layer := c.surface.Underlay()
	if layer == nil {
		return
	}
	if c.torn {
		layer.SetOffsetX(0)
		return
	}
	opacity := 1 - c.percent
	if opacity < 0 {
		return
	}
	c.underlayX = Parallax(c.drag.Offset(), c.drag.Width(), c.cfg.ParallaxOffset, opacity)
	layer.SetOffsetX(c.underlayX)
}

// Parallax is the underlay position for a content offset: it trails the
// dragged screen, scaled by factor and the scrim opacity, and never moves
// right of rest.
func Parallax(offset, width, factor, opacity float64) float64 {
	return math.Min((offset-width)*factor*opacity, 0)
}

// dragCallback keeps the drag.Callback methods off the Coordinator API.
type dragCallback struct{ c *Coordinator }

func (d dragCallback) AllowCapture(int) bool {
	return d.c.cfg.Enabled && !d.c.vertical && !d.c.torn
}

func (d dragCallback) HorizontalRange() int {
	c := d.c
	if !c.nav.IsTopOfStack() {
		return 0
	}
	c.target = resolveTarget(c.nav)
	return c.target.dragRange(c.cfg)
}

func (d dragCallback) EdgeTouched(edge drag.Edge) {
	c := d.c
	c.completed = false
	c.percent = 0
	c.log.Debug("edge touched", "edge", edge, "target", c.target)
	c.each(func(l Listener) { l.OnEdgeTouch(edge) })
	if layer := c.surface.Underlay(); layer != nil {
		layer.SetVisible(true)
	}
}

func (d dragCallback) PositionChanged(offset, _ float64) {
	c := d.c
	s := c.drag.Session()
	c.percent = drag.Percent(offset, c.drag.Width(), c.cfg.ShadowWidth(s.Edge))
	c.applyParallax()
	c.surface.RequestRedraw()
	if s.State == drag.StateDragging && c.percent > 0 && c.percent <= 1 {
		p := c.percent
		c.each(func(l Listener) { l.OnDragScrolled(p) })
	}
}

func (d dragCallback) StateChanged(state drag.State) {
	c := d.c
	c.log.Debug("drag state changed", "state", state)
	c.each(func(l Listener) { l.OnDragStateChange(state) })
	if state != drag.StateIdle {
		return
	}
	c.percent = 0
	c.underlayX = 0
	if layer := c.surface.Underlay(); layer != nil {
		layer.SetOffsetX(0)
		layer.SetVisible(false)
	}
	c.surface.RequestRedraw()
}

func (d dragCallback) Completed() {
	c := d.c
	if c.torn || c.completed {
		return
	}
	c.completed = true
	c.log.Info("swipe back completed", "target", c.target, "session", c.drag.Session().ID)
	c.nav.CompleteNavigation()
}
