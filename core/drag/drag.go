// Package drag owns the physics of a single edge-swipe drag: capture,
// horizontal clamping, the release decision and the spring settle that
// follows it.
//
// A Controller is not safe for concurrent use. It is meant to be driven from
// the goroutine that delivers input and frame ticks.
package drag

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/google/uuid"
)

// Edge is a bitset of screen edges.
type Edge int

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight

	EdgeAll = EdgeLeft | EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeAll:
		return "all"
	case 0:
		return "none"
	}
	return "invalid"
}

// State is the drag state of the controller.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateSettling
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateSettling:
		return "settling"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Overscroll is the margin added to the off-screen settle target so the
// shadow clears the viewport before the session ends.
const Overscroll = 10.0

const (
	DefaultFPS       = 60
	DefaultFrequency = 18.0
	DefaultDamping   = 1.0

	settleEpsilon = 0.5
)

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Callback receives the decisions and motion of a Controller.
type Callback interface {
	// AllowCapture may veto a capture, for example while the gesture is
	// classified as vertical.
	AllowCapture(pointerID int) bool
	// HorizontalRange returns 0 when horizontal dragging is not permitted.
	HorizontalRange() int
	EdgeTouched(edge Edge)
	PositionChanged(offset, dx float64)
	StateChanged(state State)
	// Completed is called once after the controller reaches StateFinished.
	Completed()
}

// Session is one capture-to-settle cycle.
type Session struct {
	ID        string
	PointerID int
	Edge      Edge
	Offset    float64
	Velocity  float64
	State     State
	Target    float64
	Start     time.Time
}

// Controller implements the drag state machine
// Idle -> Dragging -> Settling -> Idle | Finished.
type Controller struct {
	cb Callback

	edges     Edge
	edgeSize  float64
	width     float64
	height    float64
	shadow    map[Edge]float64
	threshold float64
	minFling  float64

	spring harmonica.Spring
	fps    int
	vel    float64

	session   Session
	completed bool

	now func() time.Time
}

// New returns an idle controller tracking the left edge.
func New(cb Callback) *Controller {
	c := &Controller{
		cb:        cb,
		edges:     EdgeLeft,
		edgeSize:  20,
		shadow:    map[Edge]float64{},
		threshold: 0.4,
		now:       time.Now,
	}
	c.SetSpring(DefaultFPS, DefaultFrequency, DefaultDamping)
	return c
}

func (c *Controller) SetEdges(mask Edge)            { c.edges = mask & EdgeAll }
func (c *Controller) Edges() Edge                   { return c.edges }
func (c *Controller) SetEdgeSize(px float64)        { c.edgeSize = math.Max(0, px) }
func (c *Controller) EdgeSize() float64             { return c.edgeSize }
func (c *Controller) SetThreshold(t float64)        { c.threshold = t }
func (c *Controller) SetMinFlingVelocity(v float64) { c.minFling = math.Abs(v) }

// SetBounds records the size of the dragged content.
func (c *Controller) SetBounds(width, height float64) {
	c.width = math.Max(0, width)
	c.height = math.Max(0, height)
}

func (c *Controller) Width() float64 { return c.width }

// SetShadowWidth sets the intrinsic width of the shadow drawn on edge.
func (c *Controller) SetShadowWidth(edge Edge, px float64) {
	c.shadow[edge] = math.Max(0, px)
}

func (c *Controller) ShadowWidth(edge Edge) float64 { return c.shadow[edge] }

// SetSpring configures the settle animation. Non-positive values keep the
// defaults.
func (c *Controller) SetSpring(fps int, frequency, damping float64) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	if damping <= 0 {
		damping = DefaultDamping
	}
	c.fps = fps
	c.spring = harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)
}

// Frame is the interval between two ContinueSettling calls.
func (c *Controller) Frame() time.Duration { return time.Second / time.Duration(c.fps) }

func (c *Controller) Session() Session { return c.session }
func (c *Controller) State() State     { return c.session.State }
func (c *Controller) Offset() float64  { return c.session.Offset }

// Percent is the normalised drag progress |offset| / (width + shadow).
func Percent(offset, width, shadow float64) float64 {
	d := width + shadow
	if d <= 0 {
		return 0
	}
	return math.Abs(offset) / d
}

// ScrollPercent returns the progress of the current session.
func (c *Controller) ScrollPercent() float64 {
	return Percent(c.session.Offset, c.width, c.shadow[c.session.Edge])
}

// EdgesTouched reports which edges p lies within the edge size of,
// regardless of the enabled mask.
func (c *Controller) EdgesTouched(p Point) Edge {
	var e Edge
	if p.X < c.edgeSize {
		e |= EdgeLeft
	}
	if p.X >= c.width-c.edgeSize {
		e |= EdgeRight
	}
	return e
}

// TryCapture starts a session for a pointer that went down at down. It fails
// when down is not on an enabled edge, when the callback vetoes or when the
// horizontal drag range is zero.
func (c *Controller) TryCapture(pointerID int, down Point) bool {
	if c.session.State == StateDragging || c.session.State == StateSettling {
		return false
	}
	touched := c.EdgesTouched(down) & c.edges
	if touched == 0 {
		return false
	}
	if !c.cb.AllowCapture(pointerID) {
		return false
	}
	if c.cb.HorizontalRange() <= 0 {
		return false
	}

	edge := EdgeLeft
	if touched&EdgeLeft == 0 {
		edge = EdgeRight
	}
	c.session = Session{
		ID:        uuid.NewString(),
		PointerID: pointerID,
		Edge:      edge,
		Start:     c.now(),
	}
	c.completed = false
	c.vel = 0
	c.cb.EdgeTouched(edge)
	c.setState(StateDragging)
	return true
}

// ClampHorizontal bounds a proposed offset to the range allowed for the
// captured edge.
func (c *Controller) ClampHorizontal(proposed float64) float64 {
	switch c.session.Edge {
	case EdgeLeft:
		return math.Min(math.Max(proposed, 0), c.width)
	case EdgeRight:
		return math.Min(math.Max(proposed, -c.width), 0)
	}
	return 0
}

// ClampVertical always pins the captured view vertically.
func (c *Controller) ClampVertical(float64) float64 { return 0 }

// DragBy moves the captured content by a pointer delta.
func (c *Controller) DragBy(dx, dy float64) {
	if c.session.State != StateDragging {
		return
	}
	_ = c.ClampVertical(dy)
	old := c.session.Offset
	next := c.ClampHorizontal(old + dx)
	if next == old {
		return
	}
	c.session.Offset = next
	c.cb.PositionChanged(next, next-old)
}

// ReleaseTarget decides where the content settles for a release with the
// given velocity. A flick in the completing direction wins; a release without
// horizontal velocity completes only past the threshold.
func (c *Controller) ReleaseTarget(vx, vy float64) float64 {
	vx, vy = c.clampFling(vx), c.clampFling(vy)
	sign := 1.0
	if c.session.Edge == EdgeRight {
		sign = -1
	}
	flick := math.Abs(vx) > math.Abs(vy) && vx*sign > 0
	if flick || (vx == 0 && c.ScrollPercent() > c.threshold) {
		return sign * c.offscreen()
	}
	return 0
}

func (c *Controller) offscreen() float64 {
	return c.width + c.shadow[c.session.Edge] + Overscroll
}

func (c *Controller) clampFling(v float64) float64 {
	if math.Abs(v) < c.minFling {
		return 0
	}
	return v
}

// Release ends the drag and starts settling toward ReleaseTarget.
func (c *Controller) Release(vx, vy float64) {
	if c.session.State != StateDragging {
		return
	}
	c.session.Velocity = vx
	c.session.Target = c.ReleaseTarget(vx, vy)
	c.vel = c.clampFling(vx)
	c.setState(StateSettling)
}

// ContinueSettling advances the settle animation by one frame and reports
// whether another frame is needed.
func (c *Controller) ContinueSettling() bool {
	if c.session.State != StateSettling {
		return false
	}
	target := c.session.Target
	pos, vel := c.spring.Update(c.session.Offset, c.vel, target)
	pos, vel = c.clampSettle(pos, vel)
	if math.Abs(pos-target) < settleEpsilon {
		pos, vel = target, 0
	}
	c.vel = vel
	if dx := pos - c.session.Offset; dx != 0 {
		c.session.Offset = pos
		c.cb.PositionChanged(pos, dx)
	}
	if pos != target {
		return true
	}
	c.finishSettle()
	return false
}

// clampSettle keeps the animation between rest and the off-screen position
// on the captured side.
func (c *Controller) clampSettle(pos, vel float64) (float64, float64) {
	lo, hi := 0.0, c.offscreen()
	if c.session.Edge == EdgeRight {
		lo, hi = -hi, 0
	}
	switch {
	case pos < lo:
		return lo, 0
	case pos > hi:
		return hi, 0
	}
	return pos, vel
}

func (c *Controller) finishSettle() {
	if c.session.Target == 0 {
		c.setState(StateIdle)
		c.session = Session{}
		return
	}
	c.setState(StateFinished)
	if !c.completed {
		c.completed = true
		c.cb.Completed()
	}
}

// Abort abandons an active session without completing it.
func (c *Controller) Abort() {
	switch c.session.State {
	case StateDragging, StateSettling:
		c.vel = 0
		c.setState(StateIdle)
		c.session = Session{}
	}
}

func (c *Controller) setState(s State) {
	if c.session.State == s {
		return
	}
	c.session.State = s
	c.cb.StateChanged(s)
}
