package drag

import (
	"math"
	"testing"
)

type recorder struct {
	allow     bool
	hrange    int
	edges     []Edge
	states    []State
	offsets   []float64
	completed int
}

func newRecorder() *recorder { return &recorder{allow: true, hrange: 1} }

func (r *recorder) AllowCapture(int) bool              { return r.allow }
func (r *recorder) HorizontalRange() int               { return r.hrange }
func (r *recorder) EdgeTouched(e Edge)                 { r.edges = append(r.edges, e) }
func (r *recorder) PositionChanged(offset, dx float64) { r.offsets = append(r.offsets, offset) }
func (r *recorder) StateChanged(s State)               { r.states = append(r.states, s) }
func (r *recorder) Completed()                         { r.completed++ }

func newController(r *recorder) *Controller {
	c := New(r)
	c.SetBounds(1000, 600)
	c.SetEdgeSize(20)
	c.SetEdges(EdgeAll)
	return c
}

func settle(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if !c.ContinueSettling() {
			return
		}
	}
	t.Fatalf("settle did not converge, offset=%v target=%v", c.Offset(), c.Session().Target)
}

func TestCaptureRequiresEnabledEdge(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.SetEdges(EdgeLeft)

	if c.TryCapture(0, Point{X: 500, Y: 10}) {
		t.Fatalf("capture in the middle of the surface should fail")
	}
	if c.TryCapture(0, Point{X: 995, Y: 10}) {
		t.Fatalf("right edge is not enabled")
	}
	if !c.TryCapture(0, Point{X: 5, Y: 10}) {
		t.Fatalf("left edge capture should succeed")
	}
	if len(r.edges) != 1 || r.edges[0] != EdgeLeft {
		t.Fatalf("expected one left edge notification, got %v", r.edges)
	}
	if c.State() != StateDragging {
		t.Fatalf("expected dragging, got %v", c.State())
	}
}

func TestCaptureLeftWinsTies(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.SetBounds(30, 10)
	c.SetEdgeSize(20)

	if !c.TryCapture(0, Point{X: 15}) {
		t.Fatalf("capture should succeed")
	}
	if got := c.Session().Edge; got != EdgeLeft {
		t.Fatalf("expected left edge to win, got %v", got)
	}
}

func TestCaptureVetoedAndRangeGate(t *testing.T) {
	r := newRecorder()
	r.allow = false
	c := newController(r)
	if c.TryCapture(0, Point{X: 1}) {
		t.Fatalf("vetoed capture should fail")
	}
	r.allow = true
	r.hrange = 0
	if c.TryCapture(0, Point{X: 1}) {
		t.Fatalf("zero drag range should refuse capture")
	}
	if len(r.edges) != 0 || len(r.states) != 0 {
		t.Fatalf("failed captures must not notify, edges=%v states=%v", r.edges, r.states)
	}
}

func TestClampIsIdempotent(t *testing.T) {
	for _, edge := range []Edge{EdgeLeft, EdgeRight} {
		r := newRecorder()
		c := newController(r)
		x := 1.0
		if edge == EdgeRight {
			x = 999
		}
		if !c.TryCapture(0, Point{X: x}) {
			t.Fatalf("capture %v failed", edge)
		}
		for _, p := range []float64{-2000, -1000, -500, -1, 0, 1, 500, 1000, 2000} {
			once := c.ClampHorizontal(p)
			if twice := c.ClampHorizontal(once); twice != once {
				t.Fatalf("%v: clamp(clamp(%v))=%v, clamp=%v", edge, p, twice, once)
			}
			if edge == EdgeLeft && (once < 0 || once > 1000) {
				t.Fatalf("left clamp out of range: %v", once)
			}
			if edge == EdgeRight && (once > 0 || once < -1000) {
				t.Fatalf("right clamp out of range: %v", once)
			}
		}
		if c.ClampVertical(42) != 0 {
			t.Fatalf("vertical motion must be rejected")
		}
	}
}

func TestDragByIgnoresVerticalAndClamps(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.TryCapture(0, Point{X: 1})
	c.DragBy(300, 80)
	if c.Offset() != 300 {
		t.Fatalf("expected offset 300, got %v", c.Offset())
	}
	c.DragBy(-900, 0)
	if c.Offset() != 0 {
		t.Fatalf("expected clamp to 0, got %v", c.Offset())
	}
	c.DragBy(0, 50)
	if len(r.offsets) != 2 {
		t.Fatalf("pure vertical drag must not move content, offsets=%v", r.offsets)
	}
}

func TestPercentMonotonic(t *testing.T) {
	prev := -1.0
	for off := 0.0; off <= 1200; off += 25 {
		p := Percent(off, 1000, 14)
		if p < prev {
			t.Fatalf("percent decreased at %v: %v < %v", off, p, prev)
		}
		if Percent(-off, 1000, 14) != p {
			t.Fatalf("percent must depend on |offset|")
		}
		prev = p
	}
	if Percent(100, 0, 0) != 0 {
		t.Fatalf("zero width must yield zero percent")
	}
}

func TestVelocityOverridesThreshold(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.SetThreshold(0.9)
	c.TryCapture(0, Point{X: 1})
	c.DragBy(50, 0)

	if got := c.ReleaseTarget(800, 100); got != 1000+Overscroll {
		t.Fatalf("flick should complete, got %v", got)
	}
	if got := c.ReleaseTarget(-800, 100); got != 0 {
		t.Fatalf("flick back should rest, got %v", got)
	}
	if got := c.ReleaseTarget(100, 800); got != 0 {
		t.Fatalf("mostly vertical release should rest, got %v", got)
	}
}

func TestRightEdgeReleaseDirection(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.SetShadowWidth(EdgeRight, 14)
	c.TryCapture(0, Point{X: 999})
	c.DragBy(-100, 0)

	if got := c.ReleaseTarget(-500, 0); got != -(1000 + 14 + Overscroll) {
		t.Fatalf("leftward flick should complete a right swipe, got %v", got)
	}
	if got := c.ReleaseTarget(500, 0); got != 0 {
		t.Fatalf("rightward flick should rest, got %v", got)
	}
}

func TestThresholdBoundary(t *testing.T) {
	const eps = 1e-6
	for _, tc := range []struct {
		name   string
		offset float64
		want   float64
	}{
		{"above", 400 + 1000*eps*10, 1000 + Overscroll},
		{"below", 400 - 1000*eps*10, 0},
		{"equal", 400, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newRecorder()
			c := newController(r)
			c.SetThreshold(0.4)
			c.TryCapture(0, Point{X: 1})
			c.DragBy(tc.offset, 0)
			if got := c.ReleaseTarget(0, 0); got != tc.want {
				t.Fatalf("percent=%v target=%v want %v", c.ScrollPercent(), got, tc.want)
			}
		})
	}
}

func TestMinFlingVelocityZeroesSlowReleases(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.SetMinFlingVelocity(50)
	c.TryCapture(0, Point{X: 1})
	c.DragBy(100, 0)
	if got := c.ReleaseTarget(20, 0); got != 0 {
		t.Fatalf("slow drift below fling velocity should rest, got %v", got)
	}
	c.DragBy(400, 0)
	if got := c.ReleaseTarget(-20, 0); got != 1000+Overscroll {
		t.Fatalf("slow drift should fall back to threshold, got %v", got)
	}
}

func TestSettleToOffscreenFinishesOnce(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.TryCapture(0, Point{X: 1})
	c.DragBy(600, 0)
	c.Release(0, 0)
	if c.State() != StateSettling {
		t.Fatalf("expected settling, got %v", c.State())
	}
	settle(t, c)

	if c.State() != StateFinished {
		t.Fatalf("expected finished, got %v", c.State())
	}
	if c.Offset() != 1010 {
		t.Fatalf("expected final offset 1010, got %v", c.Offset())
	}
	if r.completed != 1 {
		t.Fatalf("completed should fire once, got %d", r.completed)
	}
	want := []State{StateDragging, StateSettling, StateFinished}
	if len(r.states) != len(want) {
		t.Fatalf("states=%v want %v", r.states, want)
	}
	for i := range want {
		if r.states[i] != want[i] {
			t.Fatalf("states=%v want %v", r.states, want)
		}
	}
	if c.ContinueSettling() {
		t.Fatalf("finished controller must not keep settling")
	}
}

func TestSettleBackToRest(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.TryCapture(0, Point{X: 1})
	c.DragBy(300, 0)
	c.Release(0, 0)
	settle(t, c)

	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %v", c.State())
	}
	if r.completed != 0 {
		t.Fatalf("spring back must not complete")
	}
	for _, off := range r.offsets {
		if off < 0 || off > 1000 {
			t.Fatalf("settle left the allowed range: %v", off)
		}
	}
}

func TestSettleOvershootIsClamped(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.SetSpring(60, 30, 0.2)
	c.TryCapture(0, Point{X: 1})
	c.DragBy(100, 0)
	c.Release(-5000, 0)
	settle(t, c)
	for _, off := range r.offsets {
		if off < 0 {
			t.Fatalf("underdamped spring crossed rest: %v", off)
		}
	}
}

func TestAbortReturnsToIdleWithoutCompleting(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.TryCapture(0, Point{X: 1})
	c.DragBy(700, 0)
	c.Release(0, 0)
	c.ContinueSettling()
	c.Abort()

	if c.State() != StateIdle {
		t.Fatalf("expected idle after abort, got %v", c.State())
	}
	if c.ContinueSettling() {
		t.Fatalf("aborted session must not settle")
	}
	if r.completed != 0 {
		t.Fatalf("abort must not complete")
	}
}

func TestNewCaptureAfterFinishStartsFreshSession(t *testing.T) {
	r := newRecorder()
	c := newController(r)
	c.TryCapture(0, Point{X: 1})
	first := c.Session().ID
	c.DragBy(900, 0)
	c.Release(0, 0)
	settle(t, c)

	if !c.TryCapture(1, Point{X: 2}) {
		t.Fatalf("capture after finish should succeed")
	}
	s := c.Session()
	if s.ID == first || s.Offset != 0 || s.PointerID != 1 {
		t.Fatalf("expected a fresh session, got %+v", s)
	}
	if c.TryCapture(2, Point{X: 2}) || c.Session().PointerID != 1 {
		t.Fatalf("capture while dragging must keep the current session")
	}
}

func TestFrameInterval(t *testing.T) {
	c := New(newRecorder())
	c.SetSpring(50, 0, 0)
	if got := c.Frame(); got.Milliseconds() != 20 {
		t.Fatalf("expected 20ms frames, got %v", got)
	}
	if math.IsNaN(c.ScrollPercent()) {
		t.Fatalf("idle percent must be a number")
	}
}
