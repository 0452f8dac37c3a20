package gesture

import (
	"math"

	"github.com/jask/swipeback/core/drag"
)

// RenderState is derived from the coordinator on every frame.
type RenderState struct {
	State          drag.State
	Edge           drag.Edge
	ScrollPercent  float64
	ScrimOpacity   float64
	ContentOffset  float64
	UnderlayOffset float64
	Width          float64
	Height         float64
}

// RenderState snapshots the values the compositor needs.
func (c *Coordinator) RenderState() RenderState {
	s := c.drag.Session()
	w, h := c.surface.Size()
	return RenderState{
		State:          s.State,
		Edge:           s.Edge,
		ScrollPercent:  c.percent,
		ScrimOpacity:   1 - c.percent,
		ContentOffset:  s.Offset,
		UnderlayOffset: c.underlayX,
		Width:          w,
		Height:         h,
	}
}

type ShadowOp struct {
	Drawable Drawable
	Bounds   Rect
	Alpha    uint8
}

type ScrimOp struct {
	Clip  Rect
	Color Color
}

// DrawPlan is the compositing for one frame. Nil ops are skipped.
type DrawPlan struct {
	Shadow *ShadowOp
	Scrim  *ScrimOp
}

func (p DrawPlan) Empty() bool { return p.Shadow == nil && p.Scrim == nil }

// Plan computes the shadow and scrim for rs. Nothing is drawn while idle or
// once the scrim has faded out.
func Plan(rs RenderState, cfg Config) DrawPlan {
	if rs.State == drag.StateIdle || rs.ScrimOpacity <= 0 {
		return DrawPlan{}
	}
	opacity := clamp01(rs.ScrimOpacity)
	content := Rect{
		Left:   rs.ContentOffset,
		Top:    0,
		Right:  rs.ContentOffset + rs.Width,
		Bottom: rs.Height,
	}

	var plan DrawPlan
	if d := cfg.shadowFor(rs.Edge); d != nil {
		sw := float64(d.IntrinsicWidth())
		bounds := Rect{Top: content.Top, Bottom: content.Bottom}
		switch rs.Edge {
		case drag.EdgeLeft:
			bounds.Left, bounds.Right = content.Left-sw, content.Left
		case drag.EdgeRight:
			bounds.Left, bounds.Right = content.Right, content.Right+sw
		}
		plan.Shadow = &ShadowOp{
			Drawable: d,
			Bounds:   bounds,
			Alpha:    uint8(opacity * fullAlpha),
		}
	}

	clip := Rect{Top: 0, Bottom: rs.Height}
	switch rs.Edge {
	case drag.EdgeLeft:
		clip.Left, clip.Right = 0, content.Left
	case drag.EdgeRight:
		clip.Left, clip.Right = content.Right, rs.Width
	default:
		return plan
	}
	plan.Scrim = &ScrimOp{Clip: clip, Color: scrimColor(opacity, cfg.SwipeAlpha)}
	return plan
}

func scrimColor(opacity, swipeAlpha float64) Color {
	base := float64(ScrimColor.Alpha())
	alpha := int(math.Floor(base * opacity * clamp01(swipeAlpha)))
	return Color(uint32(alpha) << 24)
}

// Draw paints the shadow then the scrim.
func (p DrawPlan) Draw(cv Canvas) {
	if p.Shadow != nil {
		cv.DrawShadow(p.Shadow.Drawable, p.Shadow.Bounds, p.Shadow.Alpha)
	}
	if p.Scrim != nil {
		cv.FillScrim(p.Scrim.Clip, p.Scrim.Color)
	}
}

// Draw composites the current frame onto cv. Call it after drawing the
// dragged content, once per frame.
func (c *Coordinator) Draw(cv Canvas) {
	Plan(c.RenderState(), c.cfg).Draw(cv)
}
