// Package gesture turns raw pointer input into edge-swipe back navigation.
//
// A Coordinator sits between the host and a drag.Controller. It separates
// vertical scrolling from horizontal swipes, converts the drag offset into a
// scroll percent, moves the screen underneath with parallax, plans the
// shadow and scrim for each frame and tells the host when to pop.
//
// Everything runs on the goroutine that delivers input and frames; the
// Coordinator holds no locks.
package gesture

import (
	"errors"
	"time"

	"github.com/jask/swipeback/core/drag"
)

var (
	// ErrInvalidThreshold is returned when a scroll threshold is outside (0,1).
	ErrInvalidThreshold = errors.New("scroll threshold must be between 0 and 1 exclusive")
	// ErrPrecondition is returned when a Coordinator is built without its
	// required collaborators.
	ErrPrecondition = errors.New("gesture host precondition violated")
)

// Navigator is the host that owns the screen stack.
type Navigator interface {
	// CompleteNavigation pops the dragged screen. It is called at most once
	// per finished session.
	CompleteNavigation()
	IsTopOfStack() bool
	StackDepth() int
}

// Surface is the render host of the dragged screen.
type Surface interface {
	RequestRedraw()
	Size() (width, height float64)
	// Underlay returns the screen beneath the dragged one, or nil.
	Underlay() Layer
}

// Layer is a screen whose position the coordinator may move. Implementations
// ignore calls once their view is gone.
type Layer interface {
	SetOffsetX(x float64)
	SetVisible(visible bool)
}

// Drawable is an opaque shadow asset.
type Drawable interface {
	IntrinsicWidth() int
}

// Rect is an axis-aligned rectangle in surface pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Width() float64 { return r.Right - r.Left }
func (r Rect) Empty() bool    { return r.Right <= r.Left || r.Bottom <= r.Top }

// Color is a packed ARGB colour.
type Color uint32

func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// Canvas receives the per-frame compositing operations.
type Canvas interface {
	DrawShadow(d Drawable, bounds Rect, alpha uint8)
	FillScrim(clip Rect, c Color)
}

type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

// Event is a single pointer sample in surface coordinates.
type Event struct {
	Kind      EventKind
	PointerID int
	X, Y      float64
	Time      time.Time
}

func (e Event) point() drag.Point { return drag.Point{X: e.X, Y: e.Y} }
