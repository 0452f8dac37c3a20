package gesture

import (
	"slices"

	"github.com/jask/swipeback/core/drag"
)

// Listener observes a Coordinator. Calls happen synchronously on the
// goroutine driving the gesture, in registration order.
type Listener interface {
	OnDragStateChange(state drag.State)
	OnEdgeTouch(edge drag.Edge)
	// OnDragScrolled fires only while dragging with a percent in (0,1].
	OnDragScrolled(percent float64)
}

// ListenerFuncs adapts plain functions to Listener. Register it by pointer
// so RemoveListener can find it again.
type ListenerFuncs struct {
	StateChange func(drag.State)
	EdgeTouch   func(drag.Edge)
	Scrolled    func(float64)
}

func (l *ListenerFuncs) OnDragStateChange(s drag.State) {
	if l.StateChange != nil {
		l.StateChange(s)
	}
}

func (l *ListenerFuncs) OnEdgeTouch(e drag.Edge) {
	if l.EdgeTouch != nil {
		l.EdgeTouch(e)
	}
}

func (l *ListenerFuncs) OnDragScrolled(p float64) {
	if l.Scrolled != nil {
		l.Scrolled(p)
	}
}

func (c *Coordinator) AddListener(l Listener) {
	if l == nil {
		return
	}
	c.listeners = append(c.listeners, l)
}

// RemoveListener drops the first registration of l. Removing during a
// fan-out takes effect from the next event.
func (c *Coordinator) RemoveListener(l Listener) {
	if i := slices.Index(c.listeners, l); i >= 0 {
		c.listeners = slices.Delete(slices.Clone(c.listeners), i, i+1)
	}
}

// each iterates over a snapshot so listeners may add or remove listeners.
func (c *Coordinator) each(fn func(Listener)) {
	for _, l := range slices.Clone(c.listeners) {
		fn(l)
	}
}
