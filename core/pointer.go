package core

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/swipeback/core/gesture"
)

const wheelLines = 3

// pointerEvent maps a terminal mouse message to a pointer sample in body
// coordinates. Only the left button drives the swipe.
func (m *Model) pointerEvent(msg tea.MouseMsg) (gesture.Event, bool) {
	ev := gesture.Event{
		X:    float64(msg.X),
		Y:    float64(msg.Y - bodyTop),
		Time: m.now(),
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y < bodyTop {
			return ev, false
		}
		ev.Kind = gesture.PointerDown
	case tea.MouseActionMotion:
		if !m.pointer.down {
			return ev, false
		}
		ev.Kind = gesture.PointerMove
	case tea.MouseActionRelease:
		if !m.pointer.down {
			return ev, false
		}
		ev.Kind = gesture.PointerUp
	default:
		return ev, false
	}
	return ev, true
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	top := m.screens.Top()
	if top == nil {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if s, ok := top.Screen.(Scroller); ok {
			lines := wheelLines
			if msg.Button == tea.MouseButtonWheelUp {
				lines = -lines
			}
			s.ScrollBy(lines)
		}
		return m, nil
	}
	ev, ok := m.pointerEvent(msg)
	if !ok {
		return m, nil
	}
	consumed := top.swipe.HandlePointer(ev)
	if !consumed && ev.Kind == gesture.PointerMove && top.swipe.Vertical() {
		if s, ok := top.Screen.(Scroller); ok {
			s.ScrollBy(m.pointer.lastY - msg.Y)
		}
	}

	switch ev.Kind {
	case gesture.PointerDown:
		m.pointer = pointerState{down: true, lastY: msg.Y}
	case gesture.PointerMove:
		m.pointer.lastY = msg.Y
	case gesture.PointerUp:
		m.pointer = pointerState{}
	}

	cmd := m.afterGesture()
	if consumed && ev.Kind == gesture.PointerUp && !top.swipe.Settling() {
		cmd = tea.Batch(cmd, m.flushCmd())
	}
	return m, cmd
}
