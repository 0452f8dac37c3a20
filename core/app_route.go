package core

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/swipeback/core/drag"
)

const flushTimeout = 2 * time.Second

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screens.Resize(m.width, m.bodyHeight())
		if m.sizing != nil {
			if err := m.ApplyGesture(m.gesture); err != nil {
				m.SetError(err)
			}
		}
		return m, nil
	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.IsErr
		return m, nil
	case PushScreenMsg:
		if err := m.pushIfIdle(msg.Screen); err != nil {
			m.SetError(err)
		}
		return m, nil
	case PopScreenMsg:
		m.PopScreen()
		return m, nil
	case RunCommandMsg:
		cmd := m.commands.Execute(msg.ID, &m)
		return m, cmd
	case ConfigReloadedMsg:
		if msg.Err == nil {
			m.sizing = msg.Sizing
			msg.Err = m.ApplyGesture(msg.Gesture)
		}
		if msg.Err != nil {
			m.log.Warn("config reload rejected", "error", msg.Err)
			m.SetError(msg.Err)
			return m, nil
		}
		m.SetStatus("Config reloaded")
		return m, nil
	case FrameMsg:
		m.ticking = false
		settled := false
		for _, p := range m.screens.Pages() {
			if p.swipe.Settling() && !p.swipe.Tick() {
				settled = true
			}
		}
		cmd := m.afterGesture()
		if settled {
			cmd = tea.Batch(cmd, m.flushCmd())
		}
		return m, cmd
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.capturingKeys() || msg.Type == tea.KeyEsc {
			if action := m.keys.ActionFor(msg, m.ActiveScope()); m.commands.Has(action) {
				cmd := m.commands.Execute(action, &m)
				return m, cmd
			}
		}
	}

	top := m.screens.Top()
	if top == nil {
		return m, nil
	}
	next, cmd, pop := top.Screen.Update(msg)
	if pop {
		m.PopScreen()
		return m, cmd
	}
	if next != nil {
		top.Screen = next
	}
	return m, cmd
}

func (m Model) capturingKeys() bool {
	top := m.screens.Top()
	if top == nil {
		return false
	}
	c, ok := top.Screen.(KeyCapturer)
	return ok && c.CapturesKeys()
}

func (m *Model) pushIfIdle(s Screen) error {
	if top := m.screens.Top(); top != nil && sessionActive(top.swipe) {
		m.SetStatus("Swipe in progress")
		return nil
	}
	return m.PushScreen(s)
}

func (m *Model) pushNext() tea.Cmd {
	if err := m.PushScreen(m.newScreen(m.screens.Len() + 1)); err != nil {
		return ErrorCmd(err)
	}
	return nil
}

var edgeCycle = []drag.Edge{drag.EdgeLeft, drag.EdgeRight, drag.EdgeAll}

func (m *Model) cycleEdges() tea.Cmd {
	cfg := m.gesture
	next := edgeCycle[0]
	for i, e := range edgeCycle {
		if e == cfg.EdgeMask {
			next = edgeCycle[(i+1)%len(edgeCycle)]
			break
		}
	}
	cfg.EdgeMask = next
	if err := m.ApplyGesture(cfg); err != nil {
		return ErrorCmd(err)
	}
	return StatusCmd("Swipe edges: " + next.String())
}

// afterGesture drains finished swipes and keeps the frame clock running
// while any page is settling.
func (m *Model) afterGesture() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range m.screens.takeCompleted() {
		if m.screens.Len() == 1 && m.screens.Top() == p {
			m.log.Info("root screen swiped away")
			m.quitting = true
			cmds = append(cmds, m.flushCmd(), tea.Quit)
			continue
		}
		m.screens.remove(p)
		m.log.Debug("screen swiped away", "title", p.Screen.Title(), "depth", m.screens.Len())
	}
	for _, p := range m.screens.Pages() {
		if p.pending != nil && !sessionActive(p.swipe) {
			if err := applyGesture(p.swipe, *p.pending); err != nil {
				m.SetError(err)
			}
			p.pending = nil
		}
	}
	m.screens.takeRedraw()
	if !m.ticking {
		for _, p := range m.screens.Pages() {
			if p.swipe.Settling() {
				m.ticking = true
				cmds = append(cmds, frameCmd(p.swipe.Frame()))
				break
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) flushCmd() tea.Cmd {
	if m.flusher == nil {
		return nil
	}
	f := m.flusher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := f.Flush(ctx); err != nil {
			return StatusMsg{Text: "journal: " + err.Error(), IsErr: true}
		}
		return nil
	}
}
