package core

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/swipeback/core/gesture"
)

type StatusMsg struct {
	Text  string
	IsErr bool
}

type PushScreenMsg struct {
	Screen Screen
}

type PopScreenMsg struct{}

// FrameMsg drives one settle animation step.
type FrameMsg struct {
	Time time.Time
}

// RunCommandMsg runs a host command by ID.
type RunCommandMsg struct {
	ID string
}

// ConfigReloadedMsg carries a gesture configuration read after the config
// file changed on disk.
type ConfigReloadedMsg struct {
	Gesture gesture.Config
	Sizing  *EdgeSizing
	Err     error
}

func StatusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		if err == nil {
			return StatusMsg{Text: "", IsErr: false}
		}
		return StatusMsg{Text: err.Error(), IsErr: true}
	}
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return FrameMsg{Time: t} })
}
