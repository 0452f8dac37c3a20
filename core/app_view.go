package core

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/widgets"
)

const (
	// header and status bar above the body, footer below it
	bodyTop    = 2
	chromeRows = 3
)

func (m Model) View() string {
	if m.quitting {
		return "Goodbye\n"
	}
	header := renderHeader(m)
	status := RenderStatusBar(m)
	footer := RenderFooter(m)
	body := fitHeight(m.renderBody(), m.bodyHeight())
	view := strings.Join([]string{header, status, body, footer}, "\n")
	view = fitHeight(view, max(1, m.height))
	return appStyle.Width(max(1, m.width)).MaxWidth(max(1, m.width)).Render(view)
}

// renderBody composites the top page over the page beneath it. The
// coordinator decides the shadow and scrim; the frame turns them into cells.
func (m Model) renderBody() string {
	top := m.screens.Top()
	w, h := m.width, m.bodyHeight()
	if top == nil || w <= 0 || h <= 0 {
		return ""
	}
	rs := top.swipe.RenderState()
	frame := &widgets.Frame{
		Width:         w,
		Height:        h,
		Foreground:    top.Screen.View(w, h),
		ContentOffset: rs.ContentOffset,
	}
	if below := m.screens.below(top); below != nil && below.visible {
		frame.Underlay = below.Screen.View(w, h)
		frame.UnderlayOffset = below.offsetX
	}
	top.swipe.Draw(frame)
	return frame.Render()
}

func renderHeader(m Model) string {
	crumbs := make([]string, 0, m.screens.Len())
	for i, p := range m.screens.Pages() {
		label := p.Screen.Title()
		if i == m.screens.Len()-1 {
			crumbs = append(crumbs, activeCrumbStyle.Render(label))
		} else {
			crumbs = append(crumbs, inactiveCrumbStyle.Render(label))
		}
	}
	left := headerAppStyle.Render("swipeback")
	right := strings.Join(crumbs, crumbSepStyle.Render("›"))
	right = ansi.Truncate(right, max(1, m.width), "")
	leftW := ansi.StringWidth(left)
	rightW := ansi.StringWidth(right)
	gap := 1
	if leftW+rightW+1 < m.width {
		gap = m.width - leftW - rightW
	}
	return renderBar(headerBarStyle, max(1, m.width), left+strings.Repeat(" ", gap)+right, colorMantle)
}

// gestureSummary describes the top page's swipe for the status bar.
func gestureSummary(m Model) string {
	top := m.screens.Top()
	if top == nil {
		return ""
	}
	c := top.swipe
	cfg := c.Config()
	if !cfg.Enabled {
		return "swipe off"
	}
	s := c.Session()
	if s.State == drag.StateIdle {
		return fmt.Sprintf("edges %s", cfg.EdgeMask)
	}
	return fmt.Sprintf("%s %s %3.0f%%", s.Edge, s.State, c.ScrollPercent()*100)
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
