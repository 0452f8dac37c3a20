package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Pane is a rounded box with the title set into the top border and an
// optional footer set into the bottom one. Demo screens render as panes so
// the swipe is visible against the page beneath.
type Pane struct {
	Title   string
	Footer  string
	Content string
	Accent  lipgloss.Color
}

func (p Pane) Render(width, height int) string {
	if width < 4 || height < 3 {
		return fitCanvas("", max(width, 0), max(height, 0))
	}
	accent := p.Accent
	if accent == "" {
		accent = lipgloss.Color("#6c7086")
	}
	borderStyle := lipgloss.NewStyle().Foreground(accent)
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	contentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))

	innerWidth := width - 2
	contentWidth := max(innerWidth-2, 1)

	rows := make([]string, 0, height)
	rows = append(rows, borderLine(borderStyle, titleStyle, "╭", "╮", p.Title, innerWidth))

	v := borderStyle.Render("│")
	lines := strings.Split(p.Content, "\n")
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(lines) {
			line = contentStyle.Render(ansi.Truncate(lines[i], contentWidth, ""))
		}
		rows = append(rows, v+" "+padRightANSI(line, contentWidth)+" "+v)
	}
	rows = append(rows, borderLine(borderStyle, footerStyle, "╰", "╯", p.Footer, innerWidth))
	return strings.Join(rows, "\n")
}

func borderLine(border, label lipgloss.Style, left, right, text string, innerWidth int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return border.Render(left + strings.Repeat("─", innerWidth) + right)
	}
	text = " " + ansi.Truncate(text, max(1, innerWidth-3), "") + " "
	dashes := max(innerWidth-ansi.StringWidth(text)-1, 0)
	return border.Render(left+"─") + label.Render(text) + border.Render(strings.Repeat("─", dashes)+right)
}
