package core

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorTabOff   lipgloss.Color = "#7f849c"
)

// PageAccents tint the border of each stacked screen so neighbouring pages
// are told apart while one slides over the other.
var PageAccents = []lipgloss.Color{
	"#89b4fa",
	"#a6e3a1",
	"#f9e2af",
	"#f5c2e7",
	"#94e2d5",
	"#fab387",
}
