package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/swipeback/core/gesture"
)

// Shade is a terminal shadow asset: a band of block characters Cols wide.
type Shade struct {
	Cols int
}

func (s Shade) IntrinsicWidth() int { return s.Cols }

type band struct {
	left, right int
	alpha       uint8
}

func (b *band) covers(col int) bool { return b != nil && col >= b.left && col < b.right }

// Frame composites a dragged screen over the screen beneath it. It is the
// gesture.Canvas for the terminal: the coordinator records the shadow and
// scrim, Render produces the final cells.
type Frame struct {
	Width  int
	Height int

	Foreground string
	Underlay   string

	ContentOffset  float64
	UnderlayOffset float64

	shadow *band
	scrim  *band
}

func (f *Frame) DrawShadow(_ gesture.Drawable, b gesture.Rect, alpha uint8) {
	f.shadow = &band{left: cell(b.Left), right: cell(b.Right), alpha: alpha}
}

func (f *Frame) FillScrim(clip gesture.Rect, c gesture.Color) {
	f.scrim = &band{left: cell(clip.Left), right: cell(clip.Right), alpha: c.Alpha()}
}

func cell(px float64) int { return int(math.Round(px)) }

type owner int

const (
	ownUnderlay owner = iota
	ownShadow
	ownContent
)

func (f *Frame) ownerAt(col, contentLeft int) owner {
	if col >= contentLeft && col < contentLeft+f.Width {
		return ownContent
	}
	if f.shadow.covers(col) {
		return ownShadow
	}
	return ownUnderlay
}

// Render returns the composited canvas, Height lines of Width cells.
func (f *Frame) Render() string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	fg := splitToLines(f.Foreground, f.Height)
	ul := splitToLines(f.Underlay, f.Height)
	contentLeft := cell(f.ContentOffset)
	shift := cell(f.UnderlayOffset)

	out := make([]string, f.Height)
	for i := range out {
		out[i] = f.renderRow(padRightANSI(fg[i], f.Width), padRightANSI(ul[i], f.Width), contentLeft, shift)
	}
	return strings.Join(out, "\n")
}

func (f *Frame) renderRow(fg, ul string, contentLeft, shift int) string {
	var b strings.Builder
	for start := 0; start < f.Width; {
		o := f.ownerAt(start, contentLeft)
		end := start + 1
		for end < f.Width && f.ownerAt(end, contentLeft) == o {
			end++
		}
		switch o {
		case ownContent:
			b.WriteString(cut(fg, start-contentLeft, end-contentLeft))
		case ownShadow:
			b.WriteString(shadowStyle(f.shadow.alpha).Render(strings.Repeat(shadeRune(f.shadow.alpha), end-start)))
		default:
			b.WriteString(f.underlaySegment(ul, start, end, shift))
		}
		start = end
	}
	return b.String()
}

// underlaySegment renders columns [start,end) of the parallax-shifted
// underlay, darkening the part inside the scrim clip.
func (f *Frame) underlaySegment(ul string, start, end, shift int) string {
	if f.scrim == nil {
		return cut(ul, start-shift, end-shift)
	}
	a, z := max(start, f.scrim.left), min(end, f.scrim.right)
	if a >= z {
		return cut(ul, start-shift, end-shift)
	}
	return cut(ul, start-shift, a-shift) +
		scrimStyle(f.scrim.alpha).Render(ansi.Strip(cut(ul, a-shift, z-shift))) +
		cut(ul, z-shift, end-shift)
}

// cut returns columns [from,to) of s, padding with spaces outside of s.
func cut(s string, from, to int) string {
	if to <= from {
		return ""
	}
	pad := ""
	if from < 0 {
		pad = strings.Repeat(" ", min(-from, to-from))
		from = 0
		if to <= 0 {
			return pad
		}
	}
	seg := padRightANSI(ansi.Cut(s, from, to), to-from)
	if strings.Contains(seg, "\x1b") {
		seg += ansi.ResetStyle
	}
	return pad + seg
}

func shadeRune(alpha uint8) string {
	switch {
	case alpha >= 170:
		return "▓"
	case alpha >= 85:
		return "▒"
	}
	return "░"
}

func shadowStyle(alpha uint8) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(gray(0x45 + int(0x40*(255-int(alpha))/255)))
}

// scrimStyle fades text toward the background as alpha grows.
func scrimStyle(alpha uint8) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(gray(int(float64(0xcd) * (1 - float64(alpha)/255))))
	if alpha > 0x40 {
		s = s.Faint(true)
	}
	return s
}

func gray(v int) lipgloss.Color {
	v = min(max(v, 0), 255)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
