package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/swipeback/core"
	"github.com/jask/swipeback/core/widgets"
)

var deckIntro = []string{
	"Drag from the left edge to go back.",
	"Release past the threshold, or flick, to pop this page.",
	"Drag up or down anywhere to scroll instead.",
	"",
}

// DeckScreen is one page of the demo: a scrollable list of cards framed in
// a pane tinted by its depth.
type DeckScreen struct {
	depth int
	vp    viewport.Model
}

func NewDeckScreen(depth, cards int) *DeckScreen {
	lines := append([]string(nil), deckIntro...)
	for i := 1; i <= cards; i++ {
		lines = append(lines, fmt.Sprintf("%02d  card %d.%d", i, depth, i))
	}
	vp := viewport.New(60, 20)
	vp.SetContent(strings.Join(lines, "\n"))
	return &DeckScreen{depth: depth, vp: vp}
}

// DeckFactory builds decks of the given length for each new depth.
func DeckFactory(cards int) core.ScreenFactory {
	return func(depth int) core.Screen { return NewDeckScreen(depth, cards) }
}

func (s *DeckScreen) Title() string { return fmt.Sprintf("Deck %d", s.depth) }
func (s *DeckScreen) Scope() string { return "screen:deck" }
func (s *DeckScreen) YOffset() int  { return s.vp.YOffset }

func (s *DeckScreen) ScrollBy(lines int) {
	s.vp.SetYOffset(s.vp.YOffset + lines)
}

func (s *DeckScreen) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch km.String() {
	case "j", "down":
		s.ScrollBy(1)
	case "k", "up":
		s.ScrollBy(-1)
	case "g", "home":
		s.vp.GotoTop()
	case "G", "end":
		s.vp.GotoBottom()
	}
	return s, nil, false
}

func (s *DeckScreen) View(width, height int) string {
	s.vp.Width = max(width-4, 1)
	s.vp.Height = max(height-2, 1)
	s.vp.SetYOffset(s.vp.YOffset)
	accent := core.PageAccents[(s.depth-1)%len(core.PageAccents)]
	return widgets.Pane{
		Title:   s.Title(),
		Footer:  fmt.Sprintf("%3.0f%%", s.vp.ScrollPercent()*100),
		Content: s.vp.View(),
		Accent:  accent,
	}.Render(width, height)
}
