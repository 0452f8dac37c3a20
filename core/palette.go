package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/swipeback/core/widgets"
)

type PaletteItem struct {
	ID       string
	Label    string
	Key      string
	Hint     string
	Search   string
	Disabled bool
}

// Palette is a fuzzy-filtered list with a cursor.
type Palette struct {
	items    []PaletteItem
	filtered []PaletteItem
	query    string
	cursor   int
}

func NewPalette(items []PaletteItem) *Palette {
	p := &Palette{items: append([]PaletteItem(nil), items...)}
	p.rebuild()
	return p
}

func (p *Palette) Query() string        { return p.query }
func (p *Palette) Cursor() int          { return p.cursor }
func (p *Palette) Len() int             { return len(p.items) }
func (p *Palette) Items() []PaletteItem { return append([]PaletteItem(nil), p.filtered...) }

func (p *Palette) SetQuery(q string) {
	if q == p.query {
		return
	}
	p.query = q
	p.cursor = 0
	p.rebuild()
}

// Move shifts the cursor by delta, clamped to the filtered rows.
func (p *Palette) Move(delta int) {
	p.cursor = min(max(p.cursor+delta, 0), max(len(p.filtered)-1, 0))
}

func (p *Palette) Current() (PaletteItem, bool) {
	if len(p.filtered) == 0 {
		return PaletteItem{}, false
	}
	return p.filtered[p.cursor], true
}

type scoredItem struct {
	item  PaletteItem
	score int
	index int
}

func (p *Palette) rebuild() {
	q := strings.TrimSpace(p.query)
	scored := make([]scoredItem, 0, len(p.items))
	for idx, item := range p.items {
		search := strings.TrimSpace(item.Search)
		if search == "" {
			search = item.Label
		}
		if ok, score := fuzzyMatchScore(search, q); ok {
			scored = append(scored, scoredItem{item: item, score: score, index: idx})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})
	p.filtered = p.filtered[:0]
	for _, row := range scored {
		p.filtered = append(p.filtered, row.item)
	}
	p.Move(0)
}

// fuzzyMatchScore matches query as a subsequence of label. Prefix hits,
// consecutive runs and exact matches score higher.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	from := 0
	for i := 0; i < len(queryLower); i++ {
		j := strings.IndexByte(labelLower[from:], queryLower[i])
		if j < 0 {
			return false, 0
		}
		matchIdx = append(matchIdx, from+j)
		from += j + 1
	}

	score := len(queryLower)
	if matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

// paletteItems lists the host commands, with the first key bound to each.
func (m *Model) paletteItems() []PaletteItem {
	bindings := m.keys.BindingsForScope(m.ActiveScope())
	keyFor := func(action string) string {
		for _, b := range bindings {
			if b.Action == action && len(b.Keys) > 0 {
				return b.Keys[0]
			}
		}
		return ""
	}
	var items []PaletteItem
	for _, r := range m.commands.List(m) {
		if r.CommandID == "palette" {
			continue
		}
		hint := r.Desc
		if r.Disabled {
			hint = r.Reason
		}
		items = append(items, PaletteItem{
			ID:       r.CommandID,
			Label:    r.Name,
			Key:      keyFor(r.CommandID),
			Hint:     hint,
			Search:   r.Name + " " + r.Desc + " " + r.CommandID,
			Disabled: r.Disabled,
		})
	}
	return items
}

var (
	paletteRowStyle      = lipgloss.NewStyle().Foreground(colorText)
	paletteSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	paletteOffStyle      = lipgloss.NewStyle().Foreground(colorBorder)
	paletteKeyStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	paletteHintStyle     = lipgloss.NewStyle().Foreground(colorMuted)
)

// paletteScreen is pushed like any other screen, so it can be swiped away.
// Choosing a row pops it and runs the command on the screen beneath.
type paletteScreen struct {
	palette *Palette
	input   textinput.Model
}

func newPaletteScreen(items []PaletteItem) *paletteScreen {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "type to filter"
	in.Focus()
	return &paletteScreen{palette: NewPalette(items), input: in}
}

func (s *paletteScreen) Title() string      { return "Commands" }
func (s *paletteScreen) Scope() string      { return "screen:palette" }
func (s *paletteScreen) CapturesKeys() bool { return true }

func (s *paletteScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch keyMsg.String() {
	case "up", "ctrl+p":
		s.palette.Move(-1)
		return s, nil, false
	case "down", "ctrl+n":
		s.palette.Move(1)
		return s, nil, false
	case "enter":
		item, ok := s.palette.Current()
		if !ok {
			return s, nil, false
		}
		if item.Disabled {
			return s, StatusCmd(item.Hint), false
		}
		id := item.ID
		return s, func() tea.Msg { return RunCommandMsg{ID: id} }, true
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(keyMsg)
	s.palette.SetQuery(s.input.Value())
	return s, cmd, false
}

func (s *paletteScreen) View(width, height int) string {
	s.input.Width = max(width-8, 1)
	rows := []string{s.input.View(), ""}
	items := s.palette.Items()
	for i, it := range items {
		marker, style := "  ", paletteRowStyle
		if i == s.palette.Cursor() {
			marker, style = "› ", paletteSelectedStyle
		}
		if it.Disabled {
			style = paletteOffStyle
		}
		line := marker + style.Render(it.Label)
		if it.Key != "" {
			line += "  " + paletteKeyStyle.Render(it.Key)
		}
		if it.Hint != "" {
			line += "  " + paletteHintStyle.Render(it.Hint)
		}
		rows = append(rows, line)
	}
	if len(items) == 0 {
		rows = append(rows, paletteHintStyle.Render("  No matching commands"))
	}
	return widgets.Pane{
		Title:   "Commands",
		Footer:  fmt.Sprintf("%d/%d", len(items), s.palette.Len()),
		Content: strings.Join(rows, "\n"),
		Accent:  colorAccent,
	}.Render(width, height)
}
