package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(150 * time.Millisecond)
	return c.t
}

type countingFlusher struct {
	calls int
	err   error
}

func (f *countingFlusher) Flush(context.Context) error {
	f.calls++
	return f.err
}

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	clock := &stepClock{t: time.Unix(0, 0)}
	opts = append([]Option{WithClock(clock.now)}, opts...)
	m, err := NewModel(&fakeScreen{title: "root"}, nil, opts...)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func runFrames(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 600 && m.ticking; i++ {
		m, _ = step(t, m, FrameMsg{})
	}
	if m.ticking {
		t.Fatalf("settle did not finish")
	}
	return m
}

func withTwoScreens(t *testing.T, opts ...Option) (Model, *Page) {
	t.Helper()
	m := newTestModel(t, opts...)
	m, _ = step(t, m, PushScreenMsg{Screen: &fakeScreen{title: "two"}})
	if m.screens.Len() != 2 {
		t.Fatalf("push failed: %s", m.status)
	}
	return m, m.screens.Top()
}

func TestSwipePastThresholdPopsScreen(t *testing.T) {
	m, top := withTwoScreens(t)
	root := m.screens.Pages()[0]

	m, _ = step(t, m, press(1, 10))
	m, _ = step(t, m, motion(60, 10))
	if top.Swipe().State() != drag.StateDragging {
		t.Fatalf("expected dragging, got %s", top.Swipe().State())
	}
	if !root.Visible() || root.OffsetX() >= 0 {
		t.Fatalf("underlay should be revealed with parallax: visible=%v x=%v", root.Visible(), root.OffsetX())
	}
	m, _ = step(t, m, release(60, 10))
	if !m.ticking {
		t.Fatalf("release past threshold should start the frame clock")
	}
	m = runFrames(t, m)
	if m.screens.Len() != 1 || !top.Gone() {
		t.Fatalf("swiped screen should be popped, len=%d", m.screens.Len())
	}
	if root.OffsetX() != 0 || !root.Visible() {
		t.Fatalf("root should be at rest: x=%v visible=%v", root.OffsetX(), root.Visible())
	}
	if top.Swipe().State() != drag.StateFinished {
		t.Fatalf("swiped coordinator state=%s", top.Swipe().State())
	}
}

func TestShortSwipeSpringsBack(t *testing.T) {
	m, top := withTwoScreens(t)
	root := m.screens.Pages()[0]
	m, _ = step(t, m, press(1, 10))
	m, _ = step(t, m, motion(30, 10))
	m, _ = step(t, m, release(30, 10))
	m = runFrames(t, m)
	if m.screens.Len() != 2 || top.Gone() {
		t.Fatalf("short swipe must not pop")
	}
	if top.Swipe().State() != drag.StateIdle || top.Swipe().Session().Offset != 0 {
		t.Fatalf("expected idle at rest, got %+v", top.Swipe().Session())
	}
	if root.Visible() {
		t.Fatalf("underlay should be hidden again")
	}
}

func TestVerticalDragScrollsScreen(t *testing.T) {
	m := newTestModel(t)
	screen := &fakeScreen{title: "two"}
	m, _ = step(t, m, PushScreenMsg{Screen: screen})
	m, _ = step(t, m, press(50, 10))
	m, _ = step(t, m, motion(51, 22))
	m, _ = step(t, m, motion(52, 25))
	if screen.scroll != -15 {
		t.Fatalf("scroll=%d want -15", screen.scroll)
	}
	if m.screens.Top().Swipe().State() != drag.StateIdle {
		t.Fatalf("vertical drag must not capture")
	}
	m, _ = step(t, m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if screen.scroll != -15+wheelLines {
		t.Fatalf("wheel scroll=%d", screen.scroll)
	}
}

func TestPopDuringDragTearsDown(t *testing.T) {
	m, top := withTwoScreens(t)
	root := m.screens.Pages()[0]
	m, _ = step(t, m, press(1, 10))
	m, _ = step(t, m, motion(40, 10))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screens.Len() != 1 || !top.Gone() || !top.Swipe().TornDown() {
		t.Fatalf("esc should pop and tear down the dragged page")
	}
	if root.OffsetX() != 0 || !root.Visible() {
		t.Fatalf("root not at rest after pop: x=%v", root.OffsetX())
	}
	m, _ = step(t, m, release(40, 10))
	if m.screens.Len() != 1 {
		t.Fatalf("release after teardown must not navigate")
	}
}

func TestRootIsNotSwipeableByDefault(t *testing.T) {
	m := newTestModel(t)
	m, _ = step(t, m, press(1, 10))
	m, _ = step(t, m, motion(80, 10))
	m, _ = step(t, m, release(80, 10))
	if m.screens.Len() != 1 || m.quitting || m.ticking {
		t.Fatalf("root swipe should be refused")
	}
}

func TestRootSwipeQuits(t *testing.T) {
	cfg := gesture.DefaultConfig()
	cfg.RootSwipe = true
	m := newTestModel(t, WithGesture(cfg))
	m, _ = step(t, m, press(1, 10))
	m, _ = step(t, m, motion(80, 10))
	m, _ = step(t, m, release(80, 10))
	m = runFrames(t, m)
	if !m.quitting || m.View() != "Goodbye\n" {
		t.Fatalf("completed root swipe should quit")
	}
}

func TestPressOutsideBodyIgnored(t *testing.T) {
	m, top := withTwoScreens(t)
	m, _ = step(t, m, press(1, 0))
	m, _ = step(t, m, motion(60, 0))
	if top.Swipe().State() != drag.StateIdle {
		t.Fatalf("header press must not start a swipe")
	}
}

func TestConfigReloadAppliesToIdlePages(t *testing.T) {
	m, top := withTwoScreens(t)
	cfg := gesture.DefaultConfig()
	cfg.ScrollThreshold = 0.7
	cfg.EdgeMask = drag.EdgeAll
	m, _ = step(t, m, ConfigReloadedMsg{Gesture: cfg})
	for _, p := range m.screens.Pages() {
		if got := p.Swipe().Config(); got.ScrollThreshold != 0.7 || got.EdgeMask != drag.EdgeAll {
			t.Fatalf("page config not reloaded: %+v", got)
		}
	}

	bad := cfg
	bad.ScrollThreshold = 1.5
	m, _ = step(t, m, ConfigReloadedMsg{Gesture: bad})
	if !m.statusErr || !errors.Is(gesture.ValidateThreshold(1.5), gesture.ErrInvalidThreshold) {
		t.Fatalf("invalid reload should surface an error, status=%q", m.status)
	}
	if top.Swipe().Config().ScrollThreshold != 0.7 {
		t.Fatalf("rejected reload must not change pages")
	}
}

func TestConfigReloadWaitsForActiveSession(t *testing.T) {
	m, top := withTwoScreens(t)
	m, _ = step(t, m, press(1, 10))
	m, _ = step(t, m, motion(20, 10))
	cfg := gesture.DefaultConfig()
	cfg.ScrollThreshold = 0.6
	m, _ = step(t, m, ConfigReloadedMsg{Gesture: cfg})
	if top.Swipe().Config().ScrollThreshold != gesture.DefaultScrollThreshold {
		t.Fatalf("active page must keep its config mid-session")
	}
	m, _ = step(t, m, release(20, 10))
	m = runFrames(t, m)
	if top.Swipe().Config().ScrollThreshold != 0.6 {
		t.Fatalf("pending config should apply once the session ends")
	}
}

func TestKeysPushCycleAndToggle(t *testing.T) {
	m := newTestModel(t, WithScreenFactory(func(depth int) Screen {
		return &fakeScreen{title: "page"}
	}))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if m.screens.Len() != 2 {
		t.Fatalf("n should push")
	}
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if cmd == nil || m.screens.Top().Swipe().Config().EdgeMask != drag.EdgeRight {
		t.Fatalf("e should move to the right edge")
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.screens.Top().Swipe().Config().Enabled {
		t.Fatalf("s should disable swiping")
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screens.Len() != 1 || m.status != "Already at the root screen" {
		t.Fatalf("esc must never pop the root, status=%q", m.status)
	}
}

func TestScreenReceivesUnboundKeys(t *testing.T) {
	m, _ := withTwoScreens(t)
	top := m.screens.Top().Screen.(*fakeScreen)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	if top.hits != 1 {
		t.Fatalf("screen should receive unbound keys")
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.screens.Len() != 1 {
		t.Fatalf("screen should be able to pop itself")
	}
}

func TestViewCompositesDraggedPage(t *testing.T) {
	m, _ := withTwoScreens(t)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})
	m, _ = step(t, m, press(1, 5))
	m, _ = step(t, m, motion(41, 5))
	view := ansi.Strip(m.View())
	lines := strings.Split(view, "\n")
	if len(lines) != 12 {
		t.Fatalf("view has %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "root") || !strings.Contains(lines[0], "two") {
		t.Fatalf("header should show the stack: %q", lines[0])
	}
	if !strings.Contains(lines[1], "dragging") {
		t.Fatalf("status should show the drag: %q", lines[1])
	}
	if got := strings.Index(lines[bodyTop], "two"); got != 40 {
		t.Fatalf("dragged content at column %d want 40: %q", got, lines[bodyTop])
	}
}

func TestFlushCmd(t *testing.T) {
	m := newTestModel(t)
	if m.flushCmd() != nil {
		t.Fatalf("no flusher, no command")
	}
	f := &countingFlusher{}
	m = newTestModel(t, WithFlusher(f))
	if msg := m.flushCmd()(); msg != nil || f.calls != 1 {
		t.Fatalf("flush msg=%v calls=%d", msg, f.calls)
	}
	f.err = errors.New("disk full")
	msg, ok := m.flushCmd()().(StatusMsg)
	if !ok || !msg.IsErr || !strings.Contains(msg.Text, "disk full") {
		t.Fatalf("flush error should become a status error, got %#v", msg)
	}
}

func TestEdgeSizingFollowsWidth(t *testing.T) {
	m := newTestModel(t, WithEdgeSizing(EdgeSizing{Level: gesture.EdgeLevelMed, Density: 1}))
	if got := m.screens.Top().Swipe().Config().EdgeSize; got != 50 {
		t.Fatalf("edge size=%v want 50 for width 100", got)
	}
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 61, Height: 20})
	if got := m.screens.Top().Swipe().Config().EdgeSize; got != 30 {
		t.Fatalf("edge size=%v want 30 after resize", got)
	}
	m, _ = step(t, m, ConfigReloadedMsg{Gesture: gesture.DefaultConfig()})
	if got := m.screens.Top().Swipe().Config().EdgeSize; got != gesture.DefaultEdgeSizeDP {
		t.Fatalf("reload without sizing should restore the fixed edge, got %v", got)
	}
}
