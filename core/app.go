package core

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
)

type Screen interface {
	Update(msg tea.Msg) (Screen, tea.Cmd, bool)
	View(width, height int) string
	Scope() string
	Title() string
}

// Scroller is a screen with vertical content. Drags classified as vertical
// and wheel events are forwarded to it.
type Scroller interface {
	ScrollBy(lines int)
}

// KeyCapturer is a screen taking text input. While it is on top only esc
// reaches the host bindings.
type KeyCapturer interface {
	CapturesKeys() bool
}

// Flusher persists whatever the page hooks buffered during a session.
type Flusher interface {
	Flush(ctx context.Context) error
}

// ScreenFactory builds the screen pushed at the given depth.
type ScreenFactory func(depth int) Screen

// PageHook runs for every new page, after its coordinator is built.
type PageHook func(c *gesture.Coordinator)

// EdgeSizing sizes the swipe edge from the body width instead of a fixed
// number of cells.
type EdgeSizing struct {
	Level   gesture.EdgeLevel
	Density float64
}

func (e EdgeSizing) edgeSize(width int) float64 {
	return gesture.DisplayMetrics{WidthPixels: float64(width), Density: e.Density}.EdgeSizeFor(e.Level)
}

type pointerState struct {
	down  bool
	lastY int
}

type Model struct {
	width     int
	height    int
	screens   *ScreenStack
	keys      *KeyRegistry
	commands  *CommandRegistry
	status    string
	statusErr bool
	quitting  bool
	ticking   bool
	pointer   pointerState

	gesture   gesture.Config
	sizing    *EdgeSizing
	swipeOpts []gesture.Option
	newScreen ScreenFactory
	hooks     []PageHook
	flusher   Flusher
	log       *slog.Logger
	now       func() time.Time
}

type Option func(*Model)

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithGesture sets the configuration every page starts with, plus any
// coordinator options such as shadow assets and spring tuning.
func WithGesture(cfg gesture.Config, opts ...gesture.Option) Option {
	return func(m *Model) {
		m.gesture = cfg
		m.swipeOpts = append(m.swipeOpts, opts...)
	}
}

// WithEdgeSizing derives the edge size from the body width on every resize.
func WithEdgeSizing(e EdgeSizing) Option {
	return func(m *Model) { m.sizing = &e }
}

func WithScreenFactory(f ScreenFactory) Option {
	return func(m *Model) { m.newScreen = f }
}

func WithPageHook(h PageHook) Option {
	return func(m *Model) { m.hooks = append(m.hooks, h) }
}

func WithFlusher(f Flusher) Option {
	return func(m *Model) { m.flusher = f }
}

// WithCommands replaces the host actions that key bindings dispatch to.
func WithCommands(r *CommandRegistry) Option {
	return func(m *Model) { m.commands = r }
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// NewModel builds a model with root at the bottom of the stack.
func NewModel(root Screen, keys *KeyRegistry, opts ...Option) (Model, error) {
	m := Model{
		screens: NewScreenStack(),
		keys:    keys,
		status:  "Ready",
		width:   100,
		height:  32,
		gesture: gesture.DefaultConfig(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.keys == nil {
		m.keys = NewKeyRegistry(DefaultKeyBindings())
	}
	if m.commands == nil {
		m.commands = NewCommandRegistry(DefaultCommands())
	}
	m.screens.Resize(m.width, m.bodyHeight())
	if m.sizing != nil {
		m.gesture.EdgeSize = m.sizing.edgeSize(m.width)
	}
	if err := m.PushScreen(root); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) SetStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) SetError(err error) {
	if err == nil {
		m.status = ""
		m.statusErr = false
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) ActiveScope() string {
	if top := m.screens.Top(); top != nil {
		return top.Screen.Scope()
	}
	return "app"
}

func (m Model) Screens() *ScreenStack { return m.screens }

// PushScreen puts s on top of the stack with a fresh swipe coordinator.
func (m *Model) PushScreen(s Screen) error {
	opts := append([]gesture.Option{gesture.WithConfig(m.gesture), gesture.WithLogger(m.log)}, m.swipeOpts...)
	p, err := m.screens.Push(s, opts...)
	if err != nil {
		return err
	}
	for _, h := range m.hooks {
		h(p.swipe)
	}
	m.log.Debug("screen pushed", "title", s.Title(), "depth", m.screens.Len())
	return nil
}

// PopScreen removes the top screen. The root is never popped by a key; only
// a completed root swipe closes the host.
func (m *Model) PopScreen() bool {
	if m.screens.Len() <= 1 {
		return false
	}
	p := m.screens.Pop()
	m.log.Debug("screen popped", "title", p.Screen.Title(), "depth", m.screens.Len())
	return true
}

// ApplyGesture replaces the gesture configuration on every page. Pages with
// a session in flight pick it up when the session ends. With edge sizing
// set, cfg.EdgeSize is recomputed from the current width.
func (m *Model) ApplyGesture(cfg gesture.Config) error {
	if err := gesture.ValidateThreshold(cfg.ScrollThreshold); err != nil {
		return err
	}
	if m.sizing != nil {
		cfg.EdgeSize = m.sizing.edgeSize(m.width)
	}
	m.gesture = cfg
	for _, p := range m.screens.Pages() {
		if sessionActive(p.swipe) {
			pending := cfg
			p.pending = &pending
			continue
		}
		if err := applyGesture(p.swipe, cfg); err != nil {
			return err
		}
	}
	return nil
}

func sessionActive(c *gesture.Coordinator) bool {
	s := c.State()
	return s == drag.StateDragging || s == drag.StateSettling
}

func applyGesture(c *gesture.Coordinator, cfg gesture.Config) error {
	if err := c.SetScrollThreshold(cfg.ScrollThreshold); err != nil {
		return err
	}
	c.SetEdgeOrientation(cfg.EdgeMask)
	c.SetEdgeSize(cfg.EdgeSize)
	c.SetParallaxOffset(cfg.ParallaxOffset)
	c.SetSwipeAlpha(cfg.SwipeAlpha)
	c.SetEnabled(cfg.Enabled)
	c.SetRootSwipe(cfg.RootSwipe)
	c.SetTouchSlop(cfg.TouchSlop)
	c.SetMinFlingVelocity(cfg.MinFlingVelocity)
	return nil
}

func (m Model) bodyHeight() int {
	return max(m.height-chromeRows, 0)
}
