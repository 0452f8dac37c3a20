package core

import "github.com/jask/swipeback/core/gesture"

// Page is one entry of the screen stack. While the page above it is being
// swiped away it is that page's underlay: the coordinator above moves and
// reveals it through the gesture.Layer methods.
type Page struct {
	Screen Screen

	swipe   *gesture.Coordinator
	offsetX float64
	visible bool
	gone    bool
	pending *gesture.Config
}

func (p *Page) SetOffsetX(x float64) {
	if p.gone {
		return
	}
	p.offsetX = x
}

func (p *Page) SetVisible(visible bool) {
	if p.gone {
		return
	}
	p.visible = visible
}

func (p *Page) Swipe() *gesture.Coordinator { return p.swipe }
func (p *Page) OffsetX() float64            { return p.offsetX }
func (p *Page) Visible() bool               { return p.visible }
func (p *Page) Gone() bool                  { return p.gone }

// ScreenStack owns the pages and implements the gesture host for each of
// them. Pages whose swipe finished are queued in completed until the model
// drains them.
type ScreenStack struct {
	items     []*Page
	width     int
	height    int
	redraw    bool
	completed []*Page
}

func NewScreenStack() *ScreenStack {
	return &ScreenStack{}
}

// Push wraps screen in a page with its own swipe coordinator and puts it on
// top. The page beneath stays hidden until a swipe reveals it.
func (s *ScreenStack) Push(screen Screen, opts ...gesture.Option) (*Page, error) {
	p := &Page{Screen: screen, visible: true}
	c, err := gesture.New(pageNavigator{s, p}, pageSurface{s, p}, opts...)
	if err != nil {
		return nil, err
	}
	p.swipe = c
	if top := s.Top(); top != nil {
		top.visible = false
	}
	s.items = append(s.items, p)
	return p, nil
}

// Pop removes the top page. A swipe in progress on it is torn down first so
// the page beneath returns to rest.
func (s *ScreenStack) Pop() *Page {
	top := s.Top()
	if top == nil {
		return nil
	}
	top.swipe.Teardown()
	s.remove(top)
	return top
}

func (s *ScreenStack) remove(p *Page) {
	i := s.index(p)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	p.gone = true
	if top := s.Top(); top != nil {
		top.offsetX = 0
		top.visible = true
	}
}

func (s *ScreenStack) index(p *Page) int {
	for i, item := range s.items {
		if item == p {
			return i
		}
	}
	return -1
}

// below returns the page directly beneath p, or nil.
func (s *ScreenStack) below(p *Page) *Page {
	if i := s.index(p); i > 0 {
		return s.items[i-1]
	}
	return nil
}

func (s *ScreenStack) Top() *Page {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *ScreenStack) Len() int       { return len(s.items) }
func (s *ScreenStack) Pages() []*Page { return s.items }

// Resize sets the surface size shared by every page.
func (s *ScreenStack) Resize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.redraw = true
}

// takeRedraw reports and clears a pending redraw request.
func (s *ScreenStack) takeRedraw() bool {
	r := s.redraw
	s.redraw = false
	return r
}

// takeCompleted returns the pages whose swipe finished since the last call.
func (s *ScreenStack) takeCompleted() []*Page {
	done := s.completed
	s.completed = nil
	return done
}

type pageNavigator struct {
	s *ScreenStack
	p *Page
}

func (n pageNavigator) CompleteNavigation() { n.s.completed = append(n.s.completed, n.p) }
func (n pageNavigator) IsTopOfStack() bool  { return n.s.Top() == n.p }
func (n pageNavigator) StackDepth() int     { return n.s.Len() }

type pageSurface struct {
	s *ScreenStack
	p *Page
}

func (v pageSurface) RequestRedraw() { v.s.redraw = true }

func (v pageSurface) Size() (float64, float64) {
	return float64(v.s.width), float64(v.s.height)
}

func (v pageSurface) Underlay() gesture.Layer {
	if below := v.s.below(v.p); below != nil {
		return below
	}
	return nil
}
