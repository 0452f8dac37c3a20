package gesture

// Target is what a captured session would pop: a nested screen or the root
// of the host itself. It is resolved once per capture.
type Target interface {
	dragRange(cfg Config) int
	String() string
}

// ScreenTarget is a screen above the bottom of the stack.
type ScreenTarget struct {
	Depth int
}

func (ScreenTarget) dragRange(Config) int { return 1 }
func (ScreenTarget) String() string       { return "screen" }

// RootTarget is the bottom screen; popping it closes the host.
type RootTarget struct{}

func (RootTarget) dragRange(cfg Config) int {
	if cfg.RootSwipe {
		return 1
	}
	return 0
}

func (RootTarget) String() string { return "root" }

func resolveTarget(nav Navigator) Target {
	if depth := nav.StackDepth(); depth > 1 {
		return ScreenTarget{Depth: depth}
	}
	return RootTarget{}
}
