package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/swipeback/core"
	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
	"github.com/jask/swipeback/internal/logging"
)

var edgeNames = map[string]drag.Edge{
	"left":  drag.EdgeLeft,
	"right": drag.EdgeRight,
	"all":   drag.EdgeAll,
}

var edgeLevels = map[string]gesture.EdgeLevel{
	"min": gesture.EdgeLevelMin,
	"med": gesture.EdgeLevelMed,
	"max": gesture.EdgeLevelMax,
}

// Validate checks every setting and reports all problems at once.
func Validate(c Config) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	g := c.Gesture
	if _, ok := edgeNames[strings.ToLower(g.Edges)]; !ok {
		add("gesture.edges: unknown value %q%s", g.Edges, suggest(g.Edges, keys(edgeNames)))
	}
	if _, ok := edgeLevels[strings.ToLower(g.EdgeLevel)]; g.EdgeLevel != "" && !ok {
		add("gesture.edge_level: unknown value %q%s", g.EdgeLevel, suggest(g.EdgeLevel, keys(edgeLevels)))
	}
	if err := gesture.ValidateThreshold(g.ScrollThreshold); err != nil {
		add("gesture.scroll_threshold: %w", err)
	}
	if g.SwipeAlpha < 0 || g.SwipeAlpha > 1 {
		add("gesture.swipe_alpha: %v is outside [0,1]", g.SwipeAlpha)
	}
	for name, v := range map[string]float64{
		"gesture.edge_size":          g.EdgeSize,
		"gesture.parallax_offset":    g.ParallaxOffset,
		"gesture.touch_slop":         g.TouchSlop,
		"gesture.min_fling_velocity": g.MinFlingVelocity,
		"gesture.shadow_width":       float64(g.ShadowWidth),
		"spring.damping":             c.Spring.Damping,
	} {
		if v < 0 {
			add("%s: must not be negative, got %v", name, v)
		}
	}
	if c.Spring.FPS <= 0 {
		add("spring.fps: must be positive, got %d", c.Spring.FPS)
	}
	if c.Spring.Frequency <= 0 {
		add("spring.frequency: must be positive, got %v", c.Spring.Frequency)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %w", err)
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		add("journal.path: required when the journal is enabled")
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		add("metrics.addr: required when metrics are enabled")
	}

	actions := knownActions()
	for action := range c.Keys {
		if !slices.Contains(actions, action) {
			add("keys.%s: unknown action%s", action, suggest(action, actions))
		}
	}
	slices.SortFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return errors.Join(errs...)
}

func knownActions() []string {
	var out []string
	for _, b := range core.DefaultKeyBindings() {
		if !slices.Contains(out, b.Action) {
			out = append(out, b.Action)
		}
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// suggest returns a "did you mean" hint for the closest option, or "" when
// nothing is close.
func suggest(got string, options []string) string {
	got = strings.ToLower(strings.TrimSpace(got))
	if got == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, o := range options {
		d := levenshtein.ComputeDistance(got, o)
		if bestDist < 0 || d < bestDist {
			best, bestDist = o, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(got)/3) {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
