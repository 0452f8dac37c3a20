package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "absent.toml")).Load()
	require.NoError(t, err)
	require.Equal(t, "left", cfg.Gesture.Edges)
	require.Equal(t, gesture.DefaultScrollThreshold, cfg.Gesture.ScrollThreshold)
	require.True(t, cfg.Gesture.Enabled)
	require.Equal(t, drag.DefaultFPS, cfg.Spring.FPS)
	require.True(t, cfg.Journal.Enabled)
	require.NotEmpty(t, cfg.Journal.Path)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
[gesture]
edges = "all"
edge_level = "med"
scroll_threshold = 0.55
root_swipe = true

[keys]
push = ["o"]
`)
	t.Setenv("SWIPEBACK_GESTURE_SWIPE_ALPHA", "0.8")
	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Equal(t, drag.EdgeAll, cfg.Gesture.EdgeMask())
	require.Equal(t, 0.55, cfg.Gesture.ScrollThreshold)
	require.Equal(t, 0.8, cfg.Gesture.SwipeAlpha)
	require.True(t, cfg.Gesture.RootSwipe)
	require.Equal(t, []string{"o"}, cfg.Keys["push"])

	sizing := cfg.Gesture.Sizing()
	require.NotNil(t, sizing)
	require.Equal(t, gesture.EdgeLevelMed, sizing.Level)

	gc := cfg.Gesture.Coordinator()
	require.Equal(t, drag.EdgeAll, gc.EdgeMask)
	require.Equal(t, 0.55, gc.ScrollThreshold)
	require.True(t, gc.RootSwipe)
}

func TestLoadRejectsBrokenToml(t *testing.T) {
	path := writeConfig(t, "[gesture\nedges = ")
	_, err := NewLoader(path).Load()
	require.ErrorContains(t, err, "read config")
}

func TestValidateReportsEverythingWithSuggestions(t *testing.T) {
	path := writeConfig(t, `
[gesture]
edges = "lfet"
edge_level = "maxx"
scroll_threshold = 1.0
swipe_alpha = 1.5

[spring]
fps = 0

[keys]
pusj = ["o"]
`)
	_, err := NewLoader(path).Load()
	require.Error(t, err)
	require.ErrorIs(t, err, gesture.ErrInvalidThreshold)
	msg := err.Error()
	require.Contains(t, msg, `gesture.edges: unknown value "lfet" (did you mean "left"?)`)
	require.Contains(t, msg, `gesture.edge_level: unknown value "maxx" (did you mean "max"?)`)
	require.Contains(t, msg, "gesture.swipe_alpha")
	require.Contains(t, msg, "spring.fps")
	require.Contains(t, msg, `keys.pusj: unknown action (did you mean "push"?)`)
}

func TestSuggestSkipsDistantValues(t *testing.T) {
	require.Empty(t, suggest("diagonal", []string{"left", "right", "all"}))
	require.Empty(t, suggest("", []string{"left"}))
	require.Equal(t, ` (did you mean "right"?)`, suggest("RIGTH", []string{"left", "right", "all"}))
}

func TestFixedEdgeHasNoSizing(t *testing.T) {
	require.Nil(t, GestureConfig{}.Sizing())
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "absent.toml")).Load()
	require.NoError(t, err)
	cfg.Gesture.Edges = "right"
	cfg.Gesture.ScrollThreshold = 0.3
	cfg.Metrics.Enabled = true

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, Save(cfg, path))
	got, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Equal(t, cfg.Gesture, got.Gesture)
	require.True(t, got.Metrics.Enabled)
}

func TestWatchReportsRewrites(t *testing.T) {
	path := writeConfig(t, "[gesture]\nscroll_threshold = 0.4\n")
	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen []float64
		errs []error
	)
	l.Watch(func(c Config, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		seen = append(seen, c.Gesture.ScrollThreshold)
	})

	require.NoError(t, os.WriteFile(path, []byte("[gesture]\nscroll_threshold = 0.7\n"), 0o644))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == 0.7
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("[gesture]\nscroll_threshold = 2\n"), 0o644))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, err := range errs {
			if errors.Is(err, gesture.ErrInvalidThreshold) {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}
