package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/jask/swipeback/core"
	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
)

// Config holds application configuration.
type Config struct {
	Gesture GestureConfig       `mapstructure:"gesture"`
	Spring  SpringConfig        `mapstructure:"spring"`
	Journal JournalConfig       `mapstructure:"journal"`
	Metrics MetricsConfig       `mapstructure:"metrics"`
	Log     LogConfig           `mapstructure:"log"`
	Keys    map[string][]string `mapstructure:"keys"`
}

// GestureConfig holds swipe tuning. Distances are terminal cells.
type GestureConfig struct {
	Edges            string  `mapstructure:"edges"`
	EdgeLevel        string  `mapstructure:"edge_level"`
	EdgeSize         float64 `mapstructure:"edge_size"`
	Density          float64 `mapstructure:"density"`
	ScrollThreshold  float64 `mapstructure:"scroll_threshold"`
	ParallaxOffset   float64 `mapstructure:"parallax_offset"`
	SwipeAlpha       float64 `mapstructure:"swipe_alpha"`
	ShadowWidth      int     `mapstructure:"shadow_width"`
	Enabled          bool    `mapstructure:"enabled"`
	RootSwipe        bool    `mapstructure:"root_swipe"`
	TouchSlop        float64 `mapstructure:"touch_slop"`
	MinFlingVelocity float64 `mapstructure:"min_fling_velocity"`
}

// SpringConfig tunes the settle animation.
type SpringConfig struct {
	FPS       int     `mapstructure:"fps"`
	Frequency float64 `mapstructure:"frequency"`
	Damping   float64 `mapstructure:"damping"`
}

// JournalConfig holds the sqlite session journal settings.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Path returns the config file location: $SWIPEBACK_CONFIG, or
// ~/.config/swipeback/config.toml.
func Path() string {
	if p := os.Getenv("SWIPEBACK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "swipeback", "config.toml")
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "swipeback")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gesture.edges", "left")
	v.SetDefault("gesture.edge_level", "")
	v.SetDefault("gesture.edge_size", 3)
	v.SetDefault("gesture.density", 0.15)
	v.SetDefault("gesture.scroll_threshold", gesture.DefaultScrollThreshold)
	v.SetDefault("gesture.parallax_offset", gesture.DefaultParallaxOffset)
	v.SetDefault("gesture.swipe_alpha", gesture.DefaultSwipeAlpha)
	v.SetDefault("gesture.shadow_width", 2)
	v.SetDefault("gesture.enabled", true)
	v.SetDefault("gesture.root_swipe", false)
	v.SetDefault("gesture.touch_slop", 1)
	v.SetDefault("gesture.min_fling_velocity", 40)
	v.SetDefault("spring.fps", drag.DefaultFPS)
	v.SetDefault("spring.frequency", drag.DefaultFrequency)
	v.SetDefault("spring.damping", drag.DefaultDamping)
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", filepath.Join(dataDir(), "journal.db"))
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9464")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(dataDir(), "swipeback.log"))
}

// Loader reads one config file. Env var overrides use prefix SWIPEBACK_,
// e.g. SWIPEBACK_GESTURE_SCROLL_THRESHOLD.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader reads from path, or from Path() when path is empty.
func NewLoader(path string) *Loader {
	if path == "" {
		path = Path()
	}
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("SWIPEBACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v, path: path}
}

func (l *Loader) Path() string { return l.path }

// Load reads the file if present and validates the result. A missing file
// yields the defaults.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil && !missing(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Watch calls fn every time the config file is written. fn runs on the
// watcher goroutine. The file must exist when Watch is called.
func (l *Loader) Watch(fn func(Config, error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		fn(l.decode())
	})
	l.v.WatchConfig()
}

func missing(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// Load reads configuration from Path() and env.
func Load() (Config, error) {
	return NewLoader("").Load()
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("gesture.edges", cfg.Gesture.Edges)
	v.Set("gesture.edge_level", cfg.Gesture.EdgeLevel)
	v.Set("gesture.edge_size", cfg.Gesture.EdgeSize)
	v.Set("gesture.density", cfg.Gesture.Density)
	v.Set("gesture.scroll_threshold", cfg.Gesture.ScrollThreshold)
	v.Set("gesture.parallax_offset", cfg.Gesture.ParallaxOffset)
	v.Set("gesture.swipe_alpha", cfg.Gesture.SwipeAlpha)
	v.Set("gesture.shadow_width", cfg.Gesture.ShadowWidth)
	v.Set("gesture.enabled", cfg.Gesture.Enabled)
	v.Set("gesture.root_swipe", cfg.Gesture.RootSwipe)
	v.Set("gesture.touch_slop", cfg.Gesture.TouchSlop)
	v.Set("gesture.min_fling_velocity", cfg.Gesture.MinFlingVelocity)
	v.Set("spring.fps", cfg.Spring.FPS)
	v.Set("spring.frequency", cfg.Spring.Frequency)
	v.Set("spring.damping", cfg.Spring.Damping)
	v.Set("journal.enabled", cfg.Journal.Enabled)
	v.Set("journal.path", cfg.Journal.Path)
	v.Set("metrics.enabled", cfg.Metrics.Enabled)
	v.Set("metrics.addr", cfg.Metrics.Addr)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	if len(cfg.Keys) > 0 {
		v.Set("keys", cfg.Keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EdgeMask converts the edges setting. Validate rejects unknown values.
func (g GestureConfig) EdgeMask() drag.Edge {
	return edgeNames[strings.ToLower(g.Edges)]
}

// Sizing returns the edge sizing preset, or nil for a fixed edge size.
func (g GestureConfig) Sizing() *core.EdgeSizing {
	level, ok := edgeLevels[strings.ToLower(g.EdgeLevel)]
	if !ok {
		return nil
	}
	return &core.EdgeSizing{Level: level, Density: g.Density}
}

// Coordinator returns the per-page gesture configuration. Shadows are
// supplied separately as assets.
func (g GestureConfig) Coordinator() gesture.Config {
	return gesture.Config{
		EdgeMask:         g.EdgeMask(),
		EdgeSize:         g.EdgeSize,
		ScrollThreshold:  g.ScrollThreshold,
		ParallaxOffset:   g.ParallaxOffset,
		SwipeAlpha:       g.SwipeAlpha,
		Enabled:          g.Enabled,
		RootSwipe:        g.RootSwipe,
		TouchSlop:        g.TouchSlop,
		MinFlingVelocity: g.MinFlingVelocity,
	}
}
