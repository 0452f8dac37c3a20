package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/swipeback/core"
	"github.com/jask/swipeback/core/gesture"
	"github.com/jask/swipeback/core/widgets"
	"github.com/jask/swipeback/internal/config"
	"github.com/jask/swipeback/internal/database"
	"github.com/jask/swipeback/internal/database/repository"
	"github.com/jask/swipeback/internal/journal"
	"github.com/jask/swipeback/internal/logging"
	"github.com/jask/swipeback/internal/metrics"
	"github.com/jask/swipeback/screens"
)

func newDemoCmd() *cobra.Command {
	var cards int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Open a stack of demo screens to swipe through",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, cards)
		},
	}
	cmd.Flags().IntVar(&cards, "cards", 40, "cards per screen")
	return cmd
}

func runDemo(cmd *cobra.Command, cards int) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loader := loaderFor(cmd)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log, logFile, err := logging.NewFile(cfg.Log.Path, level)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.Info("demo starting", "config", loader.Path(), "cards", cards)

	opts := []core.Option{
		core.WithLogger(log),
		core.WithGesture(cfg.Gesture.Coordinator(),
			gesture.WithLogger(log),
			gesture.WithShadowAssets(widgets.Shade{Cols: cfg.Gesture.ShadowWidth}, widgets.Shade{Cols: cfg.Gesture.ShadowWidth}),
			gesture.WithSpring(cfg.Spring.FPS, cfg.Spring.Frequency, cfg.Spring.Damping),
		),
		core.WithScreenFactory(screens.DeckFactory(cards)),
	}
	if sizing := cfg.Gesture.Sizing(); sizing != nil {
		opts = append(opts, core.WithEdgeSizing(*sizing))
	}

	var buf *journal.Buffer
	if cfg.Journal.Enabled {
		if err := database.RunMigrations(cfg.Journal.Path); err != nil {
			return fmt.Errorf("migrate journal: %w", err)
		}
		db, err := database.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer db.Close()
		buf = journal.NewBuffer(repository.NewSessionRepo(db), log)
		opts = append(opts, core.WithPageHook(buf.Attach), core.WithFlusher(buf))
	}

	if cfg.Metrics.Enabled {
		collector := metrics.New()
		opts = append(opts, core.WithPageHook(collector.Attach))
		go func() {
			if err := collector.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Error("metrics server stopped", "error", err)
			}
		}()
	}

	keys := core.NewKeyRegistry(core.ApplyActionKeybindings(core.DefaultKeyBindings(), cfg.Keys))
	model, err := core.NewModel(screens.NewDeckScreen(1, cards), keys, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := os.Stat(loader.Path()); err == nil {
		loader.Watch(func(next config.Config, err error) {
			p.Send(reloadMsg(next, err, log))
		})
	} else {
		log.Info("no config file, hot reload off", "path", loader.Path())
	}

	_, runErr := p.Run()
	if buf != nil {
		flushCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := buf.Flush(flushCtx); err != nil {
			log.Error("final journal flush failed", "error", err)
		}
	}
	log.Info("demo finished")
	return runErr
}

func reloadMsg(cfg config.Config, err error, log *slog.Logger) core.ConfigReloadedMsg {
	if err != nil {
		log.Warn("config reload rejected", "error", err)
		return core.ConfigReloadedMsg{Err: err}
	}
	log.Info("config reloaded", "edges", cfg.Gesture.Edges, "threshold", cfg.Gesture.ScrollThreshold)
	return core.ConfigReloadedMsg{Gesture: cfg.Gesture.Coordinator(), Sizing: cfg.Gesture.Sizing()}
}
