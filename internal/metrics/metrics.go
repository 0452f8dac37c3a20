// Package metrics exports swipe gesture counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
)

// Collector owns a private registry so tests and multiple hosts never share
// series.
type Collector struct {
	reg      *prometheus.Registry
	touches  *prometheus.CounterVec
	sessions *prometheus.CounterVec
	release  *prometheus.HistogramVec
	active   prometheus.Gauge
}

func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		touches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swipeback_edge_touches_total",
				Help: "Edge captures that started a drag",
			},
			[]string{"edge"},
		),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swipeback_sessions_total",
				Help: "Swipe sessions by edge and outcome",
			},
			[]string{"edge", "outcome"},
		),
		release: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swipeback_release_percent",
				Help:    "Scroll percent at pointer release",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"edge"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swipeback_active_drags",
			Help: "Sessions currently dragging or settling",
		}),
	}
	c.reg.MustRegister(c.touches, c.sessions, c.release, c.active)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Attach registers a listener on g. It matches core.PageHook.
func (c *Collector) Attach(g *gesture.Coordinator) {
	g.AddListener(&listener{c: c, src: g})
}

type percentSource interface {
	ScrollPercent() float64
}

type listener struct {
	c    *Collector
	src  percentSource
	edge string
	last drag.State
	live bool
}

func (l *listener) OnEdgeTouch(e drag.Edge) {
	l.edge = e.String()
	l.c.touches.WithLabelValues(l.edge).Inc()
}

func (l *listener) OnDragScrolled(float64) {}

func (l *listener) OnDragStateChange(s drag.State) {
	prev := l.last
	l.last = s
	switch s {
	case drag.StateDragging:
		if !l.live {
			l.live = true
			l.c.active.Inc()
		}
	case drag.StateSettling:
		l.c.release.WithLabelValues(l.edge).Observe(l.src.ScrollPercent())
	case drag.StateFinished:
		l.end("completed")
	case drag.StateIdle:
		if prev == drag.StateDragging {
			l.end("aborted")
			return
		}
		l.end("cancelled")
	}
}

func (l *listener) end(outcome string) {
	if !l.live {
		return
	}
	l.live = false
	l.c.active.Dec()
	l.c.sessions.WithLabelValues(l.edge, outcome).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("metrics server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
