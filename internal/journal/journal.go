// Package journal records every swipe session so gesture tuning can be
// reviewed after the fact. A Recorder listens to one coordinator; all
// recorders share a Buffer that is flushed to a Store off the UI goroutine.
package journal

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
	"github.com/jask/swipeback/internal/database/repository"
)

// Store persists finished sessions.
type Store interface {
	InsertBatch(ctx context.Context, sessions []repository.Session) error
}

// Source is the coordinator a Recorder observes.
type Source interface {
	Session() drag.Session
	ScrollPercent() float64
	Target() gesture.Target
}

// Buffer collects sessions until Flush. It is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	pending []repository.Session
	store   Store
	log     *slog.Logger
}

func NewBuffer(store Store, log *slog.Logger) *Buffer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Buffer{store: store, log: log}
}

func (b *Buffer) Add(s repository.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, s)
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush writes the pending sessions. On failure they are kept for the next
// attempt.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}
	if err := b.store.InsertBatch(ctx, batch); err != nil {
		b.mu.Lock()
		b.pending = append(batch, b.pending...)
		b.mu.Unlock()
		b.log.Warn("journal flush failed", "sessions", len(batch), "error", err)
		return err
	}
	b.log.Debug("journal flushed", "sessions", len(batch))
	return nil
}

// Attach registers a recorder on c. It matches core.PageHook.
func (b *Buffer) Attach(c *gesture.Coordinator) {
	c.AddListener(NewRecorder(c, b))
}

// Recorder turns the listener callbacks of one coordinator into session
// records.
type Recorder struct {
	src Source
	buf *Buffer
	now func() time.Time

	active bool
	last   drag.State
	rec    repository.Session
}

func NewRecorder(src Source, buf *Buffer) *Recorder {
	return &Recorder{src: src, buf: buf, now: time.Now}
}

func (r *Recorder) OnEdgeTouch(e drag.Edge) {
	r.active = true
	r.rec = repository.Session{Edge: e.String()}
}

func (r *Recorder) OnDragScrolled(p float64) {
	r.rec.PeakPercent = max(r.rec.PeakPercent, p)
}

func (r *Recorder) OnDragStateChange(s drag.State) {
	prev := r.last
	r.last = s
	if !r.active {
		return
	}
	switch s {
	case drag.StateDragging:
		sess := r.src.Session()
		r.rec.ID = sess.ID
		r.rec.StartedAt = sess.Start
		if t := r.src.Target(); t != nil {
			r.rec.Target = t.String()
		}
	case drag.StateSettling:
		r.rec.ReleasePercent = r.src.ScrollPercent()
		r.rec.ReleaseVelocity = r.src.Session().Velocity
	case drag.StateFinished:
		r.finish(repository.OutcomeCompleted)
	case drag.StateIdle:
		// Idle straight from Dragging means the screen went away mid-drag.
		if prev == drag.StateDragging {
			r.rec.ReleasePercent = r.src.ScrollPercent()
			r.finish(repository.OutcomeAborted)
			return
		}
		r.finish(repository.OutcomeCancelled)
	}
}

func (r *Recorder) finish(o repository.Outcome) {
	r.active = false
	r.rec.Outcome = o
	r.rec.EndedAt = r.now()
	if r.rec.StartedAt.IsZero() {
		r.rec.StartedAt = r.rec.EndedAt
	}
	r.rec.DurationMS = r.rec.EndedAt.Sub(r.rec.StartedAt).Milliseconds()
	r.buf.Add(r.rec)
}
