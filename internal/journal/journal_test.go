package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/swipeback/core/drag"
	"github.com/jask/swipeback/core/gesture"
	"github.com/jask/swipeback/internal/database"
	"github.com/jask/swipeback/internal/database/repository"
	"github.com/jask/swipeback/internal/logging"
)

type fakeSource struct {
	session drag.Session
	percent float64
	target  gesture.Target
}

func (s *fakeSource) Session() drag.Session  { return s.session }
func (s *fakeSource) ScrollPercent() float64 { return s.percent }
func (s *fakeSource) Target() gesture.Target { return s.target }

type fakeStore struct {
	batches [][]repository.Session
	err     error
}

func (s *fakeStore) InsertBatch(_ context.Context, sessions []repository.Session) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, sessions)
	return nil
}

var t0 = time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

func newRecorder(src *fakeSource, buf *Buffer, end time.Duration) *Recorder {
	r := NewRecorder(src, buf)
	r.now = func() time.Time { return t0.Add(end) }
	return r
}

func begin(r *Recorder, src *fakeSource, edge drag.Edge) {
	src.session = drag.Session{ID: "s-1", Edge: edge, Start: t0}
	r.OnEdgeTouch(edge)
	r.OnDragStateChange(drag.StateDragging)
}

func TestRecorderCompletedSwipe(t *testing.T) {
	buf := NewBuffer(&fakeStore{}, logging.NewNop())
	src := &fakeSource{target: gesture.ScreenTarget{Depth: 2}}
	r := newRecorder(src, buf, 320*time.Millisecond)

	begin(r, src, drag.EdgeLeft)
	r.OnDragScrolled(0.3)
	r.OnDragScrolled(0.7)
	r.OnDragScrolled(0.5)
	src.percent = 0.5
	src.session.Velocity = 900
	r.OnDragStateChange(drag.StateSettling)
	src.percent = 1.02
	r.OnDragStateChange(drag.StateFinished)

	require.Equal(t, 1, buf.Len())
	got := buf.pending[0]
	require.Equal(t, repository.Session{
		ID:              "s-1",
		Edge:            "left",
		Target:          "screen",
		Outcome:         repository.OutcomeCompleted,
		ReleasePercent:  0.5,
		ReleaseVelocity: 900,
		PeakPercent:     0.7,
		DurationMS:      320,
		StartedAt:       t0,
		EndedAt:         t0.Add(320 * time.Millisecond),
	}, got)
}

func TestRecorderSpringBackIsCancelled(t *testing.T) {
	buf := NewBuffer(&fakeStore{}, nil)
	src := &fakeSource{target: gesture.RootTarget{}}
	r := newRecorder(src, buf, time.Second)

	begin(r, src, drag.EdgeRight)
	src.percent = 0.1
	r.OnDragStateChange(drag.StateSettling)
	r.OnDragStateChange(drag.StateIdle)

	require.Equal(t, 1, buf.Len())
	got := buf.pending[0]
	require.Equal(t, repository.OutcomeCancelled, got.Outcome)
	require.Equal(t, "right", got.Edge)
	require.Equal(t, "root", got.Target)
	require.InDelta(t, 0.1, got.ReleasePercent, 1e-9)
}

func TestRecorderTeardownMidDragIsAborted(t *testing.T) {
	buf := NewBuffer(&fakeStore{}, nil)
	src := &fakeSource{target: gesture.ScreenTarget{Depth: 3}}
	r := newRecorder(src, buf, 50*time.Millisecond)

	begin(r, src, drag.EdgeLeft)
	src.percent = 0.25
	r.OnDragStateChange(drag.StateIdle)

	require.Equal(t, 1, buf.Len())
	require.Equal(t, repository.OutcomeAborted, buf.pending[0].Outcome)
	require.InDelta(t, 0.25, buf.pending[0].ReleasePercent, 1e-9)
	require.EqualValues(t, 50, buf.pending[0].DurationMS)
}

func TestRecorderIgnoresStatesWithoutCapture(t *testing.T) {
	buf := NewBuffer(&fakeStore{}, nil)
	src := &fakeSource{}
	r := newRecorder(src, buf, 0)

	r.OnDragStateChange(drag.StateIdle)
	r.OnDragStateChange(drag.StateSettling)
	r.OnDragStateChange(drag.StateIdle)
	require.Zero(t, buf.Len())

	// One record per session, even when Idle follows Finished.
	begin(r, src, drag.EdgeLeft)
	r.OnDragStateChange(drag.StateSettling)
	r.OnDragStateChange(drag.StateFinished)
	r.OnDragStateChange(drag.StateIdle)
	require.Equal(t, 1, buf.Len())
}

func TestBufferFlush(t *testing.T) {
	store := &fakeStore{}
	buf := NewBuffer(store, nil)
	ctx := context.Background()

	require.NoError(t, buf.Flush(ctx))
	require.Empty(t, store.batches)

	buf.Add(repository.Session{ID: "a"})
	buf.Add(repository.Session{ID: "b"})
	require.NoError(t, buf.Flush(ctx))
	require.Len(t, store.batches, 1)
	require.Len(t, store.batches[0], 2)
	require.Zero(t, buf.Len())
}

func TestBufferFlushFailureKeepsSessions(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	buf := NewBuffer(store, nil)
	buf.Add(repository.Session{ID: "a"})

	require.Error(t, buf.Flush(context.Background()))
	buf.Add(repository.Session{ID: "b"})
	require.Equal(t, 2, buf.Len())

	store.err = nil
	require.NoError(t, buf.Flush(context.Background()))
	require.Equal(t, "a", store.batches[0][0].ID)
	require.Equal(t, "b", store.batches[0][1].ID)
}

func TestBufferFlushToSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewSessionRepo(db)
	buf := NewBuffer(repo, nil)
	src := &fakeSource{target: gesture.ScreenTarget{Depth: 2}}
	r := newRecorder(src, buf, 400*time.Millisecond)
	begin(r, src, drag.EdgeLeft)
	src.percent = 0.8
	r.OnDragStateChange(drag.StateSettling)
	r.OnDragStateChange(drag.StateFinished)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, buf.Flush(ctx))

	got, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "s-1", got[0].ID)
	require.Equal(t, repository.OutcomeCompleted, got[0].Outcome)
	require.EqualValues(t, 400, got[0].DurationMS)
}
