package repository

import (
	"context"
	"database/sql"

	"github.com/jask/swipeback/internal/database"
)

// SessionRepo handles the swipe session journal.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const insertSession = `
	INSERT INTO swipe_sessions(
		id, edge, target, outcome, release_percent, release_velocity,
		peak_percent, duration_ms, started_at, ended_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		outcome=excluded.outcome,
		release_percent=excluded.release_percent,
		release_velocity=excluded.release_velocity,
		peak_percent=excluded.peak_percent,
		duration_ms=excluded.duration_ms,
		ended_at=excluded.ended_at;
	`

func sessionArgs(s Session) []any {
	return []any{
		s.ID, s.Edge, s.Target, string(s.Outcome), s.ReleasePercent, s.ReleaseVelocity,
		s.PeakPercent, s.DurationMS, s.StartedAt.UTC(), s.EndedAt.UTC(),
	}
}

// InsertBatch writes all sessions in one transaction.
func (r *SessionRepo) InsertBatch(ctx context.Context, sessions []Session) error {
	if len(sessions) == 0 {
		return nil
	}
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertSession)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, s := range sessions {
			if _, err := stmt.ExecContext(ctx, sessionArgs(s)...); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the newest sessions first. limit <= 0 returns all of them.
func (r *SessionRepo) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, edge, target, outcome, release_percent, release_velocity,
	       peak_percent, duration_ms, started_at, ended_at
	FROM swipe_sessions
	ORDER BY started_at DESC, id
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var s Session
		var outcome string
		if err := rows.Scan(&s.ID, &s.Edge, &s.Target, &outcome, &s.ReleasePercent, &s.ReleaseVelocity,
			&s.PeakPercent, &s.DurationMS, &s.StartedAt, &s.EndedAt); err != nil {
			return nil, err
		}
		s.Outcome = Outcome(outcome)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Stats aggregates the journal per edge and outcome.
func (r *SessionRepo) Stats(ctx context.Context) ([]OutcomeStats, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT edge, outcome, COUNT(*), AVG(release_percent), AVG(duration_ms), MAX(ABS(release_velocity))
	FROM swipe_sessions
	GROUP BY edge, outcome
	ORDER BY edge, outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OutcomeStats
	for rows.Next() {
		var st OutcomeStats
		var outcome string
		if err := rows.Scan(&st.Edge, &outcome, &st.Count, &st.AvgReleasePercent, &st.AvgDurationMS, &st.MaxReleaseVelocity); err != nil {
			return nil, err
		}
		st.Outcome = Outcome(outcome)
		out = append(out, st)
	}
	return out, rows.Err()
}

// Prune keeps the newest keep sessions, deletes the rest and reports how
// many were removed.
func (r *SessionRepo) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM swipe_sessions
	WHERE id NOT IN (SELECT id FROM swipe_sessions ORDER BY started_at DESC, id LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
