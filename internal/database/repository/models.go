package repository

import "time"

// Outcome is how a swipe session ended.
type Outcome string

const (
	// OutcomeCompleted means the screen was swiped away.
	OutcomeCompleted Outcome = "completed"
	// OutcomeCancelled means the screen sprang back to rest.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeAborted means the screen went away mid-session.
	OutcomeAborted Outcome = "aborted"
)

// Session represents a swipe_sessions row.
type Session struct {
	ID              string    `json:"id" yaml:"id"`
	Edge            string    `json:"edge" yaml:"edge"`
	Target          string    `json:"target" yaml:"target"`
	Outcome         Outcome   `json:"outcome" yaml:"outcome"`
	ReleasePercent  float64   `json:"release_percent" yaml:"release_percent"`
	ReleaseVelocity float64   `json:"release_velocity" yaml:"release_velocity"`
	PeakPercent     float64   `json:"peak_percent" yaml:"peak_percent"`
	DurationMS      int64     `json:"duration_ms" yaml:"duration_ms"`
	StartedAt       time.Time `json:"started_at" yaml:"started_at"`
	EndedAt         time.Time `json:"ended_at" yaml:"ended_at"`
}

// OutcomeStats aggregates sessions per edge and outcome.
type OutcomeStats struct {
	Edge               string  `json:"edge" yaml:"edge"`
	Outcome            Outcome `json:"outcome" yaml:"outcome"`
	Count              int     `json:"count" yaml:"count"`
	AvgReleasePercent  float64 `json:"avg_release_percent" yaml:"avg_release_percent"`
	AvgDurationMS      float64 `json:"avg_duration_ms" yaml:"avg_duration_ms"`
	MaxReleaseVelocity float64 `json:"max_release_velocity" yaml:"max_release_velocity"`
}
