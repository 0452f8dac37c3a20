package gesture

import "time"

const velocityWindow = 100 * time.Millisecond

type sample struct {
	x, y float64
	at   time.Time
}

// velocityTracker estimates pointer velocity in px/s from the samples of
// the last velocityWindow.
type velocityTracker struct {
	samples []sample
}

func (v *velocityTracker) reset() { v.samples = v.samples[:0] }

func (v *velocityTracker) add(e Event) {
	v.samples = append(v.samples, sample{x: e.X, y: e.Y, at: e.Time})
	cutoff := e.Time.Add(-velocityWindow)
	i := 0
	for i < len(v.samples)-1 && v.samples[i].at.Before(cutoff) {
		i++
	}
	v.samples = v.samples[i:]
}

func (v *velocityTracker) velocity() (vx, vy float64) {
	if len(v.samples) < 2 {
		return 0, 0
	}
	first, last := v.samples[0], v.samples[len(v.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return (last.x - first.x) / dt, (last.y - first.y) / dt
}
