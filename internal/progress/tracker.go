package progress

import (
	"errors"
	"math"
)

// ErrInvalidDuration is returned by [NewTracker] for a non-positive total.
var ErrInvalidDuration = errors.New("total duration must be positive")

// Tracker converts elapsed seconds into a percent in [0,100] that never
// decreases across calls.
type Tracker struct {
	total   float64
	elapsed float64
	percent int
}

// NewTracker returns a Tracker for a job of the given total duration.
func NewTracker(totalSeconds float64) (*Tracker, error) {
	if !(totalSeconds > 0) || math.IsInf(totalSeconds, 0) {
		return nil, ErrInvalidDuration
	}
	return &Tracker{total: totalSeconds}, nil
}

// Percent computes ceil(min(elapsed/total, 1) * 100).
func Percent(elapsed, total float64) int {
	if total <= 0 || elapsed <= 0 {
		return 0
	}
	if elapsed >= total {
		return 100
	}
	return int(math.Ceil(elapsed * 100 / total))
}

// Update records a newly parsed elapsed value and returns the percent to
// report along with the increase since the previous report. A regression in
// elapsed time yields the previous percent and a zero delta.
func (t *Tracker) Update(elapsed float64) (percent, delta int) {
	if elapsed < 0 {
		elapsed = 0
	}
	t.elapsed = elapsed
	p := Percent(elapsed, t.total)
	if p < t.percent {
		p = t.percent
	}
	delta = p - t.percent
	t.percent = p
	return p, delta
}

// Finish forces the percent to 100 and returns the remaining delta. Called
// once the process has exited successfully.
func (t *Tracker) Finish() (delta int) {
	delta = 100 - t.percent
	t.percent = 100
	return delta
}

// Percent returns the last reported percent.
func (t *Tracker) Percent() int { return t.percent }

// Elapsed returns the last elapsed value passed to Update.
func (t *Tracker) Elapsed() float64 { return t.elapsed }

// Total returns the job's total duration in seconds.
func (t *Tracker) Total() float64 { return t.total }
