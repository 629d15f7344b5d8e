package report

import "github.com/backmassage/muxbatch/internal/job"

// Sink consumes progress events. Implementations must be safe for
// concurrent use.
type Sink interface {
	// Progress reports that job index advanced by delta percentage points.
	// delta is always positive.
	Progress(index, delta int)
	// Finished reports the job's terminal outcome. It is called exactly once
	// per job, after its last Progress call.
	Finished(index int, outcome job.Outcome)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Progress(int, int)          {}
func (Nop) Finished(int, job.Outcome) {}

// Multi forwards each event to every sink, in order.
type Multi []Sink

// NewMulti drops nil sinks and returns the rest as a Multi.
func NewMulti(sinks ...Sink) Multi {
	m := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m Multi) Progress(index, delta int) {
	for _, s := range m {
		s.Progress(index, delta)
	}
}

func (m Multi) Finished(index int, outcome job.Outcome) {
	for _, s := range m {
		s.Finished(index, outcome)
	}
}
