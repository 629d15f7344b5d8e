package metrics

import (
	"context"
	"errors"
	"sync"

	"github.com/backmassage/muxbatch/internal/job"
)

// Failure kinds used as the "kind" label.
const (
	KindProbe     = "probe"
	KindSpawn     = "spawn"
	KindExecution = "execution"
	KindCancelled = "cancelled"
	KindTimeout   = "timeout"
	KindOther     = "other"
)

// Sink is a report.Sink that updates the package collectors.
type Sink struct {
	mu      sync.Mutex
	running map[int]bool
}

// NewSink returns a sink with no jobs running.
func NewSink() *Sink {
	return &Sink{running: make(map[int]bool)}
}

// BatchStarted records a batch of n jobs that passed validation.
func (s *Sink) BatchStarted(n int) {
	BatchesTotal.Inc()
	BatchJobs.Set(float64(n))
}

func (s *Sink) Progress(index, delta int) {
	ProgressPointsTotal.Add(float64(delta))

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running[index] {
		s.running[index] = true
		JobsRunning.Inc()
	}
}

func (s *Sink) Finished(index int, o job.Outcome) {
	s.mu.Lock()
	if s.running[index] {
		delete(s.running, index)
		JobsRunning.Dec()
	}
	s.mu.Unlock()

	status := o.Status.String()
	JobsFinishedTotal.WithLabelValues(status).Inc()
	JobDuration.WithLabelValues(status).Observe(o.Elapsed().Seconds())
	if !o.OK() {
		JobFailuresTotal.WithLabelValues(FailureKind(o.Err)).Inc()
	}
}

// FailureKind maps a job error to a low-cardinality label value.
func FailureKind(err error) string {
	var (
		pe *job.ProbeError
		se *job.SpawnError
		ee *job.ExecutionError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.As(err, &pe):
		return KindProbe
	case errors.As(err, &se):
		return KindSpawn
	case errors.As(err, &ee):
		return KindExecution
	default:
		return KindOther
	}
}
