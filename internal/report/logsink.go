package report

import (
	"errors"
	"sync"

	"github.com/backmassage/muxbatch/internal/job"
)

// Logger is the subset of the leveled logger the log sink needs.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// milestone is the step, in percent, at which LogSink reports progress.
const milestone = 25

// LogSink writes progress as log lines: one INFO line each time a job
// crosses a 25% milestone, and a SUCCESS or ERROR line when it finishes.
// With verbose set every delta is also logged at DEBUG.
type LogSink struct {
	log     Logger
	verbose bool
	labels  []string

	mu      sync.Mutex
	percent []int
}

// NewLogSink returns a LogSink for the given batch.
func NewLogSink(log Logger, jobs []job.Descriptor, verbose bool) *LogSink {
	s := &LogSink{
		log:     log,
		verbose: verbose,
		labels:  make([]string, len(jobs)),
		percent: make([]int, len(jobs)),
	}
	for i, d := range jobs {
		s.labels[i] = label(d.InputPath())
	}
	return s
}

func (s *LogSink) Progress(index, delta int) {
	if index < 0 || index >= len(s.labels) {
		return
	}
	s.mu.Lock()
	prev := s.percent[index]
	cur := min(prev+delta, 100)
	s.percent[index] = cur
	s.mu.Unlock()

	s.log.Debug(s.verbose, "[%d/%d] %s +%d%% (%d%%)", index+1, len(s.labels), s.labels[index], delta, cur)
	if cur/milestone > prev/milestone && cur < 100 {
		s.log.Info("[%d/%d] %s %d%%", index+1, len(s.labels), s.labels[index], cur/milestone*milestone)
	}
}

func (s *LogSink) Finished(index int, o job.Outcome) {
	if index < 0 || index >= len(s.labels) {
		return
	}
	n := len(s.labels)
	if o.OK() {
		s.log.Success("[%d/%d] %s -> %s (%ds)", index+1, n, s.labels[index], o.OutputPath, int(o.Elapsed().Seconds()))
		return
	}
	s.log.Error("[%d/%d] %s failed: %s", index+1, n, s.labels[index], o.Reason)

	var ee *job.ExecutionError
	if errors.As(o.Err, &ee) && len(ee.Tail) > 0 {
		s.log.Error("Last ffmpeg output:")
		for _, l := range ee.Tail {
			s.log.Error("  %s", l)
		}
	}
}
