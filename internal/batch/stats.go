package batch

import (
	"os"
	"time"

	"github.com/backmassage/muxbatch/internal/job"
)

// Stats tracks aggregate counters and byte totals across a batch run.
// Byte totals cover succeeded jobs only.
type Stats struct {
	Total            int
	Succeeded        int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
	Wall             time.Duration
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *Stats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

func collectStats(outcomes []job.Outcome, wall time.Duration) Stats {
	s := Stats{Total: len(outcomes), Wall: wall}
	for _, o := range outcomes {
		if !o.OK() {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalInputBytes += fileSize(o.InputPath)
		s.TotalOutputBytes += fileSize(o.OutputPath)
	}
	return s
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
