package batch

import (
	"path/filepath"

	"github.com/backmassage/muxbatch/internal/display"
)

// SummaryLogger is what LogSummary writes to.
type SummaryLogger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// LogSummary prints the end-of-batch report: counts, failed jobs with their
// reasons, and the size change across succeeded jobs.
func LogSummary(log SummaryLogger, res *Result) {
	s := res.Stats
	log.Info("==============================")
	log.Info("Batch %s done in %s: %d succeeded, %d failed", res.ID, display.FormatDuration(s.Wall), s.Succeeded, s.Failed)

	if failed := res.Failed(); len(failed) > 0 {
		log.Error("Failed jobs:")
		for _, o := range failed {
			log.Error("  [%d] %s: %s", o.Index+1, filepath.Base(o.InputPath), o.Reason)
		}
	}

	if s.Succeeded == 0 {
		return
	}
	saved := s.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(s.TotalInputBytes),
			display.FormatBytes(s.TotalOutputBytes))
	} else {
		log.Warn("  Total size change: %s (overall output is larger)",
			display.FormatBytesWithSign(-saved))
	}
}
