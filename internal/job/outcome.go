package job

import "time"

// Status is the terminal state of a job.
type Status int

const (
	StatusSucceeded Status = iota + 1
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is created exactly once per job when its worker terminates and is
// never modified afterwards. Reason is empty for succeeded jobs; Err holds
// the typed error behind a failure (see errors.go).
type Outcome struct {
	Index      int
	InputPath  string
	OutputPath string
	Status     Status
	Reason     string
	Err        error
	Started    time.Time
	Finished   time.Time
}

// Succeeded builds the outcome for a job whose process exited with status 0.
func Succeeded(index int, d Descriptor, started time.Time) Outcome {
	return Outcome{
		Index:      index,
		InputPath:  d.InputPath(),
		OutputPath: d.OutputPath(),
		Status:     StatusSucceeded,
		Started:    started,
		Finished:   time.Now(),
	}
}

// Failed builds the outcome for a job that could not complete. reason is the
// short human-readable label; err carries the details.
func Failed(index int, d Descriptor, started time.Time, reason string, err error) Outcome {
	if err != nil {
		reason = reason + ": " + err.Error()
	}
	return Outcome{
		Index:      index,
		InputPath:  d.InputPath(),
		OutputPath: d.OutputPath(),
		Status:     StatusFailed,
		Reason:     reason,
		Err:        err,
		Started:    started,
		Finished:   time.Now(),
	}
}

// OK reports whether the job succeeded.
func (o Outcome) OK() bool { return o.Status == StatusSucceeded }

// Elapsed returns the wall time the job took.
func (o Outcome) Elapsed() time.Duration {
	if o.Started.IsZero() || o.Finished.IsZero() {
		return 0
	}
	return o.Finished.Sub(o.Started)
}
