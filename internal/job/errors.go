package job

import (
	"fmt"
	"strings"
)

// ValidationError rejects a whole batch before any process is started. It
// lists every problem found, not just the first.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid batch: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid batch (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// ProbeError means the input's duration could not be determined. It fails
// only the affected job.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %q: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// SpawnError means the transcoder could not be launched (not found, not
// executable, pipe setup failed).
type SpawnError struct {
	Executable string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExecutionError covers a transcoder that ran but did not succeed: non-zero
// exit, killed by signal or deadline, or an output stream read failure.
// ExitCode is -1 when the process did not report one. Tail holds the last
// lines of merged output for diagnostics.
type ExecutionError struct {
	ExitCode int
	Reason   string
	Tail     []string
	Err      error
}

func (e *ExecutionError) Error() string {
	msg := "ffmpeg failed"
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("ffmpeg exited with status %d", e.ExitCode)
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Err != nil && e.ExitCode < 0 {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }
