package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/backmassage/muxbatch/internal/job"
)

// tailLines is how many trailing output lines are kept for failure reports.
const tailLines = 20

// LineFunc receives each line of merged process output, in order.
type LineFunc func(line string)

// Runner starts a process from an argument vector (executable first),
// streams its combined output to onLine, and blocks until it exits.
//
// Errors are typed: *job.SpawnError when the process could not be started,
// *job.ExecutionError when it ran but did not exit cleanly.
type Runner interface {
	Run(ctx context.Context, args []string, onLine LineFunc) error
}

// ExecRunner is the os/exec backed [Runner].
type ExecRunner struct{}

// Run implements [Runner]. stdout and stderr share one pipe so lines keep
// the order ffmpeg wrote them in. Cancelling ctx kills the process.
func (ExecRunner) Run(ctx context.Context, args []string, onLine LineFunc) error {
	if len(args) == 0 {
		return &job.SpawnError{Err: errors.New("empty command line")}
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	pr, pw, err := os.Pipe()
	if err != nil {
		return &job.SpawnError{Executable: args[0], Err: err}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return &job.SpawnError{Executable: args[0], Err: err}
	}
	// The child holds its own copy; closing ours lets the reader see EOF
	// once the process exits.
	pw.Close()

	tail, readErr := consume(pr, onLine)
	pr.Close()
	waitErr := cmd.Wait()

	return exitError(ctx, waitErr, readErr, tail)
}

// consume scans r line by line until EOF. On a read error the rest of the
// stream is drained so the child cannot block on a full pipe.
func consume(r io.Reader, onLine LineFunc) ([]string, error) {
	tail := make([]string, 0, tailLines)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(ScanLines)
	for sc.Scan() {
		line := sc.Text()
		if len(tail) == tailLines {
			copy(tail, tail[1:])
			tail = tail[:tailLines-1]
		}
		tail = append(tail, line)
		if onLine != nil {
			onLine(line)
		}
	}
	err := sc.Err()
	if err != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	return tail, err
}

// exitError maps the wait and read results to the job error taxonomy.
func exitError(ctx context.Context, waitErr, readErr error, tail []string) error {
	if waitErr == nil && readErr == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		reason := "cancelled"
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			reason = "timed out"
		}
		return &job.ExecutionError{ExitCode: -1, Reason: reason, Tail: tail, Err: ctxErr}
	}

	if waitErr == nil {
		return &job.ExecutionError{ExitCode: -1, Reason: "output read failed", Tail: tail, Err: readErr}
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &job.ExecutionError{
			ExitCode: exitErr.ExitCode(),
			Reason:   Classify(tail),
			Tail:     tail,
			Err:      waitErr,
		}
	}
	return &job.ExecutionError{ExitCode: -1, Reason: Classify(tail), Tail: tail, Err: waitErr}
}

// ScanLines is a bufio.SplitFunc that ends a line at "\n", "\r\n" or a lone
// "\r". ffmpeg redraws its status line with carriage returns, so splitting on
// "\n" alone would deliver all progress updates at once when the process
// exits.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// data[i] == '\r': need one more byte to tell "\r" from "\r\n".
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
