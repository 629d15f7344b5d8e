package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/backmassage/muxbatch/internal/job"
)

// DefaultExecutable is used when a Prober is built with an empty path.
const DefaultExecutable = "ffprobe"

// ErrNoDuration is wrapped by ProbeError when ffprobe ran but printed no
// usable duration.
var ErrNoDuration = errors.New("no duration reported")

// Prober runs ffprobe. The zero value uses [DefaultExecutable].
type Prober struct {
	Executable string
}

// New returns a Prober for the given ffprobe executable.
func New(executable string) *Prober {
	return &Prober{Executable: executable}
}

// Args returns the ffprobe argument vector (without the executable) used to
// query the container duration of path.
func Args(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// Duration returns the container duration of path in seconds. The input is
// checked for readability first so a missing file fails without spawning
// ffprobe.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &job.ProbeError{Path: path, Err: err}
	}
	f.Close()

	exe := p.Executable
	if exe == "" {
		exe = DefaultExecutable
	}

	cmd := exec.CommandContext(ctx, exe, Args(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, firstLine(msg))
		}
		return 0, &job.ProbeError{Path: path, Err: err}
	}

	d, err := ParseDuration(out)
	if err != nil {
		return 0, &job.ProbeError{Path: path, Err: err}
	}
	return d, nil
}

// ParseDuration parses ffprobe's bare duration output ("1437.123000\n").
// Exported for testing without a real ffprobe binary.
func ParseDuration(out []byte) (float64, error) {
	s := strings.TrimSpace(string(out))
	// Some containers report one value per program; the first line is the
	// format-level duration.
	s = firstLine(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, ErrNoDuration
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if !(d > 0) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: got %q", ErrNoDuration, s)
	}
	return d, nil
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
