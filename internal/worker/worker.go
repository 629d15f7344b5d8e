// Package worker runs a single conversion job end to end: probe the input's
// duration, launch ffmpeg, turn its status lines into progress deltas, and
// resolve the job to exactly one outcome.
package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/muxbatch/internal/ffmpeg"
	"github.com/backmassage/muxbatch/internal/job"
	"github.com/backmassage/muxbatch/internal/progress"
	"github.com/backmassage/muxbatch/internal/report"
)

// Failure reasons recorded on job outcomes. The underlying error is appended
// by job.Failed.
const (
	ReasonCancelled = "cancelled"
	ReasonProbe     = "duration probe failed"
	ReasonOutputDir = "cannot create output directory"
	ReasonSpawn     = "could not start ffmpeg"
	ReasonTranscode = "transcode failed"
)

// Prober reports the total duration of an input in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Logger is the debug hook used to trace command lines.
type Logger interface {
	Debug(bool, string, ...interface{})
}

// Worker holds the collaborators shared by every job of a batch. A single
// Worker may run many jobs concurrently; it keeps no per-job state.
type Worker struct {
	Prober Prober
	Runner ffmpeg.Runner
	Sink   report.Sink

	// FFmpeg is the transcoder executable; empty means "ffmpeg" on PATH.
	FFmpeg string
	// Timeout bounds a single ffmpeg run. Zero disables it.
	Timeout time.Duration

	Log     Logger
	Verbose bool
}

// Run executes job index to completion and returns its outcome. The sink
// receives zero or more positive Progress deltas, which sum to 100 on
// success, followed by exactly one Finished call.
func (w *Worker) Run(ctx context.Context, index int, d job.Descriptor) job.Outcome {
	o := w.run(ctx, index, d)
	w.sink().Finished(index, o)
	return o
}

func (w *Worker) run(ctx context.Context, index int, d job.Descriptor) job.Outcome {
	started := time.Now()
	sink := w.sink()

	if err := ctx.Err(); err != nil {
		return job.Failed(index, d, started, ReasonCancelled, err)
	}

	// --- Probing ---
	total, err := w.Prober.Duration(ctx, d.InputPath())
	if err != nil {
		return job.Failed(index, d, started, ReasonProbe, err)
	}
	tracker, err := progress.NewTracker(total)
	if err != nil {
		return job.Failed(index, d, started, ReasonProbe, &job.ProbeError{Path: d.InputPath(), Err: err})
	}

	if err := os.MkdirAll(filepath.Dir(d.OutputPath()), 0o755); err != nil {
		return job.Failed(index, d, started, ReasonOutputDir, err)
	}

	// --- Running ---
	args := ffmpeg.Build(w.FFmpeg, d)
	w.debug("[%d] %s", index+1, strings.Join(args, " "))

	runCtx := ctx
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	onLine := func(line string) {
		elapsed, ok := progress.ParseLine(line)
		if !ok {
			return
		}
		if _, delta := tracker.Update(elapsed); delta > 0 {
			sink.Progress(index, delta)
		}
	}

	// A file already at the output path is only removed if this run
	// rewrote it.
	before, _ := os.Stat(d.OutputPath())

	if err := w.Runner.Run(runCtx, args, onLine); err != nil {
		var se *job.SpawnError
		if errors.As(err, &se) {
			return job.Failed(index, d, started, ReasonSpawn, err)
		}
		w.removePartial(d.OutputPath(), before)
		return job.Failed(index, d, started, ReasonTranscode, err)
	}

	// --- Succeeded ---
	if delta := tracker.Finish(); delta > 0 {
		sink.Progress(index, delta)
	}
	return job.Succeeded(index, d, started)
}

func (w *Worker) sink() report.Sink {
	if w.Sink == nil {
		return report.Nop{}
	}
	return w.Sink
}

func (w *Worker) debug(format string, args ...interface{}) {
	if w.Log != nil {
		w.Log.Debug(w.Verbose, format, args...)
	}
}

// removePartial deletes whatever ffmpeg wrote before failing. before is the
// output's state ahead of the run, nil if it did not exist; an output that
// is unchanged since then was never opened by ffmpeg and is kept.
func (w *Worker) removePartial(path string, before os.FileInfo) {
	after, err := os.Stat(path)
	if err != nil {
		return
	}
	if before != nil && after.Size() == before.Size() && after.ModTime().Equal(before.ModTime()) {
		w.debug("keep existing output %s: not written by this run", path)
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.debug("remove partial output %s: %v", path, err)
	}
}
