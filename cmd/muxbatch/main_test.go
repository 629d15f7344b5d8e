package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/muxbatch/internal/config"
	"github.com/backmassage/muxbatch/internal/logging"
)

func quietLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.SetOutput(io.Discard, io.Discard)
	t.Cleanup(func() { log.Close() })
	return log
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildJobs(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	touch(t, filepath.Join(in, "a.mkv"))
	touch(t, filepath.Join(in, "sub", "b.avi"))
	touch(t, filepath.Join(in, "notes.txt"))

	cfg := config.DefaultConfig()
	cfg.Inputs = []string{in}
	cfg.OutputDir = out
	cfg.Encode.Format = "mp4"

	jobs, err := buildJobs(&cfg, quietLogger(t, &cfg))
	if err != nil {
		t.Fatalf("buildJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	for _, j := range jobs {
		if filepath.Dir(j.OutputPath()) != out || filepath.Ext(j.OutputPath()) != ".mp4" {
			t.Errorf("output %q not an .mp4 under %s", j.OutputPath(), out)
		}
		if j.Options().Format != "mp4" {
			t.Errorf("options not carried: %+v", j.Options())
		}
	}
}

func TestBuildJobsResolvesCollisions(t *testing.T) {
	in := t.TempDir()
	touch(t, filepath.Join(in, "x", "clip.mkv"))
	touch(t, filepath.Join(in, "y", "clip.mkv"))

	cfg := config.DefaultConfig()
	cfg.Inputs = []string{in}
	cfg.OutputDir = t.TempDir()
	cfg.Encode.Format = "mp4"

	jobs, err := buildJobs(&cfg, quietLogger(t, &cfg))
	if err != nil {
		t.Fatalf("buildJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].OutputPath() == jobs[1].OutputPath() {
		t.Fatalf("both jobs write %s", jobs[0].OutputPath())
	}
	if !strings.Contains(filepath.Base(jobs[1].OutputPath()), "dup") {
		t.Errorf("second output %q has no dup suffix", jobs[1].OutputPath())
	}
}

func TestBuildJobsSkipExisting(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	touch(t, filepath.Join(in, "a.mkv"))
	touch(t, filepath.Join(in, "b.mkv"))
	touch(t, filepath.Join(out, "a.mp4"))

	cfg := config.DefaultConfig()
	cfg.Inputs = []string{in}
	cfg.OutputDir = out
	cfg.Encode.Format = "mp4"
	cfg.SkipExisting = true

	jobs, err := buildJobs(&cfg, quietLogger(t, &cfg))
	if err != nil {
		t.Fatalf("buildJobs: %v", err)
	}
	if len(jobs) != 1 || filepath.Base(jobs[0].InputPath()) != "b.mkv" {
		t.Fatalf("jobs = %v, want only b.mkv", jobs)
	}
}

func TestUseBars(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Progress = config.ProgressBar
	if !useBars(&cfg) {
		t.Error("bar mode should draw bars")
	}
	cfg.Progress = config.ProgressLog
	if useBars(&cfg) {
		t.Error("log mode should not draw bars")
	}
}

func TestRender(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Query = config.QueryFormats

	raw := "not a listing"
	if got := render(&cfg, raw); got != raw {
		t.Errorf("unrecognized listing rendered as %q, want raw text", got)
	}

	cfg.Query = config.QueryHWAccels
	got := render(&cfg, "Hardware acceleration methods:\nvaapi\ncuda\n")
	if !strings.Contains(got, "vaapi") || !strings.Contains(got, "cuda") {
		t.Errorf("hwaccels render missing methods:\n%s", got)
	}
}

func TestBuildJobsInPlace(t *testing.T) {
	in := t.TempDir()
	touch(t, filepath.Join(in, "a.mkv"))

	// No output dir and no format: the natural output is the input.
	cfg := config.DefaultConfig()
	cfg.Inputs = []string{in}

	jobs, err := buildJobs(&cfg, quietLogger(t, &cfg))
	if err != nil {
		t.Fatalf("buildJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	if want := filepath.Join(in, "a - dup1.mkv"); jobs[0].OutputPath() != want {
		t.Errorf("output = %q, want %q", jobs[0].OutputPath(), want)
	}
}
