// Command muxbatch runs a batch of ffmpeg conversions concurrently and
// reports each job's progress.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check), prints an ffmpeg listing (--codecs, --formats,
// --hwaccels), or converts every input file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/muxbatch/internal/batch"
	"github.com/backmassage/muxbatch/internal/check"
	"github.com/backmassage/muxbatch/internal/config"
	"github.com/backmassage/muxbatch/internal/display"
	"github.com/backmassage/muxbatch/internal/ffmpeg"
	"github.com/backmassage/muxbatch/internal/job"
	"github.com/backmassage/muxbatch/internal/logging"
	"github.com/backmassage/muxbatch/internal/metrics"
	"github.com/backmassage/muxbatch/internal/probe"
	"github.com/backmassage/muxbatch/internal/report"
	"github.com/backmassage/muxbatch/internal/term"
	"github.com/backmassage/muxbatch/internal/worker"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "muxbatch: %v\n", err)
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "muxbatch: %v\n", err)
		return 2
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "muxbatch: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Signal handling. SIGINT/SIGTERM cancel the context; running
	// ffmpeg processes are killed and their partial outputs removed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping running jobs…")
			cancel()
		case <-ctx.Done():
		}
	}()

	q := ffmpeg.NewQuery(cfg.FFmpegPath)

	// Phase 3: Modes that replace the batch run.
	if cfg.CheckOnly {
		display.PrintBanner(os.Stdout)
		if !check.RunCheck(ctx, &cfg, q, log) {
			return 1
		}
		return 0
	}
	if cfg.Query != config.QueryNone {
		return runQuery(ctx, &cfg, q, log)
	}

	display.PrintBanner(os.Stdout)
	log.Info("=== muxbatch v%s (%s) ===", version, commit)

	// Fail fast if ffmpeg/ffprobe or the chosen encoders are unavailable.
	if err := check.CheckDeps(ctx, &cfg, q); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 4: Build the job list.
	jobs, err := buildJobs(&cfg, log)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if len(jobs) == 0 {
		log.Warn("Nothing to do")
		return 0
	}

	// Phase 5: Run the batch.
	res, err := runBatch(ctx, &cfg, jobs, log)
	if err != nil {
		var verr *job.ValidationError
		if errors.As(err, &verr) {
			log.Error("Batch rejected:")
			for _, p := range verr.Problems {
				log.Error("  %s", p)
			}
			return 2
		}
		log.Error("%v", err)
		return 1
	}

	batch.LogSummary(log, res)
	if len(res.Failed()) > 0 {
		return 1
	}
	return 0
}

// runBatch wires the reporting sinks, the optional status listener and the
// worker, then runs every job.
func runBatch(ctx context.Context, cfg *config.Config, jobs []job.Descriptor, log *logging.Logger) (*batch.Result, error) {
	id := batch.NewID()
	board := report.NewBoard(id, jobs)
	ms := metrics.NewSink()
	sinks := []report.Sink{board, ms}

	if cfg.Listen != "" {
		srv, err := metrics.Listen(cfg.Listen, metrics.NewRouter(board))
		if err != nil {
			return nil, fmt.Errorf("status listener: %w", err)
		}
		log.Info("Status listener on http://%s (/metrics, /healthz, /batch)", srv.Addr())

		srvCtx, stop := context.WithCancel(context.Background())
		served := make(chan struct{})
		go func() {
			defer close(served)
			if err := srv.Serve(srvCtx); err != nil {
				log.Warn("Status listener: %v", err)
			}
		}()
		defer func() {
			stop()
			<-served
		}()
	}

	var tui *report.TUI
	if useBars(cfg) {
		tui = report.NewTUI("muxbatch "+id[:8], jobs, os.Stdout)
		sinks = append(sinks, tui)
	} else {
		sinks = append(sinks, report.NewLogSink(log, jobs, cfg.Verbose))
	}

	w := &worker.Worker{
		Prober:  probe.New(cfg.FFprobePath),
		Runner:  ffmpeg.ExecRunner{},
		Sink:    report.NewMulti(sinks...),
		FFmpeg:  cfg.FFmpegPath,
		Timeout: cfg.JobTimeout,
		Log:     log,
		Verbose: cfg.Verbose,
	}

	// Bars own the terminal while they are drawn; log lines go to the file
	// only. Nothing is drawn or counted for a batch that fails validation.
	restore := func() {}
	orch := &batch.Orchestrator{
		Runner:        w,
		ID:            id,
		MaxConcurrent: cfg.MaxConcurrentJobs,
		OnStart: func(_ string, n int) {
			ms.BatchStarted(n)
			if tui != nil {
				restore = log.MuteConsole()
				tui.Start()
			}
		},
		Log:     log,
		Verbose: cfg.Verbose,
	}

	res, err := orch.Run(ctx, jobs)
	if tui != nil && err == nil {
		if cerr := tui.Close(); cerr != nil {
			log.Debug(cfg.Verbose, "progress display: %v", cerr)
		}
	}
	restore()
	return res, err
}

func useBars(cfg *config.Config) bool {
	switch cfg.Progress {
	case config.ProgressBar:
		return true
	case config.ProgressLog:
		return false
	default:
		return term.Interactive()
	}
}
