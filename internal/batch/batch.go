// Package batch fans a set of conversion jobs out across concurrent workers
// and collects their outcomes in submission order.
package batch

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/muxbatch/internal/job"
)

// JobRunner runs one job to completion. worker.Worker satisfies it.
type JobRunner interface {
	Run(ctx context.Context, index int, d job.Descriptor) job.Outcome
}

// Logger is the subset of the leveled logger the orchestrator uses.
type Logger interface {
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Result is the aggregate of a finished batch. Outcomes[i] belongs to the
// i-th submitted job.
type Result struct {
	ID       string
	Outcomes []job.Outcome
	Stats    Stats
}

// Failed returns the outcomes that did not succeed, in submission order.
func (r *Result) Failed() []job.Outcome {
	var out []job.Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Orchestrator runs batches. The zero value is not usable; Runner is
// required.
type Orchestrator struct {
	Runner JobRunner

	// ID labels the batch in logs and results. Generated when empty.
	ID string
	// MaxConcurrent caps how many jobs run at once. Zero means one
	// goroutine and one ffmpeg process per job, all at once.
	MaxConcurrent int

	// OnStart, when set, is called once the batch has passed validation
	// and before any job starts.
	OnStart func(id string, jobs int)

	Log     Logger
	Verbose bool
}

// NewID returns a fresh batch identifier.
func NewID() string { return uuid.NewString() }

// Run validates jobs, runs every one of them, and blocks until all have
// finished. A *job.ValidationError is returned, and nothing is started, when
// any job is malformed. Individual job failures never abort the batch; they
// are reported in the result.
func (o *Orchestrator) Run(ctx context.Context, jobs []job.Descriptor) (*Result, error) {
	if err := Validate(jobs); err != nil {
		return nil, err
	}

	id := o.ID
	if id == "" {
		id = NewID()
	}
	start := time.Now()
	o.info("Batch %s: %d job(s), concurrency %s", id, len(jobs), concurrencyLabel(o.MaxConcurrent, len(jobs)))
	if o.OnStart != nil {
		o.OnStart(id, len(jobs))
	}

	outcomes := make([]job.Outcome, len(jobs))
	var sem chan struct{}
	if o.MaxConcurrent > 0 && o.MaxConcurrent < len(jobs) {
		sem = make(chan struct{}, o.MaxConcurrent)
	}

	var wg sync.WaitGroup
	for i, d := range jobs {
		acquired := false
		if sem != nil {
			select {
			case sem <- struct{}{}:
				acquired = true
			case <-ctx.Done():
				// The worker sees the cancelled context and fails the job
				// without starting anything.
			}
		}

		wg.Add(1)
		go func(i int, d job.Descriptor, acquired bool) {
			defer wg.Done()
			if acquired {
				defer func() { <-sem }()
			}
			o.debug("[%d/%d] start %s", i+1, len(jobs), d.InputPath())
			outcomes[i] = o.Runner.Run(ctx, i, d)
		}(i, d, acquired)
	}
	wg.Wait()

	res := &Result{ID: id, Outcomes: outcomes}
	res.Stats = collectStats(outcomes, time.Since(start))
	if ctx.Err() != nil {
		o.warn("Batch %s interrupted", id)
	}
	return res, nil
}

func concurrencyLabel(max, jobs int) string {
	if max <= 0 || max >= jobs {
		return "unbounded"
	}
	return strconv.Itoa(max)
}

func (o *Orchestrator) info(format string, args ...interface{}) {
	if o.Log != nil {
		o.Log.Info(format, args...)
	}
}

func (o *Orchestrator) warn(format string, args ...interface{}) {
	if o.Log != nil {
		o.Log.Warn(format, args...)
	}
}

func (o *Orchestrator) debug(format string, args ...interface{}) {
	if o.Log != nil {
		o.Log.Debug(o.Verbose, format, args...)
	}
}
