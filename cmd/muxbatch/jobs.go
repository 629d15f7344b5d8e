package main

import (
	"fmt"
	"os"

	"github.com/backmassage/muxbatch/internal/batch"
	"github.com/backmassage/muxbatch/internal/config"
	"github.com/backmassage/muxbatch/internal/job"
	"github.com/backmassage/muxbatch/internal/logging"
	"github.com/backmassage/muxbatch/internal/naming"
)

// buildJobs expands the positional inputs into one descriptor per media
// file. Output names that would collide with another job's output or with
// any input get a " - dupN" suffix. With --skip-existing, jobs whose output
// already exists are dropped.
func buildJobs(cfg *config.Config, log *logging.Logger) ([]job.Descriptor, error) {
	inputs, err := batch.Expand(cfg.Inputs)
	if err != nil {
		return nil, fmt.Errorf("expand inputs: %w", err)
	}
	log.Debug(cfg.Verbose, "%d input file(s) after expansion", len(inputs))

	resolver := naming.NewCollisionResolver(inputs...)
	jobs := make([]job.Descriptor, 0, len(inputs))
	skipped := 0
	for _, in := range inputs {
		out := naming.OutputPath(cfg.OutputDir, in, cfg.Encode.Format)
		out = resolver.Resolve(in, out)

		if cfg.SkipExisting {
			if _, err := os.Stat(out); err == nil {
				log.Debug(cfg.Verbose, "skip %s: %s exists", in, out)
				skipped++
				continue
			}
		}
		jobs = append(jobs, job.New(in, out, cfg.Encode))
	}

	if skipped > 0 {
		log.Info("Skipped %d job(s) with existing output", skipped)
	}
	return jobs, nil
}
