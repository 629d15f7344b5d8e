package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/muxbatch/internal/job"
)

// Validate checks every job before anything is launched and reports all
// problems at once:
//
//   - the batch has at least one job
//   - every job has an input and an output path
//   - every input exists and is a regular file
//   - no job writes over its own input
//   - no two jobs share an output path
func Validate(jobs []job.Descriptor) error {
	if len(jobs) == 0 {
		return &job.ValidationError{Problems: []string{"no jobs"}}
	}

	var problems []string
	outputs := make(map[string]int, len(jobs))

	for i, d := range jobs {
		n := i + 1
		in, out := d.InputPath(), d.OutputPath()

		if in == "" {
			problems = append(problems, fmt.Sprintf("job %d: missing input path", n))
		} else if fi, err := os.Stat(in); err != nil {
			problems = append(problems, fmt.Sprintf("job %d: input %s: %v", n, in, unwrapPathError(err)))
		} else if !fi.Mode().IsRegular() {
			problems = append(problems, fmt.Sprintf("job %d: input %s is not a regular file", n, in))
		}

		if out == "" {
			problems = append(problems, fmt.Sprintf("job %d: missing output path", n))
			continue
		}

		key := canonical(out)
		if in != "" && canonical(in) == key {
			problems = append(problems, fmt.Sprintf("job %d: output path equals input path %s", n, in))
		}
		if prev, dup := outputs[key]; dup {
			problems = append(problems, fmt.Sprintf("job %d: output %s already used by job %d", n, out, prev))
		} else {
			outputs[key] = n
		}
	}

	if len(problems) > 0 {
		return &job.ValidationError{Problems: problems}
	}
	return nil
}

// canonical returns an absolute, cleaned form of path for comparison.
func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// unwrapPathError drops the *PathError prefix, which would repeat the path.
func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}
