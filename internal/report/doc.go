// Package report receives per-job progress deltas and outcomes from the
// workers and presents them.
//
// A [Sink] is called concurrently from every worker goroutine; events for
// one job arrive in order, events across jobs interleave arbitrarily. The
// implementations here are:
//
//   - [LogSink]: leveled log lines at 25% milestones and on completion.
//   - [Board]: an in-memory table of per-job state, read by the HTTP status
//     endpoint.
//   - [TUI]: a bubbletea program drawing one progress bar per job.
//   - [Multi]: fans events out to several sinks.
package report
