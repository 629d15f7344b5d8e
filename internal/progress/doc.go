// Package progress turns ffmpeg status output into bounded, monotonic
// completion percentages.
//
// [ParseLine] is a pure function over one line of output. [Tracker] holds
// the per-job state: total duration, last elapsed value and the last
// reported percent. A Tracker belongs to exactly one worker and is not safe
// for concurrent use.
package progress
