// Package probe asks ffprobe for the total duration of a media file.
//
// The duration is the denominator of every progress percentage, so a job
// cannot start its transcoder without it. [Prober.Duration] makes one
// ffprobe call and never retries; any failure is returned as a
// *job.ProbeError so the worker can fail the job immediately.
package probe
