// Package metrics exposes batch progress as Prometheus metrics and serves
// them, together with a health check and a JSON snapshot of the running
// batch, over HTTP.
//
// All collectors are registered on the default registry via promauto at
// package init. [Sink] feeds them from worker events; [NewRouter] builds the
// HTTP handler for the --listen address.
//
// Exposed metrics:
//
//	muxbatch_batches_total                      counter
//	muxbatch_batch_jobs                         gauge
//	muxbatch_jobs_running                       gauge
//	muxbatch_jobs_finished_total{status}        counter
//	muxbatch_job_failures_total{kind}           counter
//	muxbatch_job_duration_seconds{status}       histogram
//	muxbatch_progress_points_total              counter
//	muxbatch_http_requests_total{method,path,status} counter
package metrics
