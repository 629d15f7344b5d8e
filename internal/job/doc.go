// Package job defines the value types that flow through a conversion batch:
// the immutable job descriptor, the terminal per-job outcome, and the error
// taxonomy shared by the worker and the batch orchestrator.
package job
