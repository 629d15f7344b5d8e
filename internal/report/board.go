package report

import (
	"path/filepath"
	"sync"

	"github.com/backmassage/muxbatch/internal/job"
)

// Job states as reported by [Board.Snapshot].
const (
	StatePending   = "pending"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// JobState is one row of a [Board] snapshot.
type JobState struct {
	Index   int    `json:"index"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	Percent int    `json:"percent"`
	State   string `json:"state"`
	Reason  string `json:"reason,omitempty"`
}

// Board keeps the latest state of every job in a batch. It implements
// [Sink] and is read concurrently through [Board.Snapshot].
type Board struct {
	id string

	mu   sync.RWMutex
	jobs []JobState
}

// NewBoard returns a board with every job pending.
func NewBoard(id string, jobs []job.Descriptor) *Board {
	b := &Board{id: id, jobs: make([]JobState, len(jobs))}
	for i, d := range jobs {
		b.jobs[i] = JobState{
			Index:  i,
			Input:  d.InputPath(),
			Output: d.OutputPath(),
			State:  StatePending,
		}
	}
	return b
}

// ID returns the batch identifier the board was created with.
func (b *Board) ID() string { return b.id }

func (b *Board) Progress(index, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.jobs) {
		return
	}
	js := &b.jobs[index]
	js.Percent = min(js.Percent+delta, 100)
	if js.State == StatePending {
		js.State = StateRunning
	}
}

func (b *Board) Finished(index int, o job.Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.jobs) {
		return
	}
	js := &b.jobs[index]
	if o.OK() {
		js.State = StateSucceeded
		js.Percent = 100
		return
	}
	js.State = StateFailed
	js.Reason = o.Reason
}

// Snapshot returns a copy of every job's state in submission order.
func (b *Board) Snapshot() []JobState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]JobState, len(b.jobs))
	copy(out, b.jobs)
	return out
}

// Done reports how many jobs have reached a terminal state.
func (b *Board) Done() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, js := range b.jobs {
		if js.State == StateSucceeded || js.State == StateFailed {
			n++
		}
	}
	return n
}

// label is the short name shown for a job in logs and bars.
func label(path string) string {
	return filepath.Base(path)
}
