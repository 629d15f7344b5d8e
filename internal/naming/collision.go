package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out output paths for one batch so that no two jobs
// write the same file and no job overwrites another job's input. A taken
// path gets a " - dupN" suffix before its extension. Safe for concurrent use.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path -> input that claimed it
	inputs   map[string]bool   // every input of the batch, reserved
	counters map[string]int    // requested path -> next dup number to try
}

// NewCollisionResolver returns a resolver that treats inputs as reserved.
func NewCollisionResolver(inputs ...string) *CollisionResolver {
	cr := &CollisionResolver{
		owners:   make(map[string]string),
		inputs:   make(map[string]bool, len(inputs)),
		counters: make(map[string]int),
	}
	for _, in := range inputs {
		cr.inputs[filepath.Clean(in)] = true
	}
	return cr
}

// Resolve returns the output path input should write. requested is returned
// unchanged when it is free or already claimed by input itself.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	input = filepath.Clean(input)
	requested = filepath.Clean(requested)
	if cr.free(input, requested) {
		cr.owners[requested] = input
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	n := max(cr.counters[requested], 1)
	for ; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
		if cr.free(input, candidate) {
			cr.counters[requested] = n + 1
			cr.owners[candidate] = input
			return candidate
		}
	}
}

func (cr *CollisionResolver) free(input, path string) bool {
	if cr.inputs[path] || path == input {
		return false
	}
	owner, taken := cr.owners[path]
	return !taken || owner == input
}
