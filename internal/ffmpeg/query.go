package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Query keys used by the cache. Encoder help is keyed "codecs:<name>".
const (
	KeyCodecs   = "codecs"
	KeyFormats  = "formats"
	KeyHWAccels = "hwaccels"
)

// execFunc runs a command and returns its stdout.
type execFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Query runs the read-only introspection commands and caches their raw text
// by query key. The cache lives as long as the Query; call [Query.Invalidate]
// after swapping the ffmpeg binary. Safe for concurrent use.
type Query struct {
	executable string
	exec       execFunc

	mu    sync.Mutex
	cache map[string]string
}

// NewQuery returns a Query for the given ffmpeg executable.
func NewQuery(executable string) *Query {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &Query{
		executable: executable,
		exec:       runOutput,
		cache:      make(map[string]string),
	}
}

// Codecs returns the output of "ffmpeg -codecs", or of
// "ffmpeg -h encoder=<name>" when encoder is non-empty.
func (q *Query) Codecs(ctx context.Context, encoder string) (string, error) {
	encoder = strings.TrimSpace(encoder)
	if encoder != "" {
		return q.run(ctx, KeyCodecs+":"+encoder, "-hide_banner", "-h", "encoder="+encoder)
	}
	return q.run(ctx, KeyCodecs, "-hide_banner", "-codecs")
}

// Formats returns the output of "ffmpeg -formats".
func (q *Query) Formats(ctx context.Context) (string, error) {
	return q.run(ctx, KeyFormats, "-hide_banner", "-formats")
}

// HWAccels returns the output of "ffmpeg -hwaccels".
func (q *Query) HWAccels(ctx context.Context) (string, error) {
	return q.run(ctx, KeyHWAccels, "-hide_banner", "-hwaccels")
}

// Invalidate drops every cached result.
func (q *Query) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cache = make(map[string]string)
}

// Cached reports whether key currently has a cached result.
func (q *Query) Cached(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.cache[key]
	return ok
}

func (q *Query) run(ctx context.Context, key string, args ...string) (string, error) {
	q.mu.Lock()
	if out, ok := q.cache[key]; ok {
		q.mu.Unlock()
		return out, nil
	}
	q.mu.Unlock()

	out, err := q.exec(ctx, q.executable, args...)
	if err != nil {
		return "", fmt.Errorf("ffmpeg %s: %w", strings.Join(args, " "), err)
	}

	text := string(out)
	q.mu.Lock()
	q.cache[key] = text
	q.mu.Unlock()
	return text, nil
}

func runOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
