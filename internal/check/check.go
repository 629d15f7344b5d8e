// Package check provides system diagnostics (--check mode) and pre-batch
// dependency validation (CheckDeps) for ffmpeg, ffprobe, the configured
// encoders and the hardware accelerator.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/backmassage/muxbatch/internal/config"
	"github.com/backmassage/muxbatch/internal/display"
	"github.com/backmassage/muxbatch/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound     = errors.New("ffmpeg not found")
	ErrFfprobeNotFound    = errors.New("ffprobe not found")
	ErrHWAccelUnavailable = errors.New("hardware accelerator not supported by this ffmpeg")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the --check flow: prints availability of ffmpeg and ffprobe,
// the hardware accelerators ffmpeg was built with, and a short test encode
// for each configured codec. Returns false if any check failed.
func RunCheck(ctx context.Context, cfg *config.Config, q *ffmpeg.Query, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkVersion(ctx, cfg.FFmpegPath, "ffmpeg", log)
	ok = checkVersion(ctx, cfg.FFprobePath, "ffprobe", log) && ok
	if !ok {
		return false
	}

	ok = checkHWAccels(ctx, cfg, q, log) && ok
	if c := cfg.Encode.VideoCodec; c != "" && c != "copy" {
		ok = checkEncode(ctx, cfg.FFmpegPath, "video", c, videoTestArgs(c), log) && ok
	}
	if c := cfg.Encode.AudioCodec; c != "" && c != "copy" {
		ok = checkEncode(ctx, cfg.FFmpegPath, "audio", c, audioTestArgs(c), log) && ok
	}
	return ok
}

// checkVersion verifies the executable resolves and logs its version string.
func checkVersion(ctx context.Context, exe, name string, log Logger) bool {
	if _, err := exec.LookPath(exe); err != nil {
		log.Error("%s not found (%s)", name, exe)
		return false
	}
	out, err := exec.CommandContext(ctx, exe, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}

// checkHWAccels lists the accelerators and verifies the configured one.
func checkHWAccels(ctx context.Context, cfg *config.Config, q *ffmpeg.Query, log Logger) bool {
	raw, err := q.HWAccels(ctx)
	if err != nil {
		log.Warn("Could not list hardware accelerators: %v", err)
		return cfg.Encode.HWAccel == ""
	}
	names := display.ParseHWAccels(raw)
	if len(names) == 0 {
		log.Info("Hardware accelerators: none")
	} else {
		log.Info("Hardware accelerators: %s", strings.Join(names, ", "))
	}
	if hw := cfg.Encode.HWAccel; hw != "" && hw != "auto" && !slices.Contains(names, hw) {
		log.Error("Configured hwaccel %q is not available", hw)
		return false
	}
	return true
}

// checkEncode runs a minimal synthetic encode with codec.
func checkEncode(ctx context.Context, exe, kind, codec string, args []string, log Logger) bool {
	log.Info("Testing %s encoder %s...", kind, codec)
	if runSilent(ctx, exe, args...) {
		log.Success("%s encoder %s works", kind, codec)
		return true
	}
	log.Error("%s encoder %s test encode failed", kind, codec)
	return false
}

// CheckDeps is the pre-batch validation: it verifies that ffmpeg and ffprobe
// resolve and, when a hardware accelerator is configured, that ffmpeg
// supports it. Returns a sentinel error on failure.
func CheckDeps(ctx context.Context, cfg *config.Config, q *ffmpeg.Query) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegPath)
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, cfg.FFprobePath)
	}

	hw := cfg.Encode.HWAccel
	if hw == "" || hw == "auto" {
		return nil
	}
	raw, err := q.HWAccels(ctx)
	if err != nil {
		return fmt.Errorf("list hwaccels: %w", err)
	}
	if !slices.Contains(display.ParseHWAccels(raw), hw) {
		return fmt.Errorf("%w: %s", ErrHWAccelUnavailable, hw)
	}
	return nil
}

// --- internal helpers ---

// videoTestArgs returns the ffmpeg arguments for a minimal video test encode.
func videoTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

// audioTestArgs returns the ffmpeg arguments for a minimal audio test encode.
func audioTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", codec,
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
