// Package config holds runtime configuration: defaults, YAML file and
// environment overrides, CLI flag parsing, and validation.
//
// Precedence, lowest first: [DefaultConfig], the --config YAML file, MUXBATCH_*
// environment variables, command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/backmassage/muxbatch/internal/job"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ProgressMode selects how per-job progress is shown.
type ProgressMode string

const (
	ProgressAuto ProgressMode = "auto" // Bars on a TTY, log lines otherwise (default).
	ProgressBar  ProgressMode = "bar"  // Always draw progress bars.
	ProgressLog  ProgressMode = "log"  // Log lines at 25% milestones.
)

// QueryMode selects a read-only ffmpeg introspection query instead of a
// batch run.
type QueryMode string

const (
	QueryNone     QueryMode = ""
	QueryCodecs   QueryMode = "codecs"
	QueryFormats  QueryMode = "formats"
	QueryHWAccels QueryMode = "hwaccels"
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// [LoadFile], [ApplyEnv] and [ParseFlags], in that order, before being passed
// (by pointer) to the packages that need it. yaml tags name the keys
// accepted in the config file.
type Config struct {
	// Inputs are files or directories from the positional args.
	Inputs    []string `yaml:"-"`
	OutputDir string   `yaml:"output_dir"`

	// Executables.
	FFmpegPath  string `yaml:"ffmpeg_path"`  // Default: "ffmpeg" on PATH.
	FFprobePath string `yaml:"ffprobe_path"` // Default: "ffprobe" on PATH.

	// Encode options applied to every job.
	Encode job.Options `yaml:"encode"`

	// Scheduling.
	MaxConcurrentJobs int           `yaml:"max_concurrent_jobs"` // Default: 0 (one process per job).
	JobTimeout        time.Duration `yaml:"job_timeout"`         // Default: 0 (none).
	SkipExisting      bool          `yaml:"skip_existing"`       // Default: false; ffmpeg always gets -y.

	// Display and logging.
	Progress  ProgressMode `yaml:"progress"` // Default: "auto".
	ColorMode ColorMode    `yaml:"color"`    // Default: "auto".
	Verbose   bool         `yaml:"verbose"`
	LogFile   string       `yaml:"log_file"`

	// Status listener (/metrics, /healthz, /batch). Empty disables it.
	Listen string `yaml:"listen"`

	// Modes that replace the batch run.
	CheckOnly    bool      `yaml:"-"`
	Query        QueryMode `yaml:"-"`
	QueryEncoder string    `yaml:"-"` // With QueryCodecs: show help for this encoder.

	// ConfigFile is the --config path, if any.
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// the file, environment and flag layers are applied.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:        "ffmpeg",
		FFprobePath:       "ffprobe",
		MaxConcurrentJobs: 0,
		JobTimeout:        0,
		SkipExisting:      false,
		Progress:          ProgressAuto,
		ColorMode:         ColorAuto,
	}
}

// Validate checks enum fields and numeric ranges. Outside of --check and
// query modes it also requires at least one input.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	switch c.Progress {
	case ProgressAuto, ProgressBar, ProgressLog:
		// valid
	default:
		return errors.New("invalid progress mode (use 'auto', 'bar' or 'log')")
	}

	if c.MaxConcurrentJobs < 0 {
		return fmt.Errorf("max concurrent jobs must be >= 0 (got %d)", c.MaxConcurrentJobs)
	}
	if c.JobTimeout < 0 {
		return fmt.Errorf("job timeout must be >= 0 (got %s)", c.JobTimeout)
	}
	if c.Encode.SampleRate < 0 || c.Encode.Channels < 0 {
		return errors.New("sample rate and channels must be positive")
	}
	if strings.TrimSpace(c.FFmpegPath) == "" || strings.TrimSpace(c.FFprobePath) == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}

	if c.CheckOnly || c.Query != QueryNone {
		return nil
	}
	if len(c.Inputs) == 0 {
		return errors.New("need at least one input file or directory")
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
