package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by [ApplyEnv].
const (
	EnvFFmpeg  = "MUXBATCH_FFMPEG"
	EnvFFprobe = "MUXBATCH_FFPROBE"
	EnvMaxJobs = "MUXBATCH_MAX_JOBS"
)

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values; unknown keys are an error.
//
//	ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
//	max_concurrent_jobs: 4
//	job_timeout: 30m
//	encode:
//	  video_codec: libx264
//	  preset: fast
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

// ApplyEnv overlays MUXBATCH_* environment variables onto cfg. getenv is
// usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvFFmpeg)); v != "" {
		cfg.FFmpegPath = v
	}
	if v := strings.TrimSpace(getenv(EnvFFprobe)); v != "" {
		cfg.FFprobePath = v
	}
	if v := strings.TrimSpace(getenv(EnvMaxJobs)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative whole number (got %q)", EnvMaxJobs, v)
		}
		cfg.MaxConcurrentJobs = n
	}
	return nil
}
