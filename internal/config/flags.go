package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into encoding, scheduling, display, and utility.
// Negated flags (e.g. --no-color) are applied after Parse so earlier layers hold unless set.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlags applies the file, environment and flag layers to cfg from args
// (without the program name). On --help or --version it prints to stdout and
// returns flag.ErrHelp. On error it returns non-nil (e.g. unknown flag, bad
// config file).
func ParseFlags(cfg *Config, args []string, version string) error {
	// The config file sits below the flags, so it is loaded before flags are
	// defined with the file's values as their defaults.
	if path := findConfigArg(args); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return err
		}
	}
	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return err
	}

	fs := flag.NewFlagSet("muxbatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var negated negatedFlags

	defineEncodingFlags(fs, cfg)
	defineSchedulingFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printUsage(os.Stdout, version)
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(os.Stdout, version)
		return flag.ErrHelp
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "muxbatch v"+version)
		return flag.ErrHelp
	}

	for _, a := range fs.Args() {
		cfg.Inputs = append(cfg.Inputs, NormalizeDirArg(a))
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	}
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (noColor -> ColorNever) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
	configPath  string
}

// defineEncodingFlags registers the per-job encode options. Each has a long
// name and the matching ffmpeg spelling (-c:v, -b:a, ...).
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config) {
	o := &cfg.Encode
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Output directory")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output-dir")

	stringFlag(fs, &o.VideoCodec, "Video codec", "video-codec", "c:v")
	stringFlag(fs, &o.AudioCodec, "Audio codec", "audio-codec", "c:a")
	stringFlag(fs, &o.Resolution, "Output resolution WxH", "resolution", "s")
	stringFlag(fs, &o.HWAccel, "Hardware accelerator", "hwaccel")
	intFlag(fs, &o.SampleRate, "Audio sample rate (Hz)", "sample-rate", "ar")
	intFlag(fs, &o.Channels, "Audio channels", "channels", "ac")
	stringFlag(fs, &o.AudioBitrate, "Audio bitrate", "audio-bitrate", "b:a")
	stringFlag(fs, &o.FrameRate, "Frame rate", "frame-rate", "r")
	stringFlag(fs, &o.Format, "Output format (also the file extension)", "format", "f")
	stringFlag(fs, &o.Preset, "Encoder preset", "preset", "p")
	stringFlag(fs, &o.VideoBitrate, "Video bitrate", "video-bitrate", "b:v")
}

// defineSchedulingFlags registers concurrency, timeout, executables and overwrite policy.
func defineSchedulingFlags(fs *flag.FlagSet, cfg *Config) {
	intFlag(fs, &cfg.MaxConcurrentJobs, "Max concurrent jobs (0 = all at once)", "jobs", "j")
	fs.DurationVar(&cfg.JobTimeout, "timeout", cfg.JobTimeout, "Per-job timeout (0 = none)")
	fs.BoolVar(&cfg.SkipExisting, "skip-existing", cfg.SkipExisting, "Skip inputs whose output already exists")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg executable")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "ffprobe executable")
}

// defineDisplayFlags registers --progress, --color, --no-color, verbose, --log, --listen.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.Var(&progressModeValue{&cfg.Progress}, "progress", "Progress display: auto | bar | log")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "Serve /metrics, /healthz and /batch on this address")
}

// defineUtilityFlags registers --config, --check, the query modes, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	// Already consumed by findConfigArg; registered so Parse accepts it.
	fs.StringVar(&n.configPath, "config", "", "YAML config file")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.Var(&queryValue{cfg: cfg, mode: QueryCodecs}, "codecs", "List codecs, or show one encoder's options with --codecs=<name>")
	fs.Var(&queryValue{cfg: cfg, mode: QueryFormats}, "formats", "List container formats")
	fs.Var(&queryValue{cfg: cfg, mode: QueryHWAccels}, "hwaccels", "List hardware accelerators")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

func stringFlag(fs *flag.FlagSet, p *string, usage string, names ...string) {
	for _, name := range names {
		fs.StringVar(p, name, *p, usage)
	}
}

func intFlag(fs *flag.FlagSet, p *int, usage string, names ...string) {
	for _, name := range names {
		fs.IntVar(p, name, *p, usage)
	}
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// findConfigArg returns the value of --config / -config in args, if any.
// Scanning stops at "--".
func findConfigArg(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return ""
		}
		if !strings.HasPrefix(a, "-") {
			continue
		}
		name := strings.TrimLeft(a, "-")
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "muxbatch v" + version + ", batch media conversion with ffmpeg"},
		{"", ""},
		{"  muxbatch [OPTIONS] <file|dir>...", ""},
		{"", ""},
		{"Encoding (each also accepts the ffmpeg spelling)", ""},
		{"  -o, --output-dir <dir>", "Output directory (default: next to input)"},
		{"  --video-codec, -c:v <name>", "Video codec"},
		{"  --audio-codec, -c:a <name>", "Audio codec"},
		{"  --resolution, -s <WxH>", "Output resolution (× accepted)"},
		{"  --hwaccel <name>", "Hardware accelerator for decoding"},
		{"  --sample-rate, -ar <hz>", "Audio sample rate"},
		{"  --channels, -ac <n>", "Audio channels"},
		{"  --audio-bitrate, -b:a <rate>", "Audio bitrate (e.g. 192k)"},
		{"  --frame-rate, -r <rate>", "Frame rate"},
		{"  --format, -f <name>", "Output format; sets the file extension"},
		{"  --preset, -p <name>", "Encoder preset"},
		{"  --video-bitrate, -b:v <rate>", "Video bitrate (e.g. 5M)"},
		{"", ""},
		{"Scheduling", ""},
		{"  -j, --jobs <n>", "Max concurrent jobs (default: 0, all at once)"},
		{"  --timeout <duration>", "Per-job timeout, e.g. 30m (default: none)"},
		{"  --skip-existing", "Skip inputs whose output already exists"},
		{"  --ffmpeg <path>", "ffmpeg executable (env MUXBATCH_FFMPEG)"},
		{"  --ffprobe <path>", "ffprobe executable (env MUXBATCH_FFPROBE)"},
		{"", ""},
		{"Display", ""},
		{"  --progress <auto|bar|log>", "Progress display (default: auto)"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --listen <addr>", "Serve /metrics, /healthz and /batch"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "YAML config file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, hwaccels)"},
		{"  --codecs[=<encoder>]", "List codecs, or one encoder's options"},
		{"  --formats", "List container formats"},
		{"  --hwaccels", "List hardware accelerators"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types with flag.Var.

type progressModeValue struct{ p *ProgressMode }

func (v *progressModeValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *progressModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*v.p = ProgressAuto
	case "bar":
		*v.p = ProgressBar
	case "log":
		*v.p = ProgressLog
	default:
		return fmt.Errorf("invalid progress mode %q (use 'auto', 'bar' or 'log')", s)
	}
	return nil
}

// queryValue is a boolean-style flag that optionally takes a value:
// "--codecs" selects the mode, "--codecs=aac" also names an encoder.
type queryValue struct {
	cfg  *Config
	mode QueryMode
}

func (v *queryValue) IsBoolFlag() bool { return true }

func (v *queryValue) String() string { return "" }

func (v *queryValue) Set(s string) error {
	if v.cfg.Query != QueryNone && v.cfg.Query != v.mode {
		return fmt.Errorf("--%s cannot be combined with --%s", v.mode, v.cfg.Query)
	}
	v.cfg.Query = v.mode
	switch strings.ToLower(s) {
	case "true", "":
		return nil
	case "false":
		v.cfg.Query = QueryNone
		return nil
	}
	if v.mode != QueryCodecs {
		return fmt.Errorf("--%s takes no value", v.mode)
	}
	v.cfg.QueryEncoder = s
	return nil
}
