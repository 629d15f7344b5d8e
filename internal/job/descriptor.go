package job

import "strings"

// Options holds the optional encode settings for one job. A zero value for
// any field means the flag is omitted and ffmpeg picks its own default.
type Options struct {
	VideoCodec   string `yaml:"video_codec"`   // -c:v
	AudioCodec   string `yaml:"audio_codec"`   // -c:a
	Resolution   string `yaml:"resolution"`    // -s, e.g. "1920x1080"
	HWAccel      string `yaml:"hwaccel"`       // -hwaccel, placed before -i
	SampleRate   int    `yaml:"sample_rate"`   // -ar
	Channels     int    `yaml:"channels"`      // -ac
	AudioBitrate string `yaml:"audio_bitrate"` // -b:a
	FrameRate    string `yaml:"frame_rate"`    // -r, integer or rational
	Format       string `yaml:"format"`        // -f, also the output extension
	Preset       string `yaml:"preset"`        // -preset
	VideoBitrate string `yaml:"video_bitrate"` // -b:v
}

// Descriptor describes one file-to-file conversion request. Fields are
// unexported so a Descriptor cannot change after [New] returns it; copies
// share nothing mutable.
type Descriptor struct {
	inputPath  string
	outputPath string
	opts       Options
}

// New builds a Descriptor. Resolution strings are normalized so that a
// multiplication sign ("1920×1080") becomes a plain "x".
func New(inputPath, outputPath string, opts Options) Descriptor {
	opts.Resolution = NormalizeResolution(opts.Resolution)
	return Descriptor{
		inputPath:  inputPath,
		outputPath: outputPath,
		opts:       opts,
	}
}

// InputPath returns the source media path.
func (d Descriptor) InputPath() string { return d.inputPath }

// OutputPath returns the destination path passed to ffmpeg after -y.
func (d Descriptor) OutputPath() string { return d.outputPath }

// Options returns a copy of the encode options.
func (d Descriptor) Options() Options { return d.opts }

// NormalizeResolution trims s and replaces any Unicode multiplication sign
// (U+00D7) or full-width x (U+FF58) with an ASCII "x".
func NormalizeResolution(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.NewReplacer("×", "x", "ｘ", "x", "X", "x").Replace(s)
}
