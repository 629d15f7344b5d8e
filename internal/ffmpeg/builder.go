package ffmpeg

import (
	"strconv"

	"github.com/backmassage/muxbatch/internal/job"
)

// DefaultExecutable is used when no ffmpeg path is configured.
const DefaultExecutable = "ffmpeg"

// Build constructs the complete argument vector for one job, executable
// first. Layout:
//
//	ffmpeg -hide_banner [-hwaccel H] -i IN [-c:v V] [-c:a A] [-s WxH]
//	       [-ar N] [-ac N] [-b:a B] [-r R] [-f F] [-preset P] [-b:v B] -y OUT
//
// The hardware accelerator is an input option and must precede -i. Every
// other flag is emitted only when set on the descriptor.
func Build(executable string, d job.Descriptor) []string {
	if executable == "" {
		executable = DefaultExecutable
	}
	opts := d.Options()
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, executable, "-hide_banner")

	// --- Input ---
	args = appendOpt(args, "-hwaccel", opts.HWAccel)
	args = append(args, "-i", d.InputPath())

	// --- Codecs and geometry ---
	args = appendOpt(args, "-c:v", opts.VideoCodec)
	args = appendOpt(args, "-c:a", opts.AudioCodec)
	args = appendOpt(args, "-s", job.NormalizeResolution(opts.Resolution))

	// --- Audio ---
	args = appendInt(args, "-ar", opts.SampleRate)
	args = appendInt(args, "-ac", opts.Channels)
	args = appendOpt(args, "-b:a", opts.AudioBitrate)

	// --- Video rate, container, tuning ---
	args = appendOpt(args, "-r", opts.FrameRate)
	args = appendOpt(args, "-f", opts.Format)
	args = appendOpt(args, "-preset", opts.Preset)
	args = appendOpt(args, "-b:v", opts.VideoBitrate)

	// --- Output ---
	args = append(args, "-y", d.OutputPath())

	return args
}

func appendOpt(args []string, flag, value string) []string {
	if value == "" {
		return args
	}
	return append(args, flag, value)
}

func appendInt(args []string, flag string, value int) []string {
	if value <= 0 {
		return args
	}
	return append(args, flag, strconv.Itoa(value))
}
