package naming

import (
	"path/filepath"
	"strings"
)

// containerExt maps ffmpeg muxer names whose file extension differs from
// the muxer name.
var containerExt = map[string]string{
	"matroska": "mkv",
	"mpegts":   "ts",
	"ipod":     "m4a",
	"image2":   "png",
}

// Extension returns the file extension (without dot) for an ffmpeg output
// format name. Unknown formats are used as-is.
func Extension(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if ext, ok := containerExt[f]; ok {
		return ext
	}
	return f
}

// OutputPath builds <outputDir>/<input stem>.<ext>. ext comes from format;
// when format is empty the input's extension is kept. An empty outputDir
// places the output next to the input.
//
//	OutputPath("/out", "/media/clip.mkv", "mp4")      => /out/clip.mp4
//	OutputPath("/out", "/media/clip.mkv", "matroska") => /out/clip.mkv
//	OutputPath("", "/media/song.wav", "flac")         => /media/song.flac
func OutputPath(outputDir, input, format string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if format != "" {
		ext = "." + Extension(format)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(input)
	}
	return filepath.Join(outputDir, stem+ext)
}
