package ffmpeg

import (
	"regexp"
	"strings"
)

// failurePattern maps a recognizable ffmpeg error line to a short reason.
// Checked in order by [Classify]; the first match wins.
type failurePattern struct {
	re     *regexp.Regexp
	reason string
}

var failurePatterns = []failurePattern{
	{regexp.MustCompile(`Unknown encoder|Encoder not found`), "unknown encoder"},
	{regexp.MustCompile(`Unknown decoder|Decoder not found`), "unknown decoder"},
	{regexp.MustCompile(`Requested output format .* is not|Unable to choose an output format|Unable to find a suitable output format`), "unsupported output format"},
	{regexp.MustCompile(`(?i)Device creation failed|Failed setup for format|hwaccel initialisation returned error|No device available for decoder`), "hardware acceleration unavailable"},
	{regexp.MustCompile(`Invalid data found when processing input`), "invalid input data"},
	{regexp.MustCompile(`No such file or directory`), "path not found"},
	{regexp.MustCompile(`Permission denied`), "permission denied"},
	{regexp.MustCompile(`No space left on device`), "disk full"},
	{regexp.MustCompile(`Error (initializing|while opening) (output stream|encoder)|Could not open encoder`), "encoder setup failed"},
	{regexp.MustCompile(`Invalid argument`), "invalid argument"},
}

const maxReasonLen = 160

// Classify derives a short failure reason from the last lines of ffmpeg
// output. When no known pattern matches, the last non-empty line is used,
// truncated.
func Classify(tail []string) string {
	for _, p := range failurePatterns {
		for i := len(tail) - 1; i >= 0; i-- {
			if p.re.MatchString(tail[i]) {
				return p.reason
			}
		}
	}
	for i := len(tail) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(tail[i]); l != "" {
			if r := []rune(l); len(r) > maxReasonLen {
				l = string(r[:maxReasonLen]) + "…"
			}
			return l
		}
	}
	return ""
}
