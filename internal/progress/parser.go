package progress

import (
	"regexp"
	"strconv"
)

// reTime matches ffmpeg's status field, e.g. "time=01:02:03.50". Negative
// values and "time=N/A" do not match.
var reTime = regexp.MustCompile(`time=\s*(\d+):(\d{1,2}):(\d+(?:\.\d+)?)`)

// ParseLine extracts the elapsed output time, in seconds, from one line of
// ffmpeg output. ok is false when the line carries no usable time= marker;
// callers skip such lines.
func ParseLine(line string) (elapsed float64, ok bool) {
	m := reTime.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	h, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	mins, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, false
	}
	s, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	return h*3600 + mins*60 + s, true
}
