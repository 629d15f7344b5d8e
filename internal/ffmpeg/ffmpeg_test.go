package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/backmassage/muxbatch/internal/job"
)

// --- Build tests ---

func TestBuild_Minimal(t *testing.T) {
	d := job.New("in.mkv", "out/in.mp4", job.Options{})
	got := Build("ffmpeg", d)
	want := []string{"ffmpeg", "-hide_banner", "-i", "in.mkv", "-y", "out/in.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %q\nwant    %q", got, want)
	}
}

func TestBuild_AllOptions(t *testing.T) {
	d := job.New("/media/in.mkv", "/out/in.mp4", job.Options{
		VideoCodec:   "h264",
		AudioCodec:   "aac",
		Resolution:   "1920×1080",
		HWAccel:      "cuda",
		SampleRate:   44100,
		Channels:     2,
		AudioBitrate: "192k",
		FrameRate:    "30",
		Format:       "mp4",
		Preset:       "fast",
		VideoBitrate: "50m",
	})
	got := Build("/opt/ffmpeg/bin/ffmpeg", d)
	want := []string{
		"/opt/ffmpeg/bin/ffmpeg", "-hide_banner",
		"-hwaccel", "cuda",
		"-i", "/media/in.mkv",
		"-c:v", "h264",
		"-c:a", "aac",
		"-s", "1920x1080",
		"-ar", "44100",
		"-ac", "2",
		"-b:a", "192k",
		"-r", "30",
		"-f", "mp4",
		"-preset", "fast",
		"-b:v", "50m",
		"-y", "/out/in.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build =\n%q\nwant\n%q", got, want)
	}
}

func TestBuild_HWAccelPrecedesInput(t *testing.T) {
	d := job.New("in.mkv", "out.mkv", job.Options{HWAccel: "vaapi", VideoCodec: "hevc_vaapi"})
	args := Build("", d)
	if args[0] != DefaultExecutable {
		t.Errorf("executable = %q, want default %q", args[0], DefaultExecutable)
	}
	hw, in := indexOf(args, "-hwaccel"), indexOf(args, "-i")
	if hw < 0 || in < 0 || hw > in {
		t.Errorf("-hwaccel at %d, -i at %d: %q", hw, in, args)
	}
}

func TestBuild_OverwriteBeforeOutput(t *testing.T) {
	args := Build("ffmpeg", job.New("a.wav", "b.mp3", job.Options{Format: "mp3"}))
	n := len(args)
	if args[n-2] != "-y" || args[n-1] != "b.mp3" {
		t.Errorf("tail = %q, want [-y b.mp3]", args[n-2:])
	}
}

func TestBuild_PathsAreNotQuoted(t *testing.T) {
	in := `/media/My Movie "Final"; echo pwned.mkv`
	out := `/out/$(whoami) & co.mp4`
	args := Build("ffmpeg", job.New(in, out, job.Options{}))
	if args[indexOf(args, "-i")+1] != in {
		t.Errorf("input altered: %q", args)
	}
	if args[len(args)-1] != out {
		t.Errorf("output altered: %q", args)
	}
}

func TestBuild_ZeroNumericOptionsOmitted(t *testing.T) {
	args := Build("ffmpeg", job.New("a", "b", job.Options{SampleRate: 0, Channels: -1}))
	for _, flag := range []string{"-ar", "-ac"} {
		if indexOf(args, flag) >= 0 {
			t.Errorf("%s present in %q", flag, args)
		}
	}
}

// --- ScanLines tests ---

func TestScanLines(t *testing.T) {
	input := "first\nframe=1 time=00:00:01.00\rframe=2 time=00:00:02.00\r\nlast"
	sc := bufio.NewScanner(strings.NewReader(input))
	sc.Split(ScanLines)
	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	want := []string{"first", "frame=1 time=00:00:01.00", "frame=2 time=00:00:02.00", "last"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScanLines_TrailingCarriageReturn(t *testing.T) {
	sc := bufio.NewScanner(strings.NewReader("a\r"))
	sc.Split(ScanLines)
	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("got %q", got)
	}
}

// --- Classify tests ---

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		tail []string
		want string
	}{
		{"unknown encoder", []string{"Input #0 ...", "Unknown encoder 'libfoo'"}, "unknown encoder"},
		{"missing input", []string{"in.mkv: No such file or directory"}, "path not found"},
		{"bad data", []string{"in.mkv: Invalid data found when processing input"}, "invalid input data"},
		{"hwaccel", []string{"Device creation failed: -12.", "Failed to set value 'cuda' for option 'hwaccel'"}, "hardware acceleration unavailable"},
		{"format", []string{"[NULL @ 0x1] Unable to find a suitable output format for 'out.xyz'"}, "unsupported output format"},
		{"fallback last line", []string{"something odd", "Conversion failed!", ""}, "Conversion failed!"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.tail); got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_TruncatesOnRuneBoundary(t *testing.T) {
	// The leading "a" puts every two-byte rune on an odd offset.
	line := "a" + strings.Repeat("é", 2*maxReasonLen)
	got := Classify([]string{line})
	if !utf8.ValidString(got) {
		t.Fatalf("Classify returned invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != maxReasonLen+1 {
		t.Errorf("reason has %d runes, want %d", n, maxReasonLen+1)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("reason %q not marked as truncated", got)
	}
}

// --- ExecRunner tests (use /bin/sh as a stand-in for ffmpeg) ---

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_StreamsMergedOutput(t *testing.T) {
	requireShell(t)
	var lines []string
	err := ExecRunner{}.Run(context.Background(),
		[]string{"sh", "-c", `printf 'out1\n'; printf 'err1\r' >&2; printf 'out2\n'`},
		func(l string) { lines = append(lines, l) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"out1", "err1", "out2"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	requireShell(t)
	err := ExecRunner{}.Run(context.Background(),
		[]string{"sh", "-c", `echo "Unknown encoder 'x'" >&2; exit 3`}, nil)

	var ee *job.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want *job.ExecutionError", err)
	}
	if ee.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", ee.ExitCode)
	}
	if ee.Reason != "unknown encoder" {
		t.Errorf("Reason = %q", ee.Reason)
	}
	if len(ee.Tail) != 1 {
		t.Errorf("Tail = %q", ee.Tail)
	}
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	err := ExecRunner{}.Run(context.Background(), []string{"/nonexistent/ffmpeg", "-version"}, nil)
	var se *job.SpawnError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *job.SpawnError", err)
	}
	if se.Executable != "/nonexistent/ffmpeg" {
		t.Errorf("Executable = %q", se.Executable)
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := ExecRunner{}.Run(ctx, []string{"sh", "-c", "exec sleep 10"}, nil)
	var ee *job.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want *job.ExecutionError", err)
	}
	if ee.Reason != "timed out" {
		t.Errorf("Reason = %q, want timed out", ee.Reason)
	}
}

func TestExecRunner_TailKeepsLastLines(t *testing.T) {
	requireShell(t)
	err := ExecRunner{}.Run(context.Background(),
		[]string{"sh", "-c", `i=0; while [ $i -lt 50 ]; do echo line$i; i=$((i+1)); done; exit 1`}, nil)
	var ee *job.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v", err)
	}
	if len(ee.Tail) != tailLines || ee.Tail[len(ee.Tail)-1] != "line49" || ee.Tail[0] != "line30" {
		t.Errorf("Tail = %q", ee.Tail)
	}
}

// --- Query tests ---

func TestQuery_CachesByKey(t *testing.T) {
	calls := map[string]int{}
	q := NewQuery("ffmpeg")
	q.exec = func(_ context.Context, _ string, args ...string) ([]byte, error) {
		key := strings.Join(args, " ")
		calls[key]++
		return []byte("out:" + key), nil
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := q.Formats(ctx); err != nil {
			t.Fatal(err)
		}
	}
	aac, _ := q.Codecs(ctx, "aac")
	all, _ := q.Codecs(ctx, "")
	if aac == all {
		t.Error("encoder help and codec list share a cache entry")
	}
	if calls["-hide_banner -formats"] != 1 {
		t.Errorf("formats ran %d times, want 1", calls["-hide_banner -formats"])
	}
	if !q.Cached(KeyCodecs+":aac") || !q.Cached(KeyCodecs) {
		t.Error("codec queries not cached")
	}

	q.Invalidate()
	if q.Cached(KeyFormats) {
		t.Error("cache not cleared")
	}
	if _, err := q.Formats(ctx); err != nil {
		t.Fatal(err)
	}
	if calls["-hide_banner -formats"] != 2 {
		t.Errorf("formats ran %d times after Invalidate, want 2", calls["-hide_banner -formats"])
	}
}

func TestQuery_ErrorsAreNotCached(t *testing.T) {
	fail := true
	q := NewQuery("ffmpeg")
	q.exec = func(context.Context, string, ...string) ([]byte, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []byte("cuda\n"), nil
	}
	if _, err := q.HWAccels(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	out, err := q.HWAccels(context.Background())
	if err != nil || out != "cuda\n" {
		t.Errorf("HWAccels = %q, %v", out, err)
	}
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}
