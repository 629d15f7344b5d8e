package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/muxbatch/internal/config"
)

func newTestLogger(t *testing.T, logFile string) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = logFile
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	var out, errOut bytes.Buffer
	l.SetOutput(&out, &errOut)
	return l, &out, &errOut
}

func TestNewLogger_NoFile(t *testing.T) {
	l, out, _ := newTestLogger(t, "")
	l.Info("test message")
	if !strings.Contains(out.String(), "[INFO] test message") {
		t.Errorf("stdout: %q", out.String())
	}
	if l.FilePath() != "" {
		t.Errorf("FilePath = %q", l.FilePath())
	}
}

func TestNewLogger_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "muxbatch.log")
	l, _, _ := newTestLogger(t, path)
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if !bytes.Contains(b, []byte("INFO")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestLogger_ErrorsGoToErrorWriter(t *testing.T) {
	l, out, errOut := newTestLogger(t, "")
	l.Error("boom %d", 1)
	l.Warn("careful")
	if !strings.Contains(errOut.String(), "[ERROR] boom 1") {
		t.Errorf("stderr: %q", errOut.String())
	}
	if strings.Contains(out.String(), "boom") || !strings.Contains(out.String(), "[WARN] careful") {
		t.Errorf("stdout: %q", out.String())
	}
}

func TestLogger_DebugGatedByVerbose(t *testing.T) {
	l, out, _ := newTestLogger(t, "")
	l.Debug(false, "hidden")
	l.Debug(true, "shown")
	if strings.Contains(out.String(), "hidden") || !strings.Contains(out.String(), "[DEBUG] shown") {
		t.Errorf("stdout: %q", out.String())
	}
}

func TestLogger_MuteConsoleKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muxbatch.log")
	l, out, _ := newTestLogger(t, path)

	restore := l.MuteConsole()
	l.Success("while muted")
	restore()
	l.Info("after")

	if strings.Contains(out.String(), "while muted") || !strings.Contains(out.String(), "after") {
		t.Errorf("stdout: %q", out.String())
	}
	l.Close()
	b, _ := os.ReadFile(path)
	if !bytes.Contains(b, []byte("[SUCCESS] while muted")) {
		t.Errorf("log file content: %s", b)
	}
}
