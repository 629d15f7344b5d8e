package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/muxbatch/internal/job"
	"github.com/backmassage/muxbatch/internal/term"
)

const (
	defaultBarWidth = 40
	maxLabelWidth   = 32
)

// Messages delivered to the bubbletea program by the sink methods.
type (
	progressMsg struct {
		index int
		delta int
	}
	finishedMsg struct {
		index   int
		outcome job.Outcome
	}
	closeMsg struct{}
)

// row is the per-job view state.
type row struct {
	label   string
	percent int
	state   string
	reason  string
}

// model is the bubbletea model behind [TUI]. It only reacts to sink
// messages and window resizes; keyboard input is not read.
type model struct {
	title string
	rows  []row
	bar   progress.Model
	width int
	done  int
}

func newModel(title string, jobs []job.Descriptor) model {
	m := model{
		title: title,
		rows:  make([]row, len(jobs)),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(defaultBarWidth),
		),
	}
	for i, d := range jobs {
		m.rows[i] = row{label: truncate(label(d.InputPath()), maxLabelWidth), state: StatePending}
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.index >= 0 && msg.index < len(m.rows) {
			r := &m.rows[msg.index]
			r.percent = min(r.percent+msg.delta, 100)
			if r.state == StatePending {
				r.state = StateRunning
			}
		}
	case finishedMsg:
		if msg.index >= 0 && msg.index < len(m.rows) {
			r := &m.rows[msg.index]
			if msg.outcome.OK() {
				r.state = StateSucceeded
				r.percent = 100
			} else {
				r.state = StateFailed
				r.reason = msg.outcome.Reason
			}
			m.done++
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
	case closeMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	for _, r := range m.rows {
		name := labelStyle.Render(fmt.Sprintf("%-*s", maxLabelWidth, r.label))
		fmt.Fprintf(&b, "%s %s %s\n", statusIcon(r.state), name, m.bar.ViewAs(float64(r.percent)/100))
		if r.state == StateFailed && r.reason != "" {
			reason := r.reason
			if m.width > 8 {
				reason = truncate(reason, m.width-8)
			}
			b.WriteString(reasonStyle.Render(reason))
			b.WriteString("\n")
		}
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("%d/%d done", m.done, len(m.rows))))
	b.WriteString("\n")
	return b.String()
}

// barWidth fits the bar next to the icon and label column.
func barWidth(termWidth int) int {
	w := termWidth - maxLabelWidth - 4
	if w > defaultBarWidth*2 {
		w = defaultBarWidth * 2
	}
	if w < 10 {
		w = 10
	}
	return w
}

func truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// TUI renders one progress bar per job in the terminal. Start it before the
// batch runs and Close it after; the sink methods may be called from any
// goroutine in between.
type TUI struct {
	program *tea.Program
	done    chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	err       error
}

// NewTUI prepares a TUI writing to out. The program does not read stdin and
// installs no signal handler, so interrupts reach the caller's context.
func NewTUI(title string, jobs []job.Descriptor, out io.Writer) *TUI {
	m := newModel(title, jobs)
	// Size the first frame before any resize message arrives.
	if f, ok := out.(*os.File); ok {
		if w := term.Width(f, 0); w > 0 {
			m.width = w
			m.bar.Width = barWidth(w)
		}
	}
	p := tea.NewProgram(
		m,
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return &TUI{program: p, done: make(chan struct{})}
}

// Start runs the program in the background.
func (t *TUI) Start() {
	t.startOnce.Do(func() {
		go func() {
			defer close(t.done)
			_, t.err = t.program.Run()
		}()
	})
}

func (t *TUI) Progress(index, delta int) {
	t.program.Send(progressMsg{index: index, delta: delta})
}

func (t *TUI) Finished(index int, o job.Outcome) {
	t.program.Send(finishedMsg{index: index, outcome: o})
}

// Close asks the program to draw its final frame and exit, then waits for
// it. It returns the program's error, if any.
func (t *TUI) Close() error {
	t.closeOnce.Do(func() {
		t.Start()
		t.program.Send(closeMsg{})
		<-t.done
	})
	return t.err
}
