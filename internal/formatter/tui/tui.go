// Package tui is a Formatter that drives a live bubbletea view of build
// progress instead of printing one line per event: a log with one line per
// started build, target, invocation and auxiliary-file action, followed by a
// spinner while the build runs and a success or failure line once it ends.
//
// Grounded in the teacher's internal/tui/dashboard (Model/Update/View,
// bubbles/spinner, Program.Send), adapted from the dashboard's
// pipeline-list-plus-operations shape to a single rolling build log — this
// package legitimately runs its own goroutine (the bubbletea event loop)
// concurrently with the (sequential) build loop, the one presentation-layer
// exception to spec section 5's single-threaded execution model.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/model"
)

// lineMsg appends a line to the scrolling log.
type lineMsg string

// doneMsg tells the program to stop accepting input and render its final
// frame, then quit.
type doneMsg struct{ failed bool }

type model struct {
	spinner spinner.Model
	lines   []string
	done    bool
	failed  bool
}

func newModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return model{spinner: s}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lineMsg:
		m.lines = append(m.lines, string(msg))
		return m, nil
	case doneMsg:
		m.done = true
		m.failed = msg.failed
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) View() string {
	var out string
	for _, line := range m.lines {
		out += line + "\n"
	}
	if !m.done {
		out += m.spinner.View() + " building...\n"
	} else if m.failed {
		out += failureStyle.Render("build failed") + "\n"
	} else {
		out += successStyle.Render("build succeeded") + "\n"
	}
	return out
}

// Formatter drives a bubbletea program on a background goroutine; Begin,
// BeginTarget, BeginInvocation and the three auxiliary-file events are
// forwarded to the program as log lines, the other events are dropped, and
// everything is rendered exclusively through model.View(). It always returns
// "" — callers funnel
// every Formatter method's return value through emit(), which writes
// straight to stdout, and that must never race with the program's own
// renderer goroutine also painting stdout.
type Formatter struct {
	program *tea.Program
	exited  chan struct{}
}

var _ formatter.Formatter = (*Formatter)(nil)

// New starts the bubbletea program in the background. Wait must be called
// once the build completes so the program can render its final frame and
// exit.
func New() *Formatter {
	p := tea.NewProgram(newModel())
	exited := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(exited)
	}()
	return &Formatter{program: p, exited: exited}
}

// Wait signals completion and blocks until the program has finished
// rendering and exited.
func (f *Formatter) Wait(failed bool) {
	f.program.Send(doneMsg{failed: failed})
	<-f.exited
}

func (f *Formatter) send(line string) {
	f.program.Send(lineMsg(line))
}

func (f *Formatter) Begin(ctx formatter.BuildContext) string {
	f.send("==> " + ctx.Name)
	return ""
}

func (f *Formatter) Success(ctx formatter.BuildContext) string {
	return "" // terminal state rendered by View once Wait(false) arrives
}

func (f *Formatter) Failure(ctx formatter.BuildContext, failing []*model.Invocation) string {
	return "" // terminal state rendered by View once Wait(true) arrives
}

func (f *Formatter) BeginTarget(ctx formatter.BuildContext, t model.Target) string {
	f.send("--> " + t.Name)
	return ""
}

func (f *Formatter) FinishTarget(ctx formatter.BuildContext, t model.Target) string {
	return ""
}

func (f *Formatter) BeginCheckDependencies(t model.Target) string  { return "" }
func (f *Formatter) FinishCheckDependencies(t model.Target) string { return "" }

func (f *Formatter) BeginWriteAuxiliaryFiles(t model.Target) string  { return "" }
func (f *Formatter) FinishWriteAuxiliaryFiles(t model.Target) string { return "" }

func (f *Formatter) CreateAuxiliaryDirectory(path string) string {
	f.send("  mkdir " + path)
	return ""
}

func (f *Formatter) WriteAuxiliaryFile(path string) string {
	f.send("  write " + path)
	return ""
}

func (f *Formatter) SetAuxiliaryExecutable(path string) string {
	f.send("  chmod +x " + path)
	return ""
}

func (f *Formatter) BeginCreateProductStructure(t model.Target) string  { return "" }
func (f *Formatter) FinishCreateProductStructure(t model.Target) string { return "" }

func (f *Formatter) BeginInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	f.send(fmt.Sprintf("  %s", displayName))
	return ""
}

func (f *Formatter) FinishInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	return ""
}
