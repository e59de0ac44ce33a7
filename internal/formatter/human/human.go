// Package human is a Formatter for interactive terminals: lipgloss-styled,
// single-line-per-event output, colour gated on whether stdout is actually a
// terminal.
//
// Grounded in the teacher's internal/tui/styles.go colour palette
// (success/running/failure/pending) and golang.org/x/term.IsTerminal gating
// from the teacher's cmd/streamy/apply.go interactive-mode check.
package human

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	targetStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Formatter renders build events for a human reader. Plain renders the same
// text without ANSI styling, for redirected output or NO_COLOR.
type Formatter struct {
	Plain bool
}

var _ formatter.Formatter = (*Formatter)(nil)

// New constructs a Formatter, gating styling on whether fd looks like a
// terminal (fd is typically os.Stdout.Fd()).
func New(fd uintptr) *Formatter {
	return &Formatter{Plain: !term.IsTerminal(int(fd))}
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if f.Plain {
		return text
	}
	return s.Render(text)
}

func (f *Formatter) Begin(ctx formatter.BuildContext) string {
	return f.style(titleStyle, "==> "+ctx.Name)
}

func (f *Formatter) Success(ctx formatter.BuildContext) string {
	return f.style(successStyle, "build succeeded")
}

func (f *Formatter) Failure(ctx formatter.BuildContext, failing []*model.Invocation) string {
	if len(failing) == 0 {
		return f.style(failureStyle, "build failed")
	}
	names := make([]string, 0, len(failing))
	for _, inv := range failing {
		names = append(names, inv.DisplayName())
	}
	return f.style(failureStyle, fmt.Sprintf("build failed: %s", names[0]))
}

func (f *Formatter) BeginTarget(ctx formatter.BuildContext, t model.Target) string {
	return f.style(targetStyle, "--> "+t.Name)
}

func (f *Formatter) FinishTarget(ctx formatter.BuildContext, t model.Target) string {
	return ""
}

func (f *Formatter) BeginCheckDependencies(t model.Target) string  { return "" }
func (f *Formatter) FinishCheckDependencies(t model.Target) string { return "" }

func (f *Formatter) BeginWriteAuxiliaryFiles(t model.Target) string  { return "" }
func (f *Formatter) FinishWriteAuxiliaryFiles(t model.Target) string { return "" }

func (f *Formatter) CreateAuxiliaryDirectory(path string) string {
	return f.style(dimStyle, "  mkdir "+path)
}

func (f *Formatter) WriteAuxiliaryFile(path string) string {
	return f.style(dimStyle, "  write "+path)
}

func (f *Formatter) SetAuxiliaryExecutable(path string) string {
	return f.style(dimStyle, "  chmod +x "+path)
}

func (f *Formatter) BeginCreateProductStructure(t model.Target) string { return "" }
func (f *Formatter) FinishCreateProductStructure(t model.Target) string {
	return ""
}

func (f *Formatter) BeginInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	return f.style(dimStyle, "  "+displayName)
}

func (f *Formatter) FinishInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	return ""
}
