// Package formatter defines the pluggable event sink the executor driver
// writes structured progress through (spec section 6, "Formatter"). Each
// event method returns a string — possibly empty — that the core writes to
// standard output verbatim; the core performs no batching and never
// interprets the string.
package formatter

import "github.com/xcexec/core/internal/model"

// BuildContext carries whatever identifying information the caller wants
// threaded through begin/success/failure events (a build request ID, a
// workspace path). The core never inspects its fields.
type BuildContext struct {
	Name string
}

// Formatter is the event-emitting sink the executor, target builder,
// auxiliary file writer, and invocation runner report through. It is
// stateful if the concrete implementation chooses to be; callers must not
// assume calls are safe for concurrent use unless documented otherwise.
type Formatter interface {
	Begin(ctx BuildContext) string
	Success(ctx BuildContext) string
	Failure(ctx BuildContext, failing []*model.Invocation) string

	BeginTarget(ctx BuildContext, t model.Target) string
	FinishTarget(ctx BuildContext, t model.Target) string

	BeginCheckDependencies(t model.Target) string
	FinishCheckDependencies(t model.Target) string

	BeginWriteAuxiliaryFiles(t model.Target) string
	FinishWriteAuxiliaryFiles(t model.Target) string
	CreateAuxiliaryDirectory(path string) string
	WriteAuxiliaryFile(path string) string
	SetAuxiliaryExecutable(path string) string

	BeginCreateProductStructure(t model.Target) string
	FinishCreateProductStructure(t model.Target) string

	BeginInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string
	FinishInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string
}
