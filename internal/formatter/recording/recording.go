// Package recording provides a Formatter that records every event call in
// order, for asserting exact event sequences (spec section 8 calls these
// out explicitly: "Tests may assert exact event sequences").
//
// Grounded in the teacher's internal/engine/executor_test_impl.go fake
// collaborators.
package recording

import (
	"fmt"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/model"
)

// Formatter records every call it receives, in order.
type Formatter struct {
	Events []string
}

var _ formatter.Formatter = (*Formatter)(nil)

func (f *Formatter) record(event string) string {
	f.Events = append(f.Events, event)
	return event
}

func (f *Formatter) Begin(ctx formatter.BuildContext) string { return f.record("begin") }
func (f *Formatter) Success(ctx formatter.BuildContext) string {
	return f.record("success")
}
func (f *Formatter) Failure(ctx formatter.BuildContext, failing []*model.Invocation) string {
	return f.record(fmt.Sprintf("failure(%d)", len(failing)))
}

func (f *Formatter) BeginTarget(ctx formatter.BuildContext, t model.Target) string {
	return f.record("beginTarget(" + string(t.ID) + ")")
}
func (f *Formatter) FinishTarget(ctx formatter.BuildContext, t model.Target) string {
	return f.record("finishTarget(" + string(t.ID) + ")")
}

func (f *Formatter) BeginCheckDependencies(t model.Target) string {
	return f.record("beginCheckDependencies(" + string(t.ID) + ")")
}
func (f *Formatter) FinishCheckDependencies(t model.Target) string {
	return f.record("finishCheckDependencies(" + string(t.ID) + ")")
}

func (f *Formatter) BeginWriteAuxiliaryFiles(t model.Target) string {
	return f.record("beginWriteAuxiliaryFiles(" + string(t.ID) + ")")
}
func (f *Formatter) FinishWriteAuxiliaryFiles(t model.Target) string {
	return f.record("finishWriteAuxiliaryFiles(" + string(t.ID) + ")")
}
func (f *Formatter) CreateAuxiliaryDirectory(path string) string {
	return f.record("createAuxiliaryDirectory(" + path + ")")
}
func (f *Formatter) WriteAuxiliaryFile(path string) string {
	return f.record("writeAuxiliaryFile(" + path + ")")
}
func (f *Formatter) SetAuxiliaryExecutable(path string) string {
	return f.record("setAuxiliaryExecutable(" + path + ")")
}

func (f *Formatter) BeginCreateProductStructure(t model.Target) string {
	return f.record("beginCreateProductStructure(" + string(t.ID) + ")")
}
func (f *Formatter) FinishCreateProductStructure(t model.Target) string {
	return f.record("finishCreateProductStructure(" + string(t.ID) + ")")
}

func (f *Formatter) BeginInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	return f.record(fmt.Sprintf("beginInvocation(%s)", inv.Identifier))
}
func (f *Formatter) FinishInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	return f.record(fmt.Sprintf("finishInvocation(%s)", inv.Identifier))
}
