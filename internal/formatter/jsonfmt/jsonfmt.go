// Package jsonfmt is a Formatter for machine consumption: one JSON object
// per event, written as a single line so a caller can stream-parse build
// progress (CI log aggregation, IDE integration).
package jsonfmt

import (
	"encoding/json"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/model"
)

// Formatter renders every event as a single-line JSON object:
// {"event": "...", ...fields}.
type Formatter struct{}

var _ formatter.Formatter = Formatter{}

func encode(fields map[string]any) string {
	data, err := json.Marshal(fields)
	if err != nil {
		// fields always contains only strings, bools, and string slices;
		// Marshal cannot fail for this shape.
		panic(err)
	}
	return string(data)
}

func (Formatter) Begin(ctx formatter.BuildContext) string {
	return encode(map[string]any{"event": "begin", "name": ctx.Name})
}

func (Formatter) Success(ctx formatter.BuildContext) string {
	return encode(map[string]any{"event": "success"})
}

func (Formatter) Failure(ctx formatter.BuildContext, failing []*model.Invocation) string {
	ids := make([]string, 0, len(failing))
	for _, inv := range failing {
		ids = append(ids, inv.Identifier)
	}
	return encode(map[string]any{"event": "failure", "failing": ids})
}

func (Formatter) BeginTarget(ctx formatter.BuildContext, t model.Target) string {
	return encode(map[string]any{"event": "beginTarget", "target": t.Name, "targetId": string(t.ID)})
}

func (Formatter) FinishTarget(ctx formatter.BuildContext, t model.Target) string {
	return encode(map[string]any{"event": "finishTarget", "target": t.Name, "targetId": string(t.ID)})
}

func (Formatter) BeginCheckDependencies(t model.Target) string {
	return encode(map[string]any{"event": "beginCheckDependencies", "targetId": string(t.ID)})
}

func (Formatter) FinishCheckDependencies(t model.Target) string {
	return encode(map[string]any{"event": "finishCheckDependencies", "targetId": string(t.ID)})
}

func (Formatter) BeginWriteAuxiliaryFiles(t model.Target) string {
	return encode(map[string]any{"event": "beginWriteAuxiliaryFiles", "targetId": string(t.ID)})
}

func (Formatter) FinishWriteAuxiliaryFiles(t model.Target) string {
	return encode(map[string]any{"event": "finishWriteAuxiliaryFiles", "targetId": string(t.ID)})
}

func (Formatter) CreateAuxiliaryDirectory(path string) string {
	return encode(map[string]any{"event": "createAuxiliaryDirectory", "path": path})
}

func (Formatter) WriteAuxiliaryFile(path string) string {
	return encode(map[string]any{"event": "writeAuxiliaryFile", "path": path})
}

func (Formatter) SetAuxiliaryExecutable(path string) string {
	return encode(map[string]any{"event": "setAuxiliaryExecutable", "path": path})
}

func (Formatter) BeginCreateProductStructure(t model.Target) string {
	return encode(map[string]any{"event": "beginCreateProductStructure", "targetId": string(t.ID)})
}

func (Formatter) FinishCreateProductStructure(t model.Target) string {
	return encode(map[string]any{"event": "finishCreateProductStructure", "targetId": string(t.ID)})
}

func (Formatter) BeginInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	return encode(map[string]any{
		"event":                   "beginInvocation",
		"invocation":              inv.Identifier,
		"displayName":             displayName,
		"createsProductStructure": createsProductStructure,
	})
}

func (Formatter) FinishInvocation(inv *model.Invocation, displayName string, createsProductStructure bool) string {
	return encode(map[string]any{
		"event":                   "finishInvocation",
		"invocation":              inv.Identifier,
		"displayName":             displayName,
		"createsProductStructure": createsProductStructure,
	})
}
