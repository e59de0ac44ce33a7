package config

import (
	"context"

	"github.com/xcexec/core/internal/executor"
	"github.com/xcexec/core/internal/graph"
	"github.com/xcexec/core/internal/model"
)

// Deriver implements internal/executor.Deriver over a parsed Document: it
// hands back each target's configured environment and its fixed invocation
// list. This is the concrete instance of the spec section 4.G external
// collaborator.
type Deriver struct {
	byID map[model.TargetID]TargetConfig
}

var _ executor.Deriver = (*Deriver)(nil)

// NewDeriver indexes doc's targets by ID for lookup during a build.
func NewDeriver(doc *Document) *Deriver {
	byID := make(map[model.TargetID]TargetConfig, len(doc.Targets))
	for _, t := range doc.Targets {
		byID[model.TargetID(t.ID)] = t
	}
	return &Deriver{byID: byID}
}

// DeriveEnvironment returns the target's configured environment. found is
// false when the target ID is unknown to this document — spec section 7's
// non-fatal "couldn't create target environment" condition.
func (d *Deriver) DeriveEnvironment(_ context.Context, target model.Target) (*model.Environment, bool) {
	t, ok := d.byID[target.ID]
	if !ok {
		return nil, false
	}
	return t.toEnvironment(), true
}

// DeriveInvocations returns the target's fixed invocation list. env is
// accepted for interface symmetry with spec section 4.G but unused here: a
// richer deriver (templating invocations from environment variables) would
// read it, but this YAML-backed implementation declares invocations
// statically per target.
func (d *Deriver) DeriveInvocations(_ context.Context, target model.Target, _ *model.Environment) []*model.Invocation {
	t, ok := d.byID[target.ID]
	if !ok {
		return nil
	}
	return t.toInvocations()
}

// BuildTargetGraph constructs the target dependency graph from doc, in
// document order, wiring each target's depends_on list as graph
// predecessors ready for Driver.Build.
func BuildTargetGraph(doc *Document) *graph.Graph[model.TargetID, model.Target] {
	g := graph.New[model.TargetID, model.Target]()
	for _, t := range doc.Targets {
		preds := make([]model.TargetID, 0, len(t.DependsOn))
		for _, dep := range t.DependsOn {
			preds = append(preds, model.TargetID(dep))
		}
		g.Insert(model.TargetID(t.ID), t.ToTarget(), preds...)
	}
	return g
}
