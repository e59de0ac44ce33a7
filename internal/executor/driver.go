// Package executor implements the top-level build entry point (spec section
// 4.F): order the target graph, then for each target in order derive its
// environment and invocations, build it, and report progress.
//
// Grounded in the teacher's internal/engine/executor.go Execute loop,
// restructured from the teacher's per-level goroutine fan-out to the
// sequential one-target-at-a-time loop spec section 5 mandates — the one
// place the teacher's concurrency is deliberately not carried forward.
package executor

import (
	"context"
	"os"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/fsutil"
	"github.com/xcexec/core/internal/graph"
	"github.com/xcexec/core/internal/logger"
	"github.com/xcexec/core/internal/model"
	"github.com/xcexec/core/internal/runner"
	"github.com/xcexec/core/internal/targetbuild"
	streamyerrors "github.com/xcexec/core/pkg/errors"
)

// Deriver is the external collaborator spec section 4.G names: given a
// target, it supplies the target's configured environment and the
// invocations to run against it. DeriveEnvironment's second return is false
// when the target has no usable configuration — a non-fatal, per-target
// condition (spec section 7, error kind 2).
type Deriver interface {
	DeriveEnvironment(ctx context.Context, target model.Target) (*model.Environment, bool)
	DeriveInvocations(ctx context.Context, target model.Target, env *model.Environment) []*model.Invocation
}

// Driver runs a whole build: an ordered set of targets, each built through
// the §4.E pipeline.
type Driver struct {
	Log        *logger.Logger
	Formatter  formatter.Formatter
	Filesystem fsutil.Filesystem
	Deriver    Deriver
	Registry   runner.BuiltinRegistry
	Subprocess runner.SubprocessRunner
	DryRun     bool
}

// Build is the entry point named by spec section 4.F:
// build(buildEnvironment, buildContext, targetGraph) -> bool. buildEnvironment
// is accepted for interface symmetry with spec.md but the core does not
// inspect it; environment derivation is entirely the Deriver's concern.
func (d *Driver) Build(ctx context.Context, buildEnv *model.Environment, buildCtx formatter.BuildContext, targetGraph *graph.Graph[model.TargetID, model.Target]) bool {
	emit(d.Formatter.Begin(buildCtx))

	ok, order := targetGraph.Ordered()
	if !ok {
		err := streamyerrors.NewCycleError("target", nil)
		d.Log.Error(ctx, "cycle detected in target dependencies", "error", err)
		return false
	}

	for _, id := range order {
		target, _ := targetGraph.Value(id)

		emit(d.Formatter.BeginTarget(buildCtx, target))

		env, found := d.Deriver.DeriveEnvironment(ctx, target)
		if !found {
			err := streamyerrors.NewMissingEnvironmentError(target.Name)
			d.Log.Error(ctx, "couldn't create target environment", "target", target.Name, "error", err)
			emit(d.Formatter.FinishTarget(buildCtx, target))
			continue
		}

		emit(d.Formatter.BeginCheckDependencies(target))
		invs := d.Deriver.DeriveInvocations(ctx, target, env)
		emit(d.Formatter.FinishCheckDependencies(target))

		buildOK, failing := targetbuild.Build(ctx, d.Log, d.Formatter, d.Filesystem, d.DryRun, d.Registry, d.Subprocess, target, invs)
		if !buildOK {
			emit(d.Formatter.FinishTarget(buildCtx, target))
			emit(d.Formatter.Failure(buildCtx, failing))
			return false
		}

		emit(d.Formatter.FinishTarget(buildCtx, target))
	}

	emit(d.Formatter.Success(buildCtx))
	return true
}

func emit(line string) {
	if line == "" {
		return
	}
	_, _ = os.Stdout.WriteString(line)
	if line[len(line)-1] != '\n' {
		_, _ = os.Stdout.WriteString("\n")
	}
}
