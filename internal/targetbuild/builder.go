// Package targetbuild executes the per-target build pipeline (spec section
// 4.E): write auxiliary files, order invocations by data dependency, then run
// them in two passes — product structure first, content second.
//
// Grounded in the teacher's internal/engine/executor.go per-target dispatch
// loop (ExecutePlan), restructured from a single flat step list into the
// spec's fixed five-step sequence.
package targetbuild

import (
	"context"
	"os"

	"github.com/xcexec/core/internal/auxfiles"
	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/fsutil"
	"github.com/xcexec/core/internal/invocations"
	"github.com/xcexec/core/internal/logger"
	"github.com/xcexec/core/internal/model"
	"github.com/xcexec/core/internal/runner"
)

// Build runs one target's five-step pipeline:
//  1. write auxiliary files
//  2. sort invocations by data dependency (cycle -> fail the target)
//  3. run the product-structure pass, bracketed by
//     BeginCreateProductStructure/FinishCreateProductStructure
//  4. run the content pass
//  5. return the aggregate result
//
// ok is false if any step fails; failing names the invocation(s) responsible,
// or is nil if the failure was a cycle rather than a dispatch failure.
func Build(ctx context.Context, log *logger.Logger, fm formatter.Formatter, fs fsutil.Filesystem, dryRun bool, registry runner.BuiltinRegistry, subprocess runner.SubprocessRunner, target model.Target, invs []*model.Invocation) (ok bool, failing []*model.Invocation) {
	if !auxfiles.Write(ctx, log, fm, fs, dryRun, target, invs) {
		return false, nil
	}

	if dups := invocations.DuplicateOutputs(invs); len(dups) > 0 {
		log.Warn(ctx, "multiple invocations claim the same output; last writer wins", "target", target.Name, "outputs", dups)
	}

	sortedOK, ordered := invocations.Sort(invs)
	if !sortedOK {
		log.Error(ctx, "cycle detected building invocation graph", "target", target.Name, "error", invocations.CycleError())
		return false, nil
	}

	emit(fm.BeginCreateProductStructure(target))
	structureOK, structureFailing := runner.Run(ctx, log, fm, fs, dryRun, true, registry, subprocess, ordered)
	emit(fm.FinishCreateProductStructure(target))
	if !structureOK {
		return false, structureFailing
	}

	contentOK, contentFailing := runner.Run(ctx, log, fm, fs, dryRun, false, registry, subprocess, ordered)
	if !contentOK {
		return false, contentFailing
	}

	return true, nil
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
