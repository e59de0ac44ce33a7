package runner

import (
	"context"
	"os"

	streamyerrors "github.com/xcexec/core/pkg/errors"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/fsutil"
	"github.com/xcexec/core/internal/logger"
	"github.com/xcexec/core/internal/model"
)

// Run dispatches each invocation in order, for one pass (structure or
// content). It skips phony invocations and invocations whose
// CreatesProductStructure does not match createProductStructure.
//
// Grounded in the teacher's per-step dispatch pipeline in
// internal/engine/executor.go (executeStep), restructured from evaluate/
// apply plugin semantics to the spec's builtin-or-subprocess dispatch.
func Run(ctx context.Context, log *logger.Logger, fm formatter.Formatter, fs fsutil.Filesystem, dryRun bool, createProductStructure bool, registry BuiltinRegistry, subprocess SubprocessRunner, invocations []*model.Invocation) (bool, []*model.Invocation) {
	for _, inv := range invocations {
		if inv.IsPhony() {
			continue
		}
		if inv.CreatesProductStructure != createProductStructure {
			continue
		}

		displayName := inv.DisplayName()
		emit(fm.BeginInvocation(inv, displayName, createProductStructure))

		ok := dispatch(ctx, log, fs, dryRun, registry, subprocess, inv)

		emit(fm.FinishInvocation(inv, displayName, createProductStructure))

		if !ok {
			return false, []*model.Invocation{inv}
		}
	}
	return true, nil
}

func dispatch(ctx context.Context, log *logger.Logger, fs fsutil.Filesystem, dryRun bool, registry BuiltinRegistry, subprocess SubprocessRunner, inv *model.Invocation) bool {
	if !dryRun {
		for _, out := range inv.Outputs {
			dir := fs.DirectoryName(out)
			if fs.IsDirectory(dir) {
				continue
			}
			if err := fs.CreateDirectory(dir); err != nil {
				execErr := streamyerrors.NewExecutionError(inv.Identifier, err)
				log.Error(ctx, "failed to create output directory", "invocation", inv.Identifier, "directory", dir, "error", execErr)
				return false
			}
		}
	}

	if dryRun {
		return true
	}

	switch inv.Executable.Kind {
	case model.ExecutableBuiltin:
		driver, ok := registry.Driver(inv.Executable.BuiltinName)
		if !ok {
			err := streamyerrors.NewDispatchError(inv.Identifier, "unknown built-in tool "+inv.Executable.BuiltinName, nil)
			log.Error(ctx, "dispatch failed", "invocation", inv.Identifier, "error", err)
			return false
		}
		if code := driver.Run(inv.Arguments, inv.Environment, inv.WorkingDirectory); code != 0 {
			err := streamyerrors.NewDispatchError(inv.Identifier, "built-in tool exited non-zero", nil)
			log.Error(ctx, "dispatch failed", "invocation", inv.Identifier, "exit_code", code, "error", err)
			return false
		}
		return true
	case model.ExecutableSubprocess:
		if subprocess.Execute(ctx, inv.Executable.Path, inv.Arguments, inv.Environment, inv.WorkingDirectory) {
			return true
		}
		err := streamyerrors.NewDispatchError(inv.Identifier, "subprocess exited non-zero", nil)
		log.Error(ctx, "dispatch failed", "invocation", inv.Identifier, "exit_code", subprocess.ExitCode(), "error", err)
		return false
	default:
		// Phony invocations are filtered out above; reaching this branch
		// would be a caller error.
		return true
	}
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
