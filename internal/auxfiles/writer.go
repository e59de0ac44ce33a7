// Package auxfiles materialises every invocation's declared auxiliary files
// to disk: binary-exact contents, directory creation, and an optional
// executable bit.
//
// Grounded in the teacher's filesystem-preparation idiom in
// internal/plugins/symlink and internal/plugins/copy (mkdir-then-write),
// with the write itself switched to github.com/google/renameio for
// crash-atomic, byte-exact output — the same pattern distr1-distri uses for
// build-artifact writers.
package auxfiles

import (
	"context"
	"os"

	"github.com/google/renameio"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/fsutil"
	"github.com/xcexec/core/internal/logger"
	"github.com/xcexec/core/internal/model"
)

// Write materialises the auxiliary files of every invocation, in target
// order, bracketed by BeginWriteAuxiliaryFiles/FinishWriteAuxiliaryFiles.
// Returns false immediately on the first I/O error (spec section 4.C,
// error kind 4): any remaining auxiliary files are left unwritten.
func Write(ctx context.Context, log *logger.Logger, fm formatter.Formatter, fs fsutil.Filesystem, dryRun bool, target model.Target, invocations []*model.Invocation) bool {
	emit(fm.BeginWriteAuxiliaryFiles(target))
	defer func() { emit(fm.FinishWriteAuxiliaryFiles(target)) }()

	for _, inv := range invocations {
		for _, aux := range inv.AuxiliaryFiles {
			if !writeOne(ctx, log, fm, fs, dryRun, aux) {
				return false
			}
		}
	}
	return true
}

func writeOne(ctx context.Context, log *logger.Logger, fm formatter.Formatter, fs fsutil.Filesystem, dryRun bool, aux model.AuxiliaryFile) bool {
	dir := fs.DirectoryName(aux.Path)
	if !fs.IsDirectory(dir) {
		emit(fm.CreateAuxiliaryDirectory(dir))
		if !dryRun {
			if err := fs.CreateDirectory(dir); err != nil {
				log.Error(ctx, "failed to create auxiliary file directory", "path", dir, "error", err)
				return false
			}
		}
	}

	emit(fm.WriteAuxiliaryFile(aux.Path))
	if !dryRun {
		if err := renameio.WriteFile(aux.Path, aux.Contents, 0o644); err != nil {
			log.Error(ctx, "failed to write auxiliary file", "path", aux.Path, "error", err)
			return false
		}
	}

	// renameio.WriteFile always lands the file at mode 0644, so the file is
	// never already executable immediately after a real write; checking
	// fs.IsExecutable here would only reflect stale pre-write state and
	// could diverge between dry-run and real runs (invariant 3), so the
	// executable bit is always (re)applied when requested.
	if aux.Executable {
		emit(fm.SetAuxiliaryExecutable(aux.Path))
		if !dryRun {
			if err := os.Chmod(aux.Path, 0o755); err != nil {
				log.Error(ctx, "failed to mark auxiliary file executable", "path", aux.Path, "error", err)
				return false
			}
		}
	}

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
