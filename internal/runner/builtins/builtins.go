// Package builtins supplies sample built-in tool drivers demonstrating the
// in-process dispatch path (spec section 4.H); it is not an exhaustive
// built-in tool catalogue (spec.md section 1 marks that catalogue out of
// scope for this core).
//
// Grounded in the teacher's internal/plugins/symlink (directory
// preparation) and internal/plugins/copy (file copy) step implementations,
// adapted from plugin.Apply semantics to the simpler
// arguments/environment/workingDirectory -> exit-code shape spec section 6
// requires of a BuiltinDriver.
package builtins

import (
	"io"
	"os"
	"path/filepath"

	"github.com/xcexec/core/internal/runner"
)

// Mkdir creates arguments[0] (recursively) relative to workingDirectory if
// not already absolute. Returns 1 on any error.
func Mkdir() runner.BuiltinDriver {
	return runner.BuiltinDriverFunc(func(arguments []string, environment map[string]string, workingDirectory string) int {
		if len(arguments) != 1 {
			return 1
		}
		path := resolvePath(arguments[0], workingDirectory)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return 1
		}
		return 0
	})
}

// Copy copies arguments[0] to arguments[1], both resolved relative to
// workingDirectory if not already absolute. Returns 1 on any error.
func Copy() runner.BuiltinDriver {
	return runner.BuiltinDriverFunc(func(arguments []string, environment map[string]string, workingDirectory string) int {
		if len(arguments) != 2 {
			return 1
		}
		src := resolvePath(arguments[0], workingDirectory)
		dst := resolvePath(arguments[1], workingDirectory)

		in, err := os.Open(src)
		if err != nil {
			return 1
		}
		defer in.Close()

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return 1
		}

		out, err := os.Create(dst)
		if err != nil {
			return 1
		}
		defer out.Close()

		if _, err := io.Copy(out, in); err != nil {
			return 1
		}
		return 0
	})
}

// NewDefaultRegistry constructs a registry with the sample built-ins
// registered under the names "mkdir" and "copy".
func NewDefaultRegistry() *runner.Registry {
	reg := runner.NewRegistry()
	_ = reg.Register("mkdir", Mkdir())
	_ = reg.Register("copy", Copy())
	return reg
}

func resolvePath(path, workingDirectory string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}
