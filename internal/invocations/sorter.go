// Package invocations builds the intra-target data-dependency graph from
// invocation input/output file sets and orders it.
//
// Grounded in the teacher's internal/engine/dag_builder.go (BuildDAG),
// adapted from config.Step/DependsOn edges to file-set-derived edges per
// spec section 4.B.
package invocations

import (
	"sort"

	streamyerrors "github.com/xcexec/core/pkg/errors"

	"github.com/xcexec/core/internal/graph"
	"github.com/xcexec/core/internal/model"
)

// Sort orders the invocations of a single target by data dependency: every
// invocation producing an output another invocation consumes precedes it.
// ok is false if the invocation graph contains a cycle, in which case the
// caller should report "cycle detected building invocation graph" and fail
// the target.
func Sort(invocations []*model.Invocation) (ok bool, ordered []*model.Invocation) {
	outputOwner := make(map[string]*model.Invocation, len(invocations))
	for _, inv := range invocations {
		for _, out := range inv.Outputs {
			// Last write wins: source behaviour inserts every output into
			// the lookup map and keeps the latest producer. Duplicate
			// output registration is not a hard error (see DESIGN.md).
			outputOwner[out] = inv
		}
	}

	g := graph.New[*model.Invocation, struct{}]()
	for _, inv := range invocations {
		var predecessors []*model.Invocation
		for _, path := range allInputPaths(inv) {
			if producer, found := outputOwner[path]; found && producer != inv {
				predecessors = append(predecessors, producer)
			}
		}
		g.Insert(inv, struct{}{}, predecessors...)
	}

	return g.Ordered()
}

func allInputPaths(inv *model.Invocation) []string {
	total := len(inv.Inputs) + len(inv.PhonyInputs) + len(inv.InputDependencies)
	paths := make([]string, 0, total)
	paths = append(paths, inv.Inputs...)
	paths = append(paths, inv.PhonyInputs...)
	paths = append(paths, inv.InputDependencies...)
	return paths
}

// DuplicateOutputs reports outputs claimed by more than one invocation,
// sorted lexically, so callers can log a warning without changing the
// last-write-wins ordering contract.
func DuplicateOutputs(invocations []*model.Invocation) []string {
	owners := make(map[string]int, len(invocations))
	var duplicates []string
	seenDuplicate := make(map[string]struct{})
	for _, inv := range invocations {
		for _, out := range inv.Outputs {
			owners[out]++
			if owners[out] > 1 {
				if _, already := seenDuplicate[out]; !already {
					duplicates = append(duplicates, out)
					seenDuplicate[out] = struct{}{}
				}
			}
		}
	}
	sort.Strings(duplicates)
	return duplicates
}

// CycleError constructs the diagnostic the target builder logs when Sort
// fails.
func CycleError() error {
	return streamyerrors.NewCycleError("invocation", nil)
}
