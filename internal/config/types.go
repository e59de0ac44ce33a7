// Package config loads a declarative build description from YAML: a list of
// targets, each with a configured environment and a fixed invocation list.
// It is a concrete instance of the external collaborator spec section 4.G
// marks out of scope — "the surrounding repository parses project files,
// resolves build settings, and selects tool specifications" — standing in
// for that parsing/resolution layer so the core is runnable end to end.
//
// Grounded in the teacher's internal/config (types.go, parser.go,
// validator_instance.go): per-node YAML decoding through plain struct tags
// (the builtin/path/phony executable variant is resolved in toInvocation,
// not by a custom UnmarshalYAML), go-playground/validator/v10 struct tags
// for document-shape validation, and a package-level shared validator
// instance built once.
package config

import (
	"regexp"

	"github.com/xcexec/core/internal/model"
)

var targetIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Document is the root of a build description file.
type Document struct {
	Version string         `yaml:"version" validate:"required,semver_like"`
	Targets []TargetConfig `yaml:"targets" validate:"required,min=1,dive"`
}

// TargetConfig describes one target: its dependencies, its environment, and
// the fixed invocation list the deriver hands back unchanged (spec.md does
// not model per-target invocation templating; invocations are data, not
// code, at this layer).
type TargetConfig struct {
	ID          string             `yaml:"id" validate:"required,target_id"`
	Name        string             `yaml:"name,omitempty"`
	DependsOn   []string           `yaml:"depends_on,omitempty"`
	Environment map[string]string  `yaml:"environment,omitempty"`
	Invocations []InvocationConfig `yaml:"invocations,omitempty" validate:"omitempty,dive"`
}

// InvocationConfig describes one invocation belonging to a target.
type InvocationConfig struct {
	ID                      string              `yaml:"id" validate:"required"`
	Builtin                 string              `yaml:"builtin,omitempty"`
	Path                    string              `yaml:"path,omitempty"`
	DisplayName             string              `yaml:"display_name,omitempty"`
	Arguments               []string            `yaml:"arguments,omitempty"`
	Environment             map[string]string   `yaml:"environment,omitempty"`
	WorkingDirectory        string              `yaml:"working_directory,omitempty"`
	Inputs                  []string            `yaml:"inputs,omitempty"`
	Outputs                 []string            `yaml:"outputs,omitempty"`
	PhonyInputs             []string            `yaml:"phony_inputs,omitempty"`
	InputDependencies       []string            `yaml:"input_dependencies,omitempty"`
	AuxiliaryFiles          []AuxiliaryFileSpec `yaml:"auxiliary_files,omitempty" validate:"omitempty,dive"`
	CreatesProductStructure bool                `yaml:"creates_product_structure,omitempty"`
}

// AuxiliaryFileSpec describes one auxiliary file an invocation materialises.
// Contents are given inline as text; the core treats them as opaque bytes
// once decoded (spec section 3, "binary-safe auxiliary-file writes").
type AuxiliaryFileSpec struct {
	Path       string `yaml:"path" validate:"required"`
	Contents   string `yaml:"contents"`
	Executable bool   `yaml:"executable,omitempty"`
}

// ToTarget converts the decoded config row into the core's opaque Target
// identity. Environment and invocations are derived separately by Deriver,
// matching spec section 4.F's split between target-graph construction and
// per-target environment/invocation derivation.
func (t TargetConfig) ToTarget() model.Target {
	return model.Target{ID: model.TargetID(t.ID), Name: t.Name}
}

func (t TargetConfig) toEnvironment() *model.Environment {
	return &model.Environment{Variables: t.Environment}
}

func (t TargetConfig) toInvocations() []*model.Invocation {
	invs := make([]*model.Invocation, 0, len(t.Invocations))
	for _, ic := range t.Invocations {
		invs = append(invs, ic.toInvocation())
	}
	return invs
}

func (ic InvocationConfig) toInvocation() *model.Invocation {
	exe := model.Executable{DisplayName: ic.DisplayName}
	switch {
	case ic.Builtin != "":
		exe.Kind = model.ExecutableBuiltin
		exe.BuiltinName = ic.Builtin
	case ic.Path != "":
		exe.Kind = model.ExecutableSubprocess
		exe.Path = ic.Path
	default:
		exe.Kind = model.ExecutableNone
	}

	aux := make([]model.AuxiliaryFile, 0, len(ic.AuxiliaryFiles))
	for _, spec := range ic.AuxiliaryFiles {
		aux = append(aux, model.AuxiliaryFile{
			Path:       spec.Path,
			Contents:   []byte(spec.Contents),
			Executable: spec.Executable,
		})
	}

	return &model.Invocation{
		Identifier:              ic.ID,
		Executable:              exe,
		Arguments:               ic.Arguments,
		Environment:             ic.Environment,
		WorkingDirectory:        ic.WorkingDirectory,
		Inputs:                  ic.Inputs,
		Outputs:                 ic.Outputs,
		PhonyInputs:             ic.PhonyInputs,
		InputDependencies:       ic.InputDependencies,
		AuxiliaryFiles:          aux,
		CreatesProductStructure: ic.CreatesProductStructure,
	}
}
