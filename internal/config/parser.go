package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	streamyerrors "github.com/xcexec/core/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Parse loads a build description file from disk, validates its shape, and
// checks that every depends_on reference names a target that actually
// exists in the document.
//
// Grounded in the teacher's internal/config/parser.go ParseConfig.
func Parse(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, streamyerrors.NewParseError(path, 0, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, streamyerrors.NewParseError(path, extractLine(err), err)
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks struct-tag constraints plus the one cross-field invariant
// validator/v10 can't express on its own: every depends_on value must name a
// target present in the same document.
func Validate(doc *Document) error {
	if err := validatorInstance().Struct(doc); err != nil {
		return streamyerrors.NewValidationError("targets", err.Error(), err)
	}

	known := make(map[string]struct{}, len(doc.Targets))
	for _, t := range doc.Targets {
		known[t.ID] = struct{}{}
	}
	for _, t := range doc.Targets {
		for _, dep := range t.DependsOn {
			if _, ok := known[dep]; !ok {
				return streamyerrors.NewValidationError(t.ID, fmt.Sprintf("depends_on references unknown target %q", dep), nil)
			}
		}
	}

	return nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
