package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverLikePattern = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)
)

// validatorInstance configures and returns the shared validator instance
// used across the config package.
//
// Grounded in the teacher's internal/config/validator_instance.go
// validatorInstance: a sync.Once-guarded *validator.Validate with custom
// RegisterValidation rules for this domain's string formats.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver_like", func(fl validator.FieldLevel) bool {
			return semverLikePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("target_id", func(fl validator.FieldLevel) bool {
			return targetIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}
