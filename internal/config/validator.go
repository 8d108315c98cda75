package config

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	sectionIDPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("section_id", func(fl validator.FieldLevel) bool {
			return sectionIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return sferrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	premium := make(map[string]struct{}, len(cfg.Gate.Premium))
	for _, id := range cfg.Gate.Premium {
		premium[id] = struct{}{}
	}
	for i, id := range cfg.Gate.Free {
		if _, clash := premium[id]; clash {
			return sferrors.NewValidationError(fmt.Sprintf("gate.free[%d]", i), fmt.Sprintf("section %q is listed as both premium and free", id), nil)
		}
	}

	return nil
}
