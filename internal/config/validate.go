package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	storageKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field string
	Tag   string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s failed validation for tag '%s'", e.Field, e.Tag)
}

// Unwrap exposes the underlying validator error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			d, err := time.ParseDuration(fl.Field().String())
			return err == nil && d >= 0
		})

		_ = v.RegisterValidation("storage_key", func(fl validator.FieldLevel) bool {
			return storageKeyPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks the configuration against its field rules.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func convertValidationError(err error) error {
	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		ve := ves[0]
		return &ValidationError{Field: tomlishFieldName(ve), Tag: ve.Tag(), Err: err}
	}
	return fmt.Errorf("config: %w", err)
}

// tomlishFieldName turns "Config.Watch.Debounce" into "watch.debounce".
func tomlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}
