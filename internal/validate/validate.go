// Package validate provides input validation utilities for ovirtctl.
//
// Wraps the go-playground/validator library behind small helpers so that
// flag validation and create-request checks behave consistently across the
// CLI. Validation here is strictly structural: whether a cluster name
// actually exists, whether a password satisfies engine policy and similar
// semantic checks are always left to the engine's own error responses.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Field validates a single value against validator tags.
//
// Example: Field(port, "required,min=1,max=65535")
func Field(value any, tag string) error {
	return validate.Var(value, tag)
}

// Struct validates a struct using its `validate` tags and rewrites the
// library's error into a short, operator-readable message naming the first
// offending field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if errs, ok := err.(validator.ValidationErrors); ok {
		invalid = errs
	} else {
		return err
	}
	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("missing or invalid parameter(s): %s", strings.Join(fields, ", "))
}

// RequiredString validates that a string field is not empty, naming the
// field in the error for direct display to the operator.
func RequiredString(value, fieldName string) error {
	if err := Field(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// LogLevel validates the --log-level flag value.
func LogLevel(level string) error {
	return Field(level, "required,oneof=DEBUG INFO WARN ERROR")
}
