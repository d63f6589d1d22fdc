package core

// validation.go holds the two kinds of checks the service performs:
//  1. Feed header checks: expected columns missing from a feed header.
//     These are reported for logging only; mapping never fails.
//  2. Request checks: a submission field failed validation. These are
//     returned to the caller as *ValidationError.

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a single rejected request field.
type ValidationError struct {
	Field string // Request field name
	Value string // The rejected value
	Err   error  // One of the request sentinels in errors.go
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a request validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CheckColumns returns the required columns of def that are absent from
// header. Header names are compared exactly.
func CheckColumns(def FeedDefinition, header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, spec := range def.FieldSpecs {
		if spec.Required && !present[spec.Name] {
			missing = append(missing, spec.Name)
		}
	}
	return missing
}

// MissingColumnsError formats missing columns for logs.
func MissingColumnsError(def FeedDefinition, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%s feed: missing required column %s", def.Kind, strings.Join(missing, ", "))
}
