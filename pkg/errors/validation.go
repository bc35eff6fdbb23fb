package errors

import (
	"fmt"
	"strings"
	"unicode"
)

// FieldError describes one invalid configuration field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects field errors so that a config file can report
// every problem at once instead of failing on the first.
type ValidationError struct {
	Fields []FieldError
}

// Add records a field error.
func (v *ValidationError) Add(field, format string, args ...any) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when no field errors were recorded, otherwise an *Error
// with code ErrCodeInvalidConfig wrapping v.
func (v *ValidationError) Err() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return Wrap(ErrCodeInvalidConfig, v, "%d invalid field(s)", len(v.Fields))
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

// ValidateNonNegative records an error when value is negative.
func (v *ValidationError) ValidateNonNegative(field string, value float64) {
	if value < 0 {
		v.Add(field, "must not be negative (got %g)", value)
	}
}

// ValidateFraction records an error when value lies outside [0, 1].
func (v *ValidationError) ValidateFraction(field string, value float64) {
	if value < 0 || value > 1 {
		v.Add(field, "must be between 0 and 1 (got %g)", value)
	}
}

// ValidateNodeID validates a node identifier from external input.
//
// Rules:
//   - ID cannot be empty
//   - Maximum length of 256 characters
//   - No control characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a file path for written artifacts.
//
// Rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}
	return nil
}
