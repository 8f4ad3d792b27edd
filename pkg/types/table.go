package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every typed error below unwraps to exactly one of these.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrConversion    = errors.New("conversion failed")
	ErrFieldCoercion = errors.New("field coercion failed")
)

// Document and pipeline errors.
var (
	ErrInvalidDocument   = errors.New("invalid table document")
	ErrIDSpaceExhausted  = errors.New("no free id left in range")
	ErrBusy              = errors.New("a pipeline run is already in progress")
	ErrConverterNotFound = errors.New("converter executable not found")
)

// ValidationError reports a caller-supplied value that was rejected before
// any document was touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand used by the patchers.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing input table, template, row or executable.
type NotFoundError struct {
	What string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s not found", e.What)
	}
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConversionError carries the captured output of a failed converter call.
type ConversionError struct {
	Op     string
	Path   string
	Stdout string
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %v", e.Op, e.Path, e.Err)
	if s := strings.TrimSpace(e.Stdout); s != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s", s)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", s)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Err}
}

// FieldCoercionError reports a property value that could not be coerced to
// the type its field implies.
type FieldCoercionError struct {
	Row   string
	Field string
	Value string
	Err   error
}

func (e *FieldCoercionError) Error() string {
	msg := fmt.Sprintf("row %q field %q", e.Row, e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" value %s", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldCoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFieldCoercion}
	}
	return []error{ErrFieldCoercion, e.Err}
}
