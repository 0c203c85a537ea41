package domain

import "strings"

// ValidationError aggregates field-level failures for one request. The
// caller is expected to re-prompt for the named fields only.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError wraps field errors; returns nil when there are none
// so callers can `if err := ...; err != nil` directly.
func NewValidationError(fields ...FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, "; ")
}
