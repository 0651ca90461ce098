package validation

import (
	"errors"
	"strings"
)

// ErrValidationFailed matches every *Errors value via errors.Is.
var ErrValidationFailed = errors.New("validation failed")

// Reason explains why a field was rejected.
type Reason string

const (
	ReasonMissing    Reason = "missing"
	ReasonTooShort   Reason = "too_short"
	ReasonTooLong    Reason = "too_long"
	ReasonOutOfRange Reason = "out_of_range"
	ReasonInvalid    Reason = "invalid"
)

type FieldError struct {
	Field  string `json:"field"`
	Reason Reason `json:"reason"`
}

// Errors collects every rejected field of one input.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+string(f.Reason))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, ", ")
}

func (e *Errors) Is(target error) bool {
	return target == ErrValidationFailed
}

// Reason returns the reason recorded for field, if any.
func (e *Errors) Reason(field string) (Reason, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Reason, true
		}
	}
	return "", false
}

func (e *Errors) add(field string, reason Reason) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// merge appends the fields of err when it is an *Errors.
func (e *Errors) merge(err error) {
	var other *Errors
	if errors.As(err, &other) {
		e.Fields = append(e.Fields, other.Fields...)
	}
}

func (e *Errors) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
