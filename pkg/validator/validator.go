package validator

import (
	"errors"
	"strings"
)

// ErrValidationFailed is matched by every non-empty Errors value.
var ErrValidationFailed = errors.New("validation failed")

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field errors in rule order.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidationFailed) match.
func (e Errors) Is(target error) bool {
	return target == ErrValidationFailed
}

// Has reports whether field failed at least one rule.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Rule is a deferred check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error FieldError
}

// Apply runs every rule and returns Errors for the failing ones, or nil.
func Apply(rules ...Rule) error {
	var errs Errors
	for _, r := range rules {
		if !r.Check() {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Extract returns the field errors carried by err, if any.
func Extract(err error) Errors {
	var errs Errors
	if errors.As(err, &errs) {
		return errs
	}
	return nil
}
