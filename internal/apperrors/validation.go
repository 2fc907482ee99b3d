package apperrors

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Violation describes a single failed business rule.
// Expected and Actual are set for amount comparisons only.
type Violation struct {
	Code     string           `json:"code"`
	Field    string           `json:"field,omitempty"`
	Message  string           `json:"message"`
	Expected *decimal.Decimal `json:"expected,omitempty"`
	Actual   *decimal.Decimal `json:"actual,omitempty"`
}

// ValidationError groups every violation found for one input. It matches ErrValidation.
type ValidationError struct {
	Violations []Violation
}

// NewValidationError returns a ValidationError for the given violations.
func NewValidationError(violations ...Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
