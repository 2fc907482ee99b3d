package dto

import "github.com/SscSPs/expense_sharing_app/internal/apperrors"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error      string                `json:"error"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}
