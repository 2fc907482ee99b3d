package domain

import (
	"regexp"
	"unicode/utf8"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	MaxSlugLength  = 100
	MaxLabelLength = 255
)

// Tag categorises expenses.
type Tag struct {
	TagID string `json:"tagID"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
	AuditFields
}

// IsValidSlug reports whether s is a lowercase, digit and hyphen slug of acceptable length.
func IsValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// Validate checks the tag's slug and label.
func (t Tag) Validate() error {
	var violations []apperrors.Violation
	if !IsValidSlug(t.Slug) {
		violations = append(violations, apperrors.Violation{
			Code:    "invalid_slug",
			Field:   "slug",
			Message: "slug may only contain lowercase letters, digits and hyphens (max 100)",
		})
	}
	if t.Label == "" || utf8.RuneCountInString(t.Label) > MaxLabelLength {
		violations = append(violations, apperrors.Violation{
			Code:    "invalid_label",
			Field:   "label",
			Message: "label is required and must be at most 255 characters",
		})
	}
	if len(violations) > 0 {
		return apperrors.NewValidationError(violations...)
	}
	return nil
}
