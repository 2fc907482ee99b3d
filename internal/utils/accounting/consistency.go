package accounting

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountTolerance is the smallest gap between an expense total and the sum of
// its details that is rejected.
var AmountTolerance = decimal.RequireFromString("0.02")

// Violation codes.
const (
	CodeDetailsRequired    = "details_required"
	CodeAmountMismatch     = "amount_mismatch"
	CodeInvalidSplitMode   = "invalid_split_mode"
	CodeNegativeTotal      = "negative_total"
	CodeNegativeShares     = "negative_shares"
	CodeDetailUserRequired = "detail_user_required"
	CodeTitleRequired      = "title_required"
	CodeTitleTooLong       = "title_too_long"
	CodePayerRequired      = "payer_required"
)

// ValidationResult is the outcome of ValidateExpense.
type ValidationResult struct {
	Violations []apperrors.Violation
}

// OK reports whether no rule was violated.
func (r ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

// Err returns a *apperrors.ValidationError, or nil when the result is OK.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	return apperrors.NewValidationError(r.Violations...)
}

// SumAmounts adds the given amounts, counting nil as zero.
func SumAmounts(amounts []*decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		if a != nil {
			sum = sum.Add(*a)
		}
	}
	return sum
}

// CheckDetailsSum compares total with the sum of the detail amounts. It returns the
// violation and true when they differ by AmountTolerance or more.
func CheckDetailsSum(total decimal.Decimal, amounts []*decimal.Decimal) (apperrors.Violation, bool) {
	sum := SumAmounts(amounts)
	if total.Sub(sum).Abs().LessThan(AmountTolerance) {
		return apperrors.Violation{}, false
	}
	expected, actual := total, sum
	return apperrors.Violation{
		Code:     CodeAmountMismatch,
		Field:    "details",
		Message:  fmt.Sprintf("expense amount (%s) does not match the sum of its details (%s)", total.String(), sum.String()),
		Expected: &expected,
		Actual:   &actual,
	}, true
}

// ValidateExpense checks every business rule of an expense and reports all violations.
func ValidateExpense(e domain.Expense) ValidationResult {
	var res ValidationResult
	add := func(code, field, msg string) {
		res.Violations = append(res.Violations, apperrors.Violation{Code: code, Field: field, Message: msg})
	}

	if strings.TrimSpace(e.Title) == "" {
		add(CodeTitleRequired, "title", "title is required")
	} else if utf8.RuneCountInString(e.Title) > domain.MaxTitleLength {
		add(CodeTitleTooLong, "title", fmt.Sprintf("title must be at most %d characters", domain.MaxTitleLength))
	}
	if e.PayerID == "" {
		add(CodePayerRequired, "payerID", "payer is required")
	}
	if !e.SplitMode.IsValid() {
		add(CodeInvalidSplitMode, "splitMode", fmt.Sprintf("split mode %q is not one of SHARE, AMOUNT", e.SplitMode))
	}
	if e.TotalAmount.IsNegative() {
		add(CodeNegativeTotal, "totalAmount", "total amount must not be negative")
	}

	if len(e.Details) == 0 {
		add(CodeDetailsRequired, "details", "an expense needs at least one detail")
	}
	amounts := make([]*decimal.Decimal, len(e.Details))
	for i, d := range e.Details {
		field := fmt.Sprintf("details[%d]", i)
		if d.UserID == "" {
			add(CodeDetailUserRequired, field+".userID", "detail user is required")
		}
		if d.Shares != nil && *d.Shares < 0 {
			add(CodeNegativeShares, field+".shares", "shares must not be negative")
		}
		amount := d.Amount
		amounts[i] = &amount
	}
	if v, bad := CheckDetailsSum(e.TotalAmount, amounts); bad {
		res.Violations = append(res.Violations, v)
	}
	return res
}
