package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitMode is the stored form of domain.SplitMode.
type SplitMode string

// Expense is a row of the expenses table.
type Expense struct {
	ExpenseID   string          `db:"expense_id"`
	Title       string          `db:"title"`
	ExpenseDate time.Time       `db:"expense_date"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	SplitMode   SplitMode       `db:"split_mode"`
	PayerID     string          `db:"payer_id"`
	TagID       *string         `db:"tag_id"`
	AuditFields
}

// ExpenseDetail is a row of the expense_details table.
type ExpenseDetail struct {
	DetailID  string          `db:"detail_id"`
	ExpenseID string          `db:"expense_id"`
	UserID    string          `db:"user_id"`
	Shares    *int32          `db:"shares"`
	Amount    decimal.Decimal `db:"amount"`
}
