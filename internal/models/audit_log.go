package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditLog is a row of the audit_logs table.
type AuditLog struct {
	LogID     string          `db:"log_id"`
	Action    string          `db:"action"`
	UserID    string          `db:"user_id"`
	ExpenseID *string         `db:"expense_id"`
	Label     string          `db:"label"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}
