package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditAction is the kind of change recorded in the audit log.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditLog records who changed which expense. Label and Amount snapshot the expense
// so the entry stays readable after deletion.
type AuditLog struct {
	LogID     string          `json:"logID"`
	Action    AuditAction     `json:"action"`
	UserID    string          `json:"userID"`
	ExpenseID *string         `json:"expenseID,omitempty"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}
