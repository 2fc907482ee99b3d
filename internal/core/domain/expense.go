package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitMode indicates how an expense is divided among its participants.
type SplitMode string

const (
	// SplitByShares divides the total proportionally to each participant's share weight.
	SplitByShares SplitMode = "SHARE"
	// SplitByAmounts carries an explicit amount per participant (equal split when generated).
	SplitByAmounts SplitMode = "AMOUNT"
)

// IsValid reports whether m is a known split mode.
func (m SplitMode) IsValid() bool {
	return m == SplitByShares || m == SplitByAmounts
}

// MaxTitleLength bounds Expense.Title in runes.
const MaxTitleLength = 255

// Expense is a single purchase paid by one user and shared among several.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	SplitMode   SplitMode       `json:"splitMode"`
	PayerID     string          `json:"payerID"`
	TagID       *string         `json:"tagID,omitempty"`
	Details     []Detail        `json:"details"`
	AuditFields
}

// Detail is one participant's share of an expense.
type Detail struct {
	DetailID  string          `json:"detailID"`
	ExpenseID string          `json:"expenseID"`
	UserID    string          `json:"userID"`
	Shares    *int            `json:"shares,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// ParticipantIDs returns the distinct users appearing in the details, in order.
func (e Expense) ParticipantIDs() []string {
	seen := make(map[string]struct{}, len(e.Details))
	ids := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		if _, ok := seen[d.UserID]; ok {
			continue
		}
		seen[d.UserID] = struct{}{}
		ids = append(ids, d.UserID)
	}
	return ids
}

// HasParticipant reports whether userID owes a share of the expense.
func (e Expense) HasParticipant(userID string) bool {
	for _, d := range e.Details {
		if d.UserID == userID {
			return true
		}
	}
	return false
}

// AffectedUserIDs returns the payer and every participant. Their balances change with the expense.
func (e Expense) AffectedUserIDs() []string {
	ids := e.ParticipantIDs()
	if e.PayerID != "" && !e.HasParticipant(e.PayerID) {
		ids = append(ids, e.PayerID)
	}
	return ids
}
