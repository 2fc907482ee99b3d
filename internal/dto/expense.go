package dto

import (
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// DetailRequest is one participant line of an expense request.
// Amount may be omitted on every line to let the server allocate the total.
type DetailRequest struct {
	UserID string           `json:"userID" binding:"required"`
	Shares *int             `json:"shares" binding:"omitempty,gte=0"`
	Amount *decimal.Decimal `json:"amount"`
}

// ExpenseRequest is the body of expense create (POST) and full replace (PUT).
type ExpenseRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	Date        time.Time        `json:"date" binding:"required"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	SplitMode   domain.SplitMode `json:"splitMode" binding:"required,splitmode"`
	PayerID     string           `json:"payerID" binding:"required"`
	TagID       *string          `json:"tagID"`
	Details     []DetailRequest  `json:"details" binding:"dive"`
}

// RoundedTotal returns the total as it is stored, rounded to cents.
func (r ExpenseRequest) RoundedTotal() decimal.Decimal {
	return r.TotalAmount.Round(accounting.CentPlaces)
}

// DetailAmounts returns the requested amounts in order, rounded to cents, nil where omitted.
func (r ExpenseRequest) DetailAmounts() []*decimal.Decimal {
	amounts := make([]*decimal.Decimal, len(r.Details))
	for i, d := range r.Details {
		if d.Amount != nil {
			rounded := d.Amount.Round(accounting.CentPlaces)
			amounts[i] = &rounded
		}
	}
	return amounts
}

// AmountsOmitted reports whether every detail leaves its amount to the server.
func (r ExpenseRequest) AmountsOmitted() bool {
	for _, d := range r.Details {
		if d.Amount != nil {
			return false
		}
	}
	return len(r.Details) > 0
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Tag       string  `form:"tag"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// DetailResponse is the API view of a detail.
type DetailResponse struct {
	DetailID string          `json:"detailID"`
	UserID   string          `json:"userID"`
	Shares   *int            `json:"shares,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExpenseResponse is the API view of an expense.
type ExpenseResponse struct {
	ExpenseID     string           `json:"expenseID"`
	Title         string           `json:"title"`
	Date          time.Time        `json:"date"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	SplitMode     domain.SplitMode `json:"splitMode"`
	PayerID       string           `json:"payerID"`
	TagID         *string          `json:"tagID,omitempty"`
	Details       []DetailResponse `json:"details"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy string           `json:"lastUpdatedBy"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to its API view.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	details := make([]DetailResponse, len(e.Details))
	for i, d := range e.Details {
		details[i] = DetailResponse{
			DetailID: d.DetailID,
			UserID:   d.UserID,
			Shares:   d.Shares,
			Amount:   d.Amount,
		}
	}
	return ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		Title:         e.Title,
		Date:          e.Date,
		TotalAmount:   e.TotalAmount,
		SplitMode:     e.SplitMode,
		PayerID:       e.PayerID,
		TagID:         e.TagID,
		Details:       details,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
}

// ToListExpensesResponse converts a page of domain expenses.
func ToListExpensesResponse(expenses []domain.Expense, nextToken *string) ListExpensesResponse {
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return ListExpensesResponse{Expenses: out, NextToken: nextToken}
}
