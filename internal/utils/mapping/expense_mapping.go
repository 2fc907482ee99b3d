package mapping

import (
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense (details excluded).
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		Title:       d.Title,
		ExpenseDate: d.Date,
		TotalAmount: d.TotalAmount,
		SplitMode:   models.SplitMode(d.SplitMode),
		PayerID:     d.PayerID,
		TagID:       d.TagID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense and its details to a domain Expense.
func ToDomainExpense(m models.Expense, details []models.ExpenseDetail) domain.Expense {
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		Title:       m.Title,
		Date:        m.ExpenseDate,
		TotalAmount: m.TotalAmount,
		SplitMode:   domain.SplitMode(m.SplitMode),
		PayerID:     m.PayerID,
		TagID:       m.TagID,
		Details:     ToDomainDetailSlice(details),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDetail converts a domain Detail to a model ExpenseDetail
func ToModelDetail(d domain.Detail) models.ExpenseDetail {
	var shares *int32
	if d.Shares != nil {
		s := int32(*d.Shares)
		shares = &s
	}
	return models.ExpenseDetail{
		DetailID:  d.DetailID,
		ExpenseID: d.ExpenseID,
		UserID:    d.UserID,
		Shares:    shares,
		Amount:    d.Amount,
	}
}

// ToDomainDetail converts a model ExpenseDetail to a domain Detail
func ToDomainDetail(m models.ExpenseDetail) domain.Detail {
	var shares *int
	if m.Shares != nil {
		s := int(*m.Shares)
		shares = &s
	}
	return domain.Detail{
		DetailID:  m.DetailID,
		ExpenseID: m.ExpenseID,
		UserID:    m.UserID,
		Shares:    shares,
		Amount:    m.Amount,
	}
}

// ToDomainDetailSlice converts a slice of model details.
func ToDomainDetailSlice(ms []models.ExpenseDetail) []domain.Detail {
	ds := make([]domain.Detail, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDetail(m)
	}
	return ds
}
