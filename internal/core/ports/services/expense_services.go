package services

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
)

// ExpenseReaderSvc defines read operations on expenses. Only participants see an expense.
type ExpenseReaderSvc interface {
	GetExpenseByID(ctx context.Context, expenseID string, requestingUserID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, requestingUserID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// ExpenseWriterSvc defines write operations on expenses.
type ExpenseWriterSvc interface {
	CreateExpense(ctx context.Context, req dto.ExpenseRequest, actorID string) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expenseID string, req dto.ExpenseRequest, actorID string) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string, actorID string) error
}

// ExpenseSvcFacade combines all expense service interfaces.
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
