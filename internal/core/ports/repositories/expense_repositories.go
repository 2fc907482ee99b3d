package repositories

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
)

// ExpenseFilter narrows FindExpenses.
type ExpenseFilter struct {
	// ParticipantID keeps only expenses with at least one detail for this user. Required.
	ParticipantID string
	// TagID keeps only expenses with this exact tag when set.
	TagID     *string
	Limit     int
	NextToken *string
}

// ExpenseReader defines read operations for expenses.
type ExpenseReader interface {
	// FindExpenses returns expenses matching the filter, newest first, and the token of the next page.
	FindExpenses(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, *string, error)

	// FindAllExpensesChronological returns every expense with its details, oldest first.
	FindAllExpensesChronological(ctx context.Context) ([]domain.Expense, error)

	// FindExpenseByID retrieves an expense with its details.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// GetUserLedger collects the amounts a user paid and owes.
	GetUserLedger(ctx context.Context, userID string) (*domain.UserLedger, error)
}

// ExpenseWriter defines write operations for expenses. Each call is atomic.
type ExpenseWriter interface {
	// SaveExpense inserts an expense and all its details.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpense rewrites an expense and replaces its details wholesale.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// DeleteExpense removes an expense and its details.
	DeleteExpense(ctx context.Context, expenseID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
