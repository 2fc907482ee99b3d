package services

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/dto"
)

// GeneratorSvc fills the database with random expenses over existing users.
type GeneratorSvc interface {
	GenerateRandomExpenses(ctx context.Context, req dto.GenerateExpensesRequest) (*dto.GenerateExpensesResult, error)
}
