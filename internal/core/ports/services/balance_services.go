package services

import (
	"context"
	"io"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade exposes balances and their history.
type BalanceSvcFacade interface {
	// GetUserBalance returns the user's balance, pooled with the partner's when includePartner is set.
	GetUserBalance(ctx context.Context, userID string, includePartner bool) (decimal.Decimal, error)
	// GetUserBalances returns the balance of every given user keyed by user ID,
	// loading each ledger at most once.
	GetUserBalances(ctx context.Context, users []domain.User, includePartner bool) (map[string]decimal.Decimal, error)
	// GetHistory replays every expense into per-day running balances.
	GetHistory(ctx context.Context) (domain.BalanceHistory, error)
	// ExportHistoryXLSX writes the history as a spreadsheet.
	ExportHistoryXLSX(ctx context.Context, w io.Writer) error
}
