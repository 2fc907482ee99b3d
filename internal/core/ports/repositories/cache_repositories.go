package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceCache stores each user's own (unpooled) balance.
type BalanceCache interface {
	// GetOwnBalance returns the cached balance and whether it was present.
	GetOwnBalance(ctx context.Context, userID string) (decimal.Decimal, bool, error)
	SetOwnBalance(ctx context.Context, userID string, balance decimal.Decimal) error
	// Invalidate drops the cached balances of the given users.
	Invalidate(ctx context.Context, userIDs ...string) error
}
