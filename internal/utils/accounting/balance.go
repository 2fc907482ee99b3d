package accounting

import (
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerLookup resolves a user's ledger by id. ok is false for unknown users.
type LedgerLookup func(userID string) (ledger domain.UserLedger, ok bool)

// OwnBalance is what the user paid minus what the user owes, unrounded.
func OwnBalance(l domain.UserLedger) decimal.Decimal {
	paid := decimal.Sum(decimal.Zero, l.Paid...)
	owed := decimal.Sum(decimal.Zero, l.Owed...)
	return paid.Sub(owed)
}

// ComputeBalance returns the user's balance rounded to cents. With includePartner
// set and a partner linked, the partner's own balance is added. Pooling stops
// there: the partner's partner is never followed.
func ComputeBalance(l domain.UserLedger, lookup LedgerLookup, includePartner bool) decimal.Decimal {
	return computeBalance(l, lookup, includePartner).Round(CentPlaces)
}

func computeBalance(l domain.UserLedger, lookup LedgerLookup, includePartner bool) decimal.Decimal {
	balance := OwnBalance(l)
	if !includePartner || l.PartnerID == nil || lookup == nil {
		return balance
	}
	partner, ok := lookup(*l.PartnerID)
	if !ok {
		return balance
	}
	return balance.Add(computeBalance(partner, lookup, false))
}
