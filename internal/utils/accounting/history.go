package accounting

import (
	"maps"
	"sort"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BuildHistory replays expenses in date order and records every user's running
// balance at the end of each UTC day that saw at least one expense. Payers are
// credited the total and participants debited their detail amount; users not
// in userIDs are ignored. Partners are not pooled.
func BuildHistory(userIDs []string, expenses []domain.Expense) domain.BalanceHistory {
	running := make(map[string]decimal.Decimal, len(userIDs))
	for _, id := range userIDs {
		running[id] = decimal.Zero
	}

	ordered := make([]domain.Expense, len(expenses))
	copy(ordered, expenses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	history := domain.BalanceHistory{}
	position := make(map[string]int)
	for _, e := range ordered {
		if bal, ok := running[e.PayerID]; ok {
			running[e.PayerID] = bal.Add(e.TotalAmount)
		}
		for _, d := range e.Details {
			if bal, ok := running[d.UserID]; ok {
				running[d.UserID] = bal.Sub(d.Amount)
			}
		}

		snap := domain.BalanceSnapshot{
			Date:     e.Date.UTC().Format(domain.DateKeyLayout),
			Balances: roundedCopy(running),
		}
		if i, seen := position[snap.Date]; seen {
			history[i] = snap
			continue
		}
		position[snap.Date] = len(history)
		history = append(history, snap)
	}
	return history
}

func roundedCopy(balances map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := maps.Clone(balances)
	for id, bal := range out {
		out[id] = bal.Round(CentPlaces)
	}
	return out
}
