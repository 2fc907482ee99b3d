package accounting

import (
	"fmt"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CentPlaces is the number of decimal places every stored amount is rounded to.
const CentPlaces = 2

var (
	ErrNoParticipants   = fmt.Errorf("%w: at least one participant is required", apperrors.ErrInvalidArgument)
	ErrNegativeTotal    = fmt.Errorf("%w: total amount must not be negative", apperrors.ErrInvalidArgument)
	ErrNegativeWeight   = fmt.Errorf("%w: share weight must not be negative", apperrors.ErrInvalidArgument)
	ErrInvalidSplitMode = fmt.Errorf("%w: unknown split mode", apperrors.ErrInvalidArgument)
)

// Participant is one user taking part in an allocation. Weight is only read in SHARE mode.
type Participant struct {
	UserID string
	Weight int
}

// Allocation is the amount assigned to a participant.
type Allocation struct {
	UserID string
	Amount decimal.Decimal
}

// Allocate splits total across participants, rounding each amount to cents.
// Every participant but the last is rounded independently; the last one receives
// whatever remains so that the allocations always add up to total exactly.
func Allocate(total decimal.Decimal, mode domain.SplitMode, participants []Participant) ([]Allocation, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}
	total = total.Round(CentPlaces)

	var portion func(p Participant) decimal.Decimal
	switch mode {
	case domain.SplitByShares:
		weightSum := int64(0)
		for _, p := range participants {
			if p.Weight < 0 {
				return nil, fmt.Errorf("%w: participant %s has weight %d", ErrNegativeWeight, p.UserID, p.Weight)
			}
			weightSum += int64(p.Weight)
		}
		portion = func(p Participant) decimal.Decimal {
			if weightSum == 0 {
				return decimal.Zero
			}
			return total.Mul(decimal.NewFromInt(int64(p.Weight))).
				Div(decimal.NewFromInt(weightSum)).
				Round(CentPlaces)
		}
	case domain.SplitByAmounts:
		equal := total.Div(decimal.NewFromInt(int64(len(participants)))).Round(CentPlaces)
		portion = func(Participant) decimal.Decimal { return equal }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSplitMode, mode)
	}

	allocations := make([]Allocation, len(participants))
	assigned := decimal.Zero
	last := len(participants) - 1
	for i, p := range participants[:last] {
		amount := portion(p)
		assigned = assigned.Add(amount)
		allocations[i] = Allocation{UserID: p.UserID, Amount: amount}
	}
	allocations[last] = Allocation{
		UserID: participants[last].UserID,
		Amount: total.Sub(assigned).Round(CentPlaces),
	}
	return allocations, nil
}
