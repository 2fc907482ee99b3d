package accounting_test

import (
	"testing"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func ledgers(ls ...domain.UserLedger) accounting.LedgerLookup {
	byID := make(map[string]domain.UserLedger, len(ls))
	for _, l := range ls {
		byID[l.UserID] = l
	}
	return func(id string) (domain.UserLedger, bool) {
		l, ok := byID[id]
		return l, ok
	}
}

func TestComputeBalance(t *testing.T) {
	// u1 paid 100, owes 50 and 30.
	u1 := domain.UserLedger{
		UserID: "u1",
		Paid:   []decimal.Decimal{dec("100")},
		Owed:   []decimal.Decimal{dec("50"), dec("30")},
	}
	u2 := domain.UserLedger{
		UserID: "u2",
		Owed:   []decimal.Decimal{dec("20")},
	}
	lookup := ledgers(u1, u2)

	assert.Equal(t, "20", accounting.ComputeBalance(u1, lookup, false).String())
	assert.Equal(t, "-20", accounting.ComputeBalance(u2, lookup, false).String())
	assert.Equal(t, "20", accounting.ComputeBalance(u1, lookup, true).String(), "no partner means no pooling")
}

func TestComputeBalance_PartnerPooling(t *testing.T) {
	a := domain.UserLedger{UserID: "a", PartnerID: strPtr("b"), Paid: []decimal.Decimal{dec("70")}}
	b := domain.UserLedger{UserID: "b", PartnerID: strPtr("a"), Paid: []decimal.Decimal{dec("30")}}
	lookup := ledgers(a, b)

	assert.Equal(t, "100", accounting.ComputeBalance(a, lookup, true).String())
	assert.Equal(t, "100", accounting.ComputeBalance(b, lookup, true).String())
	assert.Equal(t, "70", accounting.ComputeBalance(a, lookup, false).String())
}

func TestComputeBalance_PoolsOneLevelOnly(t *testing.T) {
	// a -> b -> c is not a valid symmetric link, but pooling must still stop after b.
	a := domain.UserLedger{UserID: "a", PartnerID: strPtr("b"), Paid: []decimal.Decimal{dec("1")}}
	b := domain.UserLedger{UserID: "b", PartnerID: strPtr("c"), Paid: []decimal.Decimal{dec("2")}}
	c := domain.UserLedger{UserID: "c", Paid: []decimal.Decimal{dec("4")}}

	assert.Equal(t, "3", accounting.ComputeBalance(a, ledgers(a, b, c), true).String())
}

func TestComputeBalance_UnknownPartnerIsIgnored(t *testing.T) {
	a := domain.UserLedger{UserID: "a", PartnerID: strPtr("ghost"), Paid: []decimal.Decimal{dec("5")}}
	assert.Equal(t, "5", accounting.ComputeBalance(a, ledgers(a), true).String())
}

func TestComputeBalance_RoundsOnceAtTheEnd(t *testing.T) {
	a := domain.UserLedger{UserID: "a", PartnerID: strPtr("b"), Paid: []decimal.Decimal{dec("0.004")}}
	b := domain.UserLedger{UserID: "b", PartnerID: strPtr("a"), Paid: []decimal.Decimal{dec("0.004")}}

	// Rounding each side first would give 0.00 + 0.00.
	assert.Equal(t, "0.01", accounting.ComputeBalance(a, ledgers(a, b), true).StringFixed(2))
}
