package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UserLedger holds the raw amounts a user's balance is computed from.
type UserLedger struct {
	UserID    string
	PartnerID *string
	Paid      []decimal.Decimal // totals of expenses the user paid
	Owed      []decimal.Decimal // detail amounts assigned to the user
}

// BalanceSnapshot is the state of every running balance at the end of a day.
type BalanceSnapshot struct {
	Date     string                     `json:"date"`
	Balances map[string]decimal.Decimal `json:"balances"`
}

// BalanceHistory is a chronologically ordered list of snapshots, one per day.
type BalanceHistory []BalanceSnapshot

// MarshalJSON encodes the history as an object keyed by date, keeping chronological key order.
func (h BalanceHistory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, snap := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(snap.Date)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(snap.Balances)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
