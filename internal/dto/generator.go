package dto

import "github.com/shopspring/decimal"

// GenerateExpensesRequest configures a random expense generation run.
type GenerateExpensesRequest struct {
	Count     int
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	DaysBack  int
}

// GenerateExpensesResult summarises a generation run.
type GenerateExpensesResult struct {
	Created int
	Total   decimal.Decimal
}
