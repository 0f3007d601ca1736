package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetRef identifies an asset for market-data lookups.
// Category drives query-symbol rewriting and may be empty for raw provider symbols.
type AssetRef struct {
	Symbol   string
	Category AssetCategory
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar day of t lies within the range, inclusive.
func (r DateRange) Contains(t time.Time) bool {
	d := ToDate(t)
	return !d.Before(ToDate(r.Start)) && !d.After(ToDate(r.End))
}

type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Currency      string          `json:"currency"`
	Name          string          `json:"name"`
}
