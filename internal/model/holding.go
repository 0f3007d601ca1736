package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityEpsilon is the tolerance under which a quantity is treated as zero.
var QuantityEpsilon = decimal.New(1, -6)

type Holding struct {
	Symbol   string
	Category AssetCategory
	Currency Currency
	Quantity decimal.Decimal
	// AvgCost is the weighted-average cost per unit in the transaction currency.
	AvgCost      decimal.Decimal
	FirstBuyDate *time.Time
}

// IsZero reports whether the quantity is effectively zero.
func (h Holding) IsZero() bool {
	return h.Quantity.Abs().LessThanOrEqual(QuantityEpsilon)
}

// Held reports whether the holding has a positive quantity above the tolerance.
func (h Holding) Held() bool {
	return h.Quantity.GreaterThan(QuantityEpsilon)
}
