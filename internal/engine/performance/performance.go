// Package performance turns holdings and price history into daily
// percentage-return series.
package performance

import (
	"sort"
	"time"

	"github.com/KotFed0t/networth_dashboard/internal/engine/holdings"
	"github.com/KotFed0t/networth_dashboard/internal/engine/units"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// History maps ledger symbols to their closes in ascending date order.
type History map[string][]model.PricePoint

// PriceOn returns the close for day: the exact match, else the latest close
// before day, else the earliest close. ok is false when points is empty.
func PriceOn(points []model.PricePoint, day time.Time) (price decimal.Decimal, ok bool) {
	if len(points) == 0 {
		return decimal.Zero, false
	}
	d := model.ToDate(day)
	idx := sort.Search(len(points), func(i int) bool {
		return model.ToDate(points[i].Date).After(d)
	})
	if idx == 0 {
		return points[0].Price, true
	}
	return points[idx-1].Price, true
}

// Valuer prices a holding at a unit price.
type Valuer func(h model.Holding, price decimal.Decimal) decimal.Decimal

// Native values holdings in their category currency. Use it for series whose
// members share one currency.
func Native(conv *units.Converter) Valuer {
	return func(h model.Holding, price decimal.Decimal) decimal.Decimal {
		return conv.Value(h.Category, h.Quantity, price)
	}
}

// InUSD normalizes every holding to USD so categories can be mixed.
func InUSD(conv *units.Converter, usdToNTD decimal.Decimal) Valuer {
	return func(h model.Holding, price decimal.Decimal) decimal.Decimal {
		return conv.ToUSD(conv.Value(h.Category, h.Quantity, price), conv.Currency(h.Category), usdToNTD)
	}
}

// PortfolioValue values the held part of snap at day's prices. Assets without
// history contribute nothing.
func PortfolioValue(snap holdings.Snapshot, history History, day time.Time, value Valuer) decimal.Decimal {
	total := decimal.Zero
	for symbol, h := range snap {
		if !h.Held() {
			continue
		}
		price, ok := PriceOn(history[symbol], day)
		if !ok {
			continue
		}
		total = total.Add(value(h, price))
	}
	return total
}

// PortfolioReturns builds one point per calendar day of rng, capped at today.
// The baseline is the first positive daily value; days before it report 0.
func PortfolioReturns(
	txs []model.Transaction,
	history History,
	rng model.DateRange,
	today time.Time,
	valuer Valuer,
) []model.PerformanceDataPoint {
	points := []model.PerformanceDataPoint{}
	if len(txs) == 0 {
		return points
	}

	end := model.ToDate(rng.End)
	if t := model.ToDate(today); t.Before(end) {
		end = t
	}

	replayer := holdings.NewReplayer(txs)
	baseline := decimal.Zero
	for day := model.ToDate(rng.Start); !day.After(end); day = day.AddDate(0, 0, 1) {
		value := PortfolioValue(replayer.AdvanceTo(day), history, day, valuer)
		if !baseline.IsPositive() && value.IsPositive() {
			baseline = value
		}

		ret := 0.0
		if baseline.IsPositive() {
			ret = value.Sub(baseline).Div(baseline).Mul(hundred).InexactFloat64()
		}
		points = append(points, model.PerformanceDataPoint{Date: model.FormatDate(day), Value: ret})
	}
	return points
}

// AssetReturns is the price-only return of one instrument relative to its
// first close inside rng.
func AssetReturns(points []model.PricePoint, rng model.DateRange) []model.PerformanceDataPoint {
	inRange := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if rng.Contains(p.Date) {
			inRange = append(inRange, p)
		}
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].Date.Before(inRange[j].Date)
	})

	out := []model.PerformanceDataPoint{}
	if len(inRange) == 0 || !inRange[0].Price.IsPositive() {
		return out
	}

	base := inRange[0].Price
	lastDay := ""
	for _, p := range inRange {
		day := model.FormatDate(p.Date)
		ret := p.Price.Sub(base).Div(base).Mul(hundred).InexactFloat64()
		if day == lastDay {
			out[len(out)-1].Value = ret
			continue
		}
		out = append(out, model.PerformanceDataPoint{Date: day, Value: ret})
		lastDay = day
	}
	return out
}

// FilterCategory keeps the transactions of one category.
func FilterCategory(txs []model.Transaction, category model.AssetCategory) []model.Transaction {
	out := make([]model.Transaction, 0)
	for _, tx := range txs {
		if tx.Category == category {
			out = append(out, tx)
		}
	}
	return out
}
