// Package valuation prices current holdings and rolls them up per category.
package valuation

import (
	"math"
	"sort"
	"time"

	"github.com/KotFed0t/networth_dashboard/internal/engine/holdings"
	"github.com/KotFed0t/networth_dashboard/internal/engine/units"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/shopspring/decimal"
)

type Input struct {
	Holdings holdings.Snapshot
	// Quotes are keyed by ledger symbol.
	Quotes map[string]model.Quote
	// USDToNTD is the number of NTD per one USD.
	USDToNTD decimal.Decimal
	Now      time.Time
}

type Aggregator struct {
	units *units.Converter
}

func NewAggregator(conv *units.Converter) *Aggregator {
	return &Aggregator{units: conv}
}

// Assets values every held asset. Assets without a usable quote are priced at
// their average cost.
func (a *Aggregator) Assets(in Input) []model.Asset {
	assets := make([]model.Asset, 0, len(in.Holdings))
	for symbol, h := range in.Holdings {
		if !h.Held() {
			continue
		}
		assets = append(assets, a.value(symbol, h, in))
	}

	sortAssets(assets)

	totalUSD := decimal.Zero
	categoryTotals := make(map[model.AssetCategory]decimal.Decimal)
	for _, asset := range assets {
		totalUSD = totalUSD.Add(asset.ValueUSD)
		categoryTotals[asset.Category] = categoryTotals[asset.Category].Add(a.inCategoryCurrency(asset, in.USDToNTD))
	}
	for i := range assets {
		assets[i].Weight = units.Percent(assets[i].ValueUSD, totalUSD)
		assets[i].CategoryWeight = units.Percent(a.inCategoryCurrency(assets[i], in.USDToNTD), categoryTotals[assets[i].Category])
	}
	return assets
}

func (a *Aggregator) value(symbol string, h model.Holding, in Input) model.Asset {
	asset := model.Asset{
		Symbol:       symbol,
		Name:         symbol,
		Category:     h.Category,
		Currency:     a.currency(h),
		Quantity:     h.Quantity,
		AvgCost:      h.AvgCost,
		Price:        h.AvgCost,
		FirstBuyDate: h.FirstBuyDate,
	}

	if q, ok := in.Quotes[symbol]; ok && q.Price.IsPositive() {
		asset.Price = q.Price
		asset.Change = q.Change
		asset.Change24h = q.ChangePercent
		asset.Quoted = true
		if q.Name != "" {
			asset.Name = q.Name
		}
	}

	asset.MarketValue = a.units.Value(h.Category, h.Quantity, asset.Price)
	asset.CostBasis = a.units.Value(h.Category, h.Quantity, h.AvgCost)
	asset.UnrealizedPL = asset.MarketValue.Sub(asset.CostBasis)
	asset.ValueUSD = a.units.ToUSD(asset.MarketValue, asset.Currency, in.USDToNTD)
	asset.TotalChangePercent = units.Percent(asset.UnrealizedPL, asset.CostBasis)

	if h.FirstBuyDate != nil && !in.Now.IsZero() {
		asset.DaysHeld = int(math.Ceil(math.Abs(in.Now.Sub(*h.FirstBuyDate).Hours()) / 24))
	}
	return asset
}

// currency is the category currency, except for cash which keeps the
// currency it was deposited in.
func (a *Aggregator) currency(h model.Holding) model.Currency {
	if h.Category == model.CategoryCash && h.Currency != "" {
		return h.Currency
	}
	return a.units.Currency(h.Category)
}

func (a *Aggregator) inCategoryCurrency(asset model.Asset, usdToNTD decimal.Decimal) decimal.Decimal {
	target := a.units.Currency(asset.Category)
	if asset.Currency == target {
		return asset.MarketValue
	}
	return a.units.FromUSD(asset.ValueUSD, target, usdToNTD)
}

// Categories rolls assets up into one summary per category, in display order.
// Category totals stay in the category currency; weights use USD values.
func (a *Aggregator) Categories(assets []model.Asset, usdToNTD decimal.Decimal) []model.AssetCategorySummary {
	type rollup struct {
		value, pl, cost, usd decimal.Decimal
		count                int
	}
	rollups := make(map[model.AssetCategory]*rollup, len(model.Categories))
	for _, c := range model.Categories {
		rollups[c] = &rollup{}
	}

	totalUSD := decimal.Zero
	for _, asset := range assets {
		r, ok := rollups[asset.Category]
		if !ok {
			continue
		}
		target := a.units.Currency(asset.Category)
		r.value = r.value.Add(a.inCategoryCurrency(asset, usdToNTD))
		r.pl = r.pl.Add(a.convert(asset.UnrealizedPL, asset.Currency, target, usdToNTD))
		r.cost = r.cost.Add(a.convert(asset.CostBasis, asset.Currency, target, usdToNTD))
		r.usd = r.usd.Add(asset.ValueUSD)
		r.count++
		totalUSD = totalUSD.Add(asset.ValueUSD)
	}

	out := make([]model.AssetCategorySummary, 0, len(model.Categories))
	for _, c := range model.Categories {
		r := rollups[c]
		out = append(out, model.AssetCategorySummary{
			Category:      c,
			TotalValue:    r.value,
			Currency:      a.units.Currency(c),
			ChangePercent: units.Percent(r.pl, r.cost),
			Weight:        units.Percent(r.usd, totalUSD),
			AssetCount:    r.count,
		})
	}
	return out
}

func (a *Aggregator) convert(amount decimal.Decimal, from, to model.Currency, usdToNTD decimal.Decimal) decimal.Decimal {
	if from == to {
		return amount
	}
	return a.units.FromUSD(a.units.ToUSD(amount, from, usdToNTD), to, usdToNTD)
}

// Totals sums USD-normalized value and the value-weighted 24h change.
func Totals(assets []model.Asset) (valueUSD decimal.Decimal, changePercent float64) {
	valueUSD = decimal.Zero
	weighted := decimal.Zero
	for _, asset := range assets {
		valueUSD = valueUSD.Add(asset.ValueUSD)
		weighted = weighted.Add(asset.ValueUSD.Mul(asset.Change24h))
	}
	if !valueUSD.IsPositive() {
		return valueUSD, 0
	}
	return valueUSD, weighted.Div(valueUSD).InexactFloat64()
}

func sortAssets(assets []model.Asset) {
	order := make(map[model.AssetCategory]int, len(model.Categories))
	for i, c := range model.Categories {
		order[c] = i
	}
	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].Category != assets[j].Category {
			return order[assets[i].Category] < order[assets[j].Category]
		}
		if !assets[i].ValueUSD.Equal(assets[j].ValueUSD) {
			return assets[i].ValueUSD.GreaterThan(assets[j].ValueUSD)
		}
		return assets[i].Symbol < assets[j].Symbol
	})
}
