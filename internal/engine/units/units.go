// Package units centralizes per-category currency and lot-size conversions.
package units

import (
	"fmt"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Converter struct {
	currencies map[model.AssetCategory]model.Currency
	lots       map[model.AssetCategory]decimal.Decimal
}

func NewConverter(currencies map[model.AssetCategory]model.Currency, lots map[model.AssetCategory]int64) *Converter {
	c := &Converter{
		currencies: make(map[model.AssetCategory]model.Currency, len(currencies)),
		lots:       make(map[model.AssetCategory]decimal.Decimal, len(lots)),
	}
	for category, currency := range currencies {
		c.currencies[category] = currency
	}
	for category, size := range lots {
		c.lots[category] = decimal.NewFromInt(size)
	}
	return c
}

// NewConverterFromConfig parses category-name keyed maps.
func NewConverterFromConfig(currencies map[string]string, lots map[string]int) (*Converter, error) {
	parsedCurrencies := make(map[model.AssetCategory]model.Currency, len(currencies))
	for name, code := range currencies {
		category, err := model.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		currency, err := model.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", name, err)
		}
		parsedCurrencies[category] = currency
	}

	parsedLots := make(map[model.AssetCategory]int64, len(lots))
	for name, size := range lots {
		category, err := model.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if size <= 0 {
			return nil, fmt.Errorf("category %s: lot size must be positive, got %d", name, size)
		}
		parsedLots[category] = int64(size)
	}

	return NewConverter(parsedCurrencies, parsedLots), nil
}

// Default mirrors the stock configuration: NTD-priced Taiwan lots of 1000 shares.
func Default() *Converter {
	return NewConverter(
		map[model.AssetCategory]model.Currency{
			model.CategoryStockUS: model.CurrencyUSD,
			model.CategoryStockTW: model.CurrencyNTD,
			model.CategoryCrypto:  model.CurrencyUSD,
			model.CategoryGold:    model.CurrencyUSD,
			model.CategoryCash:    model.CurrencyUSD,
		},
		map[model.AssetCategory]int64{model.CategoryStockTW: 1000},
	)
}

// Currency returns the native currency of a category, USD when unconfigured.
func (c *Converter) Currency(category model.AssetCategory) model.Currency {
	if currency, ok := c.currencies[category]; ok {
		return currency
	}
	return model.CurrencyUSD
}

func (c *Converter) LotSize(category model.AssetCategory) decimal.Decimal {
	if size, ok := c.lots[category]; ok {
		return size
	}
	return decimal.NewFromInt(1)
}

// Units converts a ledger quantity into priced units.
func (c *Converter) Units(category model.AssetCategory, quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(c.LotSize(category))
}

// Value prices a ledger quantity in the category's native currency.
func (c *Converter) Value(category model.AssetCategory, quantity, price decimal.Decimal) decimal.Decimal {
	return c.Units(category, quantity).Mul(price)
}

// ToUSD converts an amount using usdToNTD, the number of NTD per one USD.
func (c *Converter) ToUSD(amount decimal.Decimal, currency model.Currency, usdToNTD decimal.Decimal) decimal.Decimal {
	if currency == model.CurrencyNTD && usdToNTD.IsPositive() {
		return amount.Div(usdToNTD)
	}
	return amount
}

// FromUSD converts a USD amount into currency.
func (c *Converter) FromUSD(amount decimal.Decimal, currency model.Currency, usdToNTD decimal.Decimal) decimal.Decimal {
	if currency == model.CurrencyNTD {
		return amount.Mul(usdToNTD)
	}
	return amount
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}
