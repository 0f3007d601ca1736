package model

import "fmt"

type AssetCategory string

const (
	CategoryStockUS AssetCategory = "Stock-US"
	CategoryStockTW AssetCategory = "Stock-TW"
	CategoryCrypto  AssetCategory = "Crypto"
	CategoryGold    AssetCategory = "Gold"
	CategoryCash    AssetCategory = "Cash"
)

// Categories lists every category in display order.
var Categories = []AssetCategory{
	CategoryStockUS,
	CategoryStockTW,
	CategoryCrypto,
	CategoryGold,
	CategoryCash,
}

func (c AssetCategory) Valid() bool {
	switch c {
	case CategoryStockUS, CategoryStockTW, CategoryCrypto, CategoryGold, CategoryCash:
		return true
	}
	return false
}

func ParseCategory(s string) (AssetCategory, error) {
	c := AssetCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown asset category %q", s)
	}
	return c, nil
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyNTD Currency = "NTD"
)

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyUSD, CurrencyNTD:
		return Currency(s), nil
	case "TWD":
		return CurrencyNTD, nil
	}
	return "", fmt.Errorf("unknown currency %q", s)
}
