package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Asset struct {
	Symbol   string        `json:"symbol"`
	Name     string        `json:"name"`
	Category AssetCategory `json:"type"`
	Currency Currency      `json:"currency"`

	Quantity decimal.Decimal `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avgCost"`
	Price    decimal.Decimal `json:"price"`
	Change   decimal.Decimal `json:"change"`
	// Change24h is the quote's percent change, 0 when unquoted.
	Change24h decimal.Decimal `json:"change24h"`
	Quoted    bool            `json:"quoted"`

	MarketValue  decimal.Decimal `json:"marketValue"`
	CostBasis    decimal.Decimal `json:"costBasis"`
	UnrealizedPL decimal.Decimal `json:"unrealizedPL"`
	ValueUSD     decimal.Decimal `json:"valueUSD"`

	TotalChangePercent float64 `json:"totalChangePercentage"`
	Weight             float64 `json:"weight"`
	CategoryWeight     float64 `json:"categoryWeight"`

	FirstBuyDate *time.Time `json:"firstBuyDate,omitempty"`
	DaysHeld     int        `json:"daysHeld,omitempty"`
}

type AssetCategorySummary struct {
	Category      AssetCategory   `json:"category"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	Currency      Currency        `json:"currency"`
	ChangePercent float64         `json:"changePercent"`
	Weight        float64         `json:"weight"`
	AssetCount    int             `json:"assetCount"`
}

type Dashboard struct {
	Currency           Currency        `json:"currency"`
	TotalAssets        decimal.Decimal `json:"totalAssets"`
	TotalLiabilities   decimal.Decimal `json:"totalLiabilities"`
	NetWorth           decimal.Decimal `json:"netWorth"`
	DailyChange        decimal.Decimal `json:"dailyChange"`
	DailyChangePercent float64         `json:"dailyChangePercent"`
	YTDGrowthPercent   float64         `json:"ytdGrowthPercent"`
}
