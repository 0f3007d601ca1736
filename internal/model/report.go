package model

import "time"

// PortfolioReport is the input of the spreadsheet export.
type PortfolioReport struct {
	GeneratedAt  time.Time
	Assets       []Asset
	Categories   []AssetCategorySummary
	Transactions []Transaction
}
