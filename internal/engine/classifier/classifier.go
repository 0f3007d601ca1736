package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KotFed0t/networth_dashboard/internal/model"
)

// legacyStock is the pre-split category still found on old ledger rows.
const legacyStock = "Stock"

var taiwanSymbol = regexp.MustCompile(`^\d{4,6}$`)

// IsTaiwanSymbol reports whether symbol is a bare Taiwan exchange code (4 to 6 digits).
func IsTaiwanSymbol(symbol string) bool {
	return taiwanSymbol.MatchString(symbol)
}

// DefaultTickers is the built-in symbol allowlist.
func DefaultTickers() map[string]model.AssetCategory {
	return map[string]model.AssetCategory{
		"BTC":  model.CategoryCrypto,
		"ETH":  model.CategoryCrypto,
		"SOL":  model.CategoryCrypto,
		"USDT": model.CategoryCrypto,
		"USDC": model.CategoryCrypto,
		"USD":  model.CategoryCash,
		"NTD":  model.CategoryCash,
		"GLD":  model.CategoryGold,
		"GOLD": model.CategoryGold,
		"XAU":  model.CategoryGold,
		"IAU":  model.CategoryGold,
	}
}

type Classifier struct {
	tickers map[string]model.AssetCategory
}

func New(tickers map[string]model.AssetCategory) *Classifier {
	cp := make(map[string]model.AssetCategory, len(tickers))
	for symbol, category := range tickers {
		cp[symbol] = category
	}
	return &Classifier{tickers: cp}
}

// NewFromConfig builds a classifier from a symbol -> category-name map.
func NewFromConfig(tickers map[string]string) (*Classifier, error) {
	parsed := make(map[string]model.AssetCategory, len(tickers))
	for symbol, name := range tickers {
		category, err := model.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("classifier ticker %s: %w", symbol, err)
		}
		parsed[symbol] = category
	}
	return New(parsed), nil
}

// Classify returns the explicit category when it is valid and derives one from
// the symbol otherwise. A legacy "Stock" category is narrowed to US or TW.
func (c *Classifier) Classify(symbol, explicit string) model.AssetCategory {
	explicit = strings.TrimSpace(explicit)
	if category := model.AssetCategory(explicit); category.Valid() {
		return category
	}

	if explicit == legacyStock {
		if IsTaiwanSymbol(symbol) {
			return model.CategoryStockTW
		}
		return model.CategoryStockUS
	}

	if category, ok := c.tickers[symbol]; ok {
		return category
	}
	if IsTaiwanSymbol(symbol) {
		return model.CategoryStockTW
	}
	return model.CategoryStockUS
}

// Tag returns a copy of txs with every category resolved.
func (c *Classifier) Tag(txs []model.Transaction) []model.Transaction {
	tagged := make([]model.Transaction, len(txs))
	for i, tx := range txs {
		tx.Category = c.Classify(tx.Asset, string(tx.Category))
		tagged[i] = tx
	}
	return tagged
}
