package sheets

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/shopspring/decimal"
)

var (
	TransactionHeader = []string{"id", "date", "type", "category", "asset", "quantity", "price", "total", "status", "note", "currency"}
	LiabilityHeader   = []string{"id", "date", "type", "category", "name", "amount", "interestRate", "status", "note"}
)

var numericSymbol = regexp.MustCompile(`^\d+$`)

// row reads cells by header name.
type row struct {
	index map[string]int
	cells []interface{}
}

func headerIndex(header []interface{}) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(fmt.Sprint(h))] = i
	}
	return index
}

func (r row) get(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.cells) || r.cells[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(r.cells[i]))
}

func (r row) empty() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(fmt.Sprint(c)) != "" {
			return false
		}
	}
	return true
}

// parseDecimal accepts sheet-formatted numbers such as "1,234.5".
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	return decimal.NewFromString(s)
}

func decodeTransaction(r row, line int) model.Transaction {
	tx := model.Transaction{
		ID:       r.get("id"),
		Type:     model.TransactionType(r.get("type")),
		Category: model.AssetCategory(r.get("category")),
		Asset:    strings.TrimPrefix(r.get("asset"), "'"),
		Currency: model.CurrencyUSD,
		Status:   r.get("status"),
		Note:     r.get("note"),
	}
	if c, err := model.ParseCurrency(r.get("currency")); err == nil {
		tx.Currency = c
	}

	date, dateErr := model.ParseDate(r.get("date"))
	tx.Date = date
	quantity, qtyErr := parseDecimal(r.get("quantity"))
	price, priceErr := parseDecimal(r.get("price"))

	if dateErr != nil || qtyErr != nil || priceErr != nil || !tx.Type.Valid() {
		slog.Warn(
			"malformed ledger row",
			slog.Int("line", line),
			slog.String("id", tx.ID),
			slog.String("quantity", r.get("quantity")),
			slog.String("price", r.get("price")),
			slog.String("type", r.get("type")),
		)
		tx.Malformed = true
		tx.Quantity = decimal.Zero
		tx.Price = decimal.Zero
		return tx
	}

	tx.Quantity = quantity
	tx.Price = price
	return tx
}

func encodeTransaction(tx model.Transaction) map[string]interface{} {
	asset := tx.Asset
	if numericSymbol.MatchString(asset) {
		asset = "'" + asset
	}
	return map[string]interface{}{
		"id":       tx.ID,
		"date":     model.FormatDate(tx.Date),
		"type":     string(tx.Type),
		"category": string(tx.Category),
		"asset":    asset,
		"quantity": tx.Quantity.String(),
		"price":    tx.Price.String(),
		"total":    tx.Total().String(),
		"status":   tx.Status,
		"note":     tx.Note,
		"currency": string(tx.Currency),
	}
}

func decodeLiability(r row) model.Liability {
	l := model.Liability{
		ID:       r.get("id"),
		Type:     model.LiabilityType(r.get("type")),
		Category: r.get("category"),
		Name:     r.get("name"),
		Status:   model.LiabilityStatus(r.get("status")),
		Note:     r.get("note"),
	}
	l.Date, _ = model.ParseDate(r.get("date"))
	if amount, err := parseDecimal(r.get("amount")); err == nil {
		l.Amount = amount
	} else {
		slog.Warn("malformed liability amount", slog.String("id", l.ID), slog.String("amount", r.get("amount")))
	}
	if rate, err := parseDecimal(r.get("interestRate")); err == nil {
		l.InterestRate = rate
	}
	return l
}

func encodeLiability(l model.Liability) map[string]interface{} {
	return map[string]interface{}{
		"id":           l.ID,
		"date":         model.FormatDate(l.Date),
		"type":         string(l.Type),
		"category":     l.Category,
		"name":         l.Name,
		"amount":       l.Amount.String(),
		"interestRate": l.InterestRate.String(),
		"status":       string(l.Status),
		"note":         l.Note,
	}
}

// align orders values by the sheet's header; unknown columns are left blank.
func align(index map[string]int, values map[string]interface{}) []interface{} {
	width := 0
	for _, i := range index {
		if i+1 > width {
			width = i + 1
		}
	}
	cells := make([]interface{}, width)
	for i := range cells {
		cells[i] = ""
	}
	for name, v := range values {
		if i, ok := index[name]; ok {
			cells[i] = v
		}
	}
	return cells
}

func toCells(header []string) []interface{} {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}
