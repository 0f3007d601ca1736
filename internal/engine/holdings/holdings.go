// Package holdings replays a transaction ledger into point-in-time holdings
// using weighted-average cost accounting.
package holdings

import (
	"sort"
	"time"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/shopspring/decimal"
)

// Snapshot maps asset symbols to their holding.
type Snapshot map[string]model.Holding

// SortByDate returns a copy of txs ordered by date; same-day rows keep ledger order.
func SortByDate(txs []model.Transaction) []model.Transaction {
	sorted := make([]model.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return model.ToDate(sorted[i].Date).Before(model.ToDate(sorted[j].Date))
	})
	return sorted
}

// Reconstruct folds every transaction dated on or before cutoff.
func Reconstruct(txs []model.Transaction, cutoff time.Time) Snapshot {
	day := model.ToDate(cutoff)
	book := make(map[string]*model.Holding)
	for _, tx := range SortByDate(txs) {
		if model.ToDate(tx.Date).After(day) {
			continue
		}
		apply(book, tx)
	}
	return snapshot(book)
}

// Replayer produces the same snapshots as Reconstruct for a non-decreasing
// sequence of cutoffs, folding each transaction once.
type Replayer struct {
	txs  []model.Transaction
	next int
	book map[string]*model.Holding
	last time.Time
}

func NewReplayer(txs []model.Transaction) *Replayer {
	return &Replayer{
		txs:  SortByDate(txs),
		book: make(map[string]*model.Holding),
	}
}

// AdvanceTo folds transactions up to cutoff. A cutoff earlier than the previous
// one restarts the replay from the beginning.
func (r *Replayer) AdvanceTo(cutoff time.Time) Snapshot {
	day := model.ToDate(cutoff)
	if day.Before(r.last) {
		r.next = 0
		r.book = make(map[string]*model.Holding)
	}
	r.last = day

	for r.next < len(r.txs) && !model.ToDate(r.txs[r.next].Date).After(day) {
		apply(r.book, r.txs[r.next])
		r.next++
	}
	return snapshot(r.book)
}

func apply(book map[string]*model.Holding, tx model.Transaction) {
	if tx.Malformed {
		return
	}

	h, ok := book[tx.Asset]
	if !ok {
		currency := tx.Currency
		if currency == "" {
			currency = model.CurrencyUSD
		}
		h = &model.Holding{Symbol: tx.Asset, Category: tx.Category, Currency: currency}
		book[tx.Asset] = h
	}

	switch {
	case tx.Type.Increases():
		total := h.Quantity.Add(tx.Quantity)
		if total.IsPositive() {
			cost := h.Quantity.Mul(h.AvgCost).Add(tx.Quantity.Mul(tx.Price))
			h.AvgCost = cost.Div(total)
		} else {
			h.AvgCost = decimal.Zero
		}
		h.Quantity = total

		if h.FirstBuyDate == nil && h.Held() {
			d := model.ToDate(tx.Date)
			h.FirstBuyDate = &d
		}
	case tx.Type.Decreases():
		h.Quantity = h.Quantity.Sub(tx.Quantity)
		if h.Quantity.LessThanOrEqual(model.QuantityEpsilon) {
			h.FirstBuyDate = nil
		}
	}
}

func snapshot(book map[string]*model.Holding) Snapshot {
	out := make(Snapshot, len(book))
	for symbol, h := range book {
		cp := *h
		if h.FirstBuyDate != nil {
			d := *h.FirstBuyDate
			cp.FirstBuyDate = &d
		}
		out[symbol] = cp
	}
	return out
}

// Held returns only the holdings with a quantity above the zero tolerance.
func (s Snapshot) Held() Snapshot {
	out := make(Snapshot, len(s))
	for symbol, h := range s {
		if h.Held() {
			out[symbol] = h
		}
	}
	return out
}
