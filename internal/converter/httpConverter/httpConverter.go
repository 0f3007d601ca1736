package httpConverter

import (
	"fmt"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/model/httpModel"
)

func ConvertTransaction(t httpModel.Transaction) (model.Transaction, error) {
	date, err := model.ParseDate(t.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid date %q", t.Date)
	}
	return model.Transaction{
		ID:       t.ID,
		Date:     date,
		Type:     model.TransactionType(t.Type),
		Category: model.AssetCategory(t.Category),
		Asset:    t.Asset,
		Quantity: t.Quantity,
		Price:    t.Price,
		Currency: model.Currency(t.Currency),
		Status:   t.Status,
		Note:     t.Note,
	}, nil
}

func TransactionToHTTP(t model.Transaction) httpModel.Transaction {
	return httpModel.Transaction{
		ID:       t.ID,
		Date:     model.FormatDate(t.Date),
		Type:     string(t.Type),
		Category: string(t.Category),
		Asset:    t.Asset,
		Quantity: t.Quantity,
		Price:    t.Price,
		Total:    t.Total(),
		Currency: string(t.Currency),
		Status:   t.Status,
		Note:     t.Note,
	}
}

func TransactionsToHTTP(txs []model.Transaction) []httpModel.Transaction {
	out := make([]httpModel.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionToHTTP(t))
	}
	return out
}

// ConvertLiability treats an empty date as unknown.
func ConvertLiability(l httpModel.Liability) (model.Liability, error) {
	res := model.Liability{
		ID:           l.ID,
		Type:         model.LiabilityType(l.Type),
		Category:     l.Category,
		Name:         l.Name,
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		Status:       model.LiabilityStatus(l.Status),
		Note:         l.Note,
	}
	if l.Date != "" {
		date, err := model.ParseDate(l.Date)
		if err != nil {
			return model.Liability{}, fmt.Errorf("invalid date %q", l.Date)
		}
		res.Date = date
	}
	return res, nil
}

func LiabilityToHTTP(l model.Liability) httpModel.Liability {
	res := httpModel.Liability{
		ID:           l.ID,
		Type:         string(l.Type),
		Category:     l.Category,
		Name:         l.Name,
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		Status:       string(l.Status),
		Note:         l.Note,
	}
	if !l.Date.IsZero() {
		res.Date = model.FormatDate(l.Date)
	}
	return res
}

func LiabilitiesToHTTP(liabilities []model.Liability) []httpModel.Liability {
	out := make([]httpModel.Liability, 0, len(liabilities))
	for _, l := range liabilities {
		out = append(out, LiabilityToHTTP(l))
	}
	return out
}
