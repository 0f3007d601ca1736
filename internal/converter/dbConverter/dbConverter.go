package dbConverter

import (
	"database/sql"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/model/dbModel"
)

func ConvertTransaction(t dbModel.Transaction) model.Transaction {
	currency := model.Currency(t.Currency)
	if currency == "" {
		currency = model.CurrencyUSD
	}
	return model.Transaction{
		ID:       t.ID,
		Date:     model.ToDate(t.Date),
		Type:     model.TransactionType(t.Type),
		Category: model.AssetCategory(t.Category.String),
		Asset:    t.Asset,
		Quantity: t.Quantity,
		Price:    t.Price,
		Currency: currency,
		Status:   t.Status,
		Note:     t.Note,
	}
}

func TransactionToDB(t model.Transaction) dbModel.Transaction {
	return dbModel.Transaction{
		ID:       t.ID,
		Date:     model.ToDate(t.Date),
		Type:     string(t.Type),
		Category: sql.NullString{String: string(t.Category), Valid: t.Category != ""},
		Asset:    t.Asset,
		Quantity: t.Quantity,
		Price:    t.Price,
		Currency: string(t.Currency),
		Status:   t.Status,
		Note:     t.Note,
	}
}

func ConvertLiability(l dbModel.Liability) model.Liability {
	return model.Liability{
		ID:           l.ID,
		Date:         model.ToDate(l.Date),
		Type:         model.LiabilityType(l.Type),
		Category:     l.Category,
		Name:         l.Name,
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		Status:       model.LiabilityStatus(l.Status),
		Note:         l.Note,
	}
}

func LiabilityToDB(l model.Liability) dbModel.Liability {
	return dbModel.Liability{
		ID:           l.ID,
		Date:         model.ToDate(l.Date),
		Type:         string(l.Type),
		Category:     l.Category,
		Name:         l.Name,
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		Status:       string(l.Status),
		Note:         l.Note,
	}
}
