package portfolioService

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/service"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/google/uuid"
)

func (s *PortfolioService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return txs, nil
}

func (s *PortfolioService) CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreateTransaction"

	slog.Debug(op+" start", slog.String("rqID", rqID))

	tx, err := normalizeTransaction(tx)
	if err != nil {
		return model.Transaction{}, err
	}
	tx.ID = uuid.NewString()

	if err = s.ledger.CreateTransaction(ctx, tx); err != nil {
		slog.Error("got error from ledger.CreateTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, mapErr(err)
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID), slog.String("id", tx.ID))
	return tx, nil
}

func (s *PortfolioService) UpdateTransaction(ctx context.Context, id string, tx model.Transaction) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateTransaction"

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("id", id))

	tx, err := normalizeTransaction(tx)
	if err != nil {
		return model.Transaction{}, err
	}
	tx.ID = id

	if err = s.ledger.UpdateTransaction(ctx, tx); err != nil {
		slog.Error("got error from ledger.UpdateTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, mapErr(err)
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID))
	return tx, nil
}

func (s *PortfolioService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		slog.Error(
			"got error from ledger.DeleteTransaction",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("id", id),
			slog.String("err", err.Error()),
		)
		return mapErr(err)
	}
	return nil
}

// ImportTransactions validates the whole batch before storing any of it.
// Rows without an id get a fresh one.
func (s *PortfolioService) ImportTransactions(ctx context.Context, txs []model.Transaction) ([]model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ImportTransactions"

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.Int("count", len(txs)))

	batch := make([]model.Transaction, 0, len(txs))
	for i, tx := range txs {
		normalized, err := normalizeTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if normalized.ID == "" {
			normalized.ID = uuid.NewString()
		}
		batch = append(batch, normalized)
	}

	var err error
	if imp, ok := s.ledger.(importer); ok {
		err = imp.ImportTransactions(ctx, batch)
	} else {
		for _, tx := range batch {
			if err = s.ledger.CreateTransaction(ctx, tx); err != nil {
				break
			}
		}
	}
	if err != nil {
		slog.Error("got error while importing transactions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, mapErr(err)
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID))
	return batch, nil
}

func normalizeTransaction(tx model.Transaction) (model.Transaction, error) {
	tx.Asset = strings.TrimSpace(tx.Asset)
	switch {
	case tx.Asset == "":
		return tx, fmt.Errorf("%w: asset is required", service.ErrInvalidInput)
	case tx.Date.IsZero():
		return tx, fmt.Errorf("%w: date is required", service.ErrInvalidInput)
	case !tx.Type.Valid():
		return tx, fmt.Errorf("%w: unknown transaction type %q", service.ErrInvalidInput, tx.Type)
	case tx.Quantity.IsNegative():
		return tx, fmt.Errorf("%w: quantity must not be negative", service.ErrInvalidInput)
	case tx.Price.IsNegative():
		return tx, fmt.Errorf("%w: price must not be negative", service.ErrInvalidInput)
	case tx.Category != "" && !tx.Category.Valid():
		return tx, fmt.Errorf("%w: unknown category %q", service.ErrInvalidInput, tx.Category)
	}

	if tx.Currency == "" {
		tx.Currency = model.CurrencyUSD
	}
	currency, err := model.ParseCurrency(string(tx.Currency))
	if err != nil {
		return tx, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	tx.Currency = currency
	tx.Date = model.ToDate(tx.Date)
	tx.Malformed = false
	return tx, nil
}

func (s *PortfolioService) ListLiabilities(ctx context.Context) ([]model.Liability, error) {
	liabilities, err := s.ledger.ListLiabilities(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return liabilities, nil
}

func (s *PortfolioService) CreateLiability(ctx context.Context, l model.Liability) (model.Liability, error) {
	l, err := normalizeLiability(l)
	if err != nil {
		return model.Liability{}, err
	}
	l.ID = uuid.NewString()

	if err = s.ledger.CreateLiability(ctx, l); err != nil {
		slog.Error(
			"got error from ledger.CreateLiability",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("err", err.Error()),
		)
		return model.Liability{}, mapErr(err)
	}
	return l, nil
}

func (s *PortfolioService) UpdateLiability(ctx context.Context, id string, l model.Liability) (model.Liability, error) {
	l, err := normalizeLiability(l)
	if err != nil {
		return model.Liability{}, err
	}
	l.ID = id

	if err = s.ledger.UpdateLiability(ctx, l); err != nil {
		slog.Error(
			"got error from ledger.UpdateLiability",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("id", id),
			slog.String("err", err.Error()),
		)
		return model.Liability{}, mapErr(err)
	}
	return l, nil
}

func (s *PortfolioService) DeleteLiability(ctx context.Context, id string) error {
	if err := s.ledger.DeleteLiability(ctx, id); err != nil {
		return mapErr(err)
	}
	return nil
}

func normalizeLiability(l model.Liability) (model.Liability, error) {
	l.Name = strings.TrimSpace(l.Name)
	if l.Status == "" {
		l.Status = model.LiabilityActive
	}
	switch {
	case l.Name == "":
		return l, fmt.Errorf("%w: name is required", service.ErrInvalidInput)
	case !l.Type.Valid():
		return l, fmt.Errorf("%w: unknown liability type %q", service.ErrInvalidInput, l.Type)
	case !l.Status.Valid():
		return l, fmt.Errorf("%w: unknown liability status %q", service.ErrInvalidInput, l.Status)
	case l.Amount.IsNegative():
		return l, fmt.Errorf("%w: amount must not be negative", service.ErrInvalidInput)
	}
	if !l.Date.IsZero() {
		l.Date = model.ToDate(l.Date)
	}
	return l, nil
}
