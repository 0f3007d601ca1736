package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/networth_dashboard/data/repository"
	"github.com/KotFed0t/networth_dashboard/internal/converter/dbConverter"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/model/dbModel"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

func (p *Postgres) ListTransactions(ctx context.Context) (res []model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, date, type, category, asset, quantity, price, currency, status, note
		FROM transactions ORDER BY date, created_at`

	slog.Debug("ListTransactions start", slog.String("rqID", rqID))
	defer func() {
		if err != nil {
			slog.Error("ListTransactions failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("ListTransactions completed", slog.String("rqID", rqID), slog.Int("rows", len(res)))
		}
	}()

	var rows []dbModel.Transaction
	if err = p.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	res = make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		res = append(res, dbConverter.ConvertTransaction(row))
	}
	return res, nil
}

func (p *Postgres) CreateTransaction(ctx context.Context, tx model.Transaction) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO transactions (id, date, type, category, asset, quantity, price, currency, status, note)
		VALUES (:id, :date, :type, :category, :asset, :quantity, :price, :currency, :status, :note)`

	slog.Debug("CreateTransaction start", slog.String("rqID", rqID), slog.String("id", tx.ID))
	defer logResult(rqID, "CreateTransaction", &err)

	_, err = p.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.TransactionToDB(tx))
	return mapPgErr(err)
}

func (p *Postgres) UpdateTransaction(ctx context.Context, tx model.Transaction) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `UPDATE transactions SET date = :date, type = :type, category = :category, asset = :asset,
		quantity = :quantity, price = :price, currency = :currency, status = :status, note = :note
		WHERE id = :id`

	slog.Debug("UpdateTransaction start", slog.String("rqID", rqID), slog.String("id", tx.ID))
	defer logResult(rqID, "UpdateTransaction", &err)

	res, err := p.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.TransactionToDB(tx))
	if err != nil {
		return err
	}
	return requireAffected(res.RowsAffected())
}

func (p *Postgres) DeleteTransaction(ctx context.Context, id string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("DeleteTransaction start", slog.String("rqID", rqID), slog.String("id", id))
	defer logResult(rqID, "DeleteTransaction", &err)

	res, err := p.txOrDb(ctx).ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res.RowsAffected())
}

// ImportTransactions inserts txs atomically; a single conflict rejects the batch.
func (p *Postgres) ImportTransactions(ctx context.Context, txs []model.Transaction) error {
	return p.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, tx := range txs {
			if err := p.CreateTransaction(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) ListLiabilities(ctx context.Context) (res []model.Liability, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, date, type, category, name, amount, interest_rate, status, note
		FROM liabilities ORDER BY date, created_at`

	slog.Debug("ListLiabilities start", slog.String("rqID", rqID))
	defer logResult(rqID, "ListLiabilities", &err)

	var rows []dbModel.Liability
	if err = p.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	res = make([]model.Liability, 0, len(rows))
	for _, row := range rows {
		res = append(res, dbConverter.ConvertLiability(row))
	}
	return res, nil
}

func (p *Postgres) CreateLiability(ctx context.Context, l model.Liability) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO liabilities (id, date, type, category, name, amount, interest_rate, status, note)
		VALUES (:id, :date, :type, :category, :name, :amount, :interest_rate, :status, :note)`

	slog.Debug("CreateLiability start", slog.String("rqID", rqID), slog.String("id", l.ID))
	defer logResult(rqID, "CreateLiability", &err)

	_, err = p.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.LiabilityToDB(l))
	return mapPgErr(err)
}

func (p *Postgres) UpdateLiability(ctx context.Context, l model.Liability) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `UPDATE liabilities SET date = :date, type = :type, category = :category, name = :name,
		amount = :amount, interest_rate = :interest_rate, status = :status, note = :note
		WHERE id = :id`

	slog.Debug("UpdateLiability start", slog.String("rqID", rqID), slog.String("id", l.ID))
	defer logResult(rqID, "UpdateLiability", &err)

	res, err := p.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.LiabilityToDB(l))
	if err != nil {
		return err
	}
	return requireAffected(res.RowsAffected())
}

func (p *Postgres) DeleteLiability(ctx context.Context, id string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("DeleteLiability start", slog.String("rqID", rqID), slog.String("id", id))
	defer logResult(rqID, "DeleteLiability", &err)

	res, err := p.txOrDb(ctx).ExecContext(ctx, `DELETE FROM liabilities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res.RowsAffected())
}

func logResult(rqID, op string, err *error) {
	if *err != nil && !errors.Is(*err, repository.ErrNotFound) {
		slog.Error(op+" failed", slog.String("rqID", rqID), slog.String("err", (*err).Error()))
		return
	}
	slog.Debug(op+" completed", slog.String("rqID", rqID))
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return repository.ErrAlreadyExists
	}
	return err
}
