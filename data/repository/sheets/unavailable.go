package sheets

import (
	"context"

	"github.com/KotFed0t/networth_dashboard/internal/model"
)

// UnavailableLedger stands in for the spreadsheet when no client could be
// built; every call fails with the construction error.
type UnavailableLedger struct {
	err error
}

func NewUnavailableLedger(err error) *UnavailableLedger {
	return &UnavailableLedger{err: err}
}

func (u *UnavailableLedger) ListTransactions(context.Context) ([]model.Transaction, error) {
	return nil, u.err
}

func (u *UnavailableLedger) CreateTransaction(context.Context, model.Transaction) error { return u.err }

func (u *UnavailableLedger) UpdateTransaction(context.Context, model.Transaction) error { return u.err }

func (u *UnavailableLedger) DeleteTransaction(context.Context, string) error { return u.err }

func (u *UnavailableLedger) ListLiabilities(context.Context) ([]model.Liability, error) {
	return nil, u.err
}

func (u *UnavailableLedger) CreateLiability(context.Context, model.Liability) error { return u.err }

func (u *UnavailableLedger) UpdateLiability(context.Context, model.Liability) error { return u.err }

func (u *UnavailableLedger) DeleteLiability(context.Context, string) error { return u.err }
