// Package memory is a process-local ledger used for demos and tests.
package memory

import (
	"context"
	"sync"

	"github.com/KotFed0t/networth_dashboard/data/repository"
	"github.com/KotFed0t/networth_dashboard/internal/model"
)

type Ledger struct {
	mu           sync.RWMutex
	transactions []model.Transaction
	liabilities  []model.Liability
}

func NewLedger(txs []model.Transaction, liabilities []model.Liability) *Ledger {
	l := &Ledger{}
	l.transactions = append(l.transactions, txs...)
	l.liabilities = append(l.liabilities, liabilities...)
	return l
}

func (l *Ledger) ListTransactions(_ context.Context) ([]model.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.Transaction(nil), l.transactions...), nil
}

func (l *Ledger) CreateTransaction(_ context.Context, tx model.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.transactions {
		if t.ID == tx.ID {
			return repository.ErrAlreadyExists
		}
	}
	l.transactions = append(l.transactions, tx)
	return nil
}

func (l *Ledger) UpdateTransaction(_ context.Context, tx model.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.transactions {
		if t.ID == tx.ID {
			l.transactions[i] = tx
			return nil
		}
	}
	return repository.ErrNotFound
}

func (l *Ledger) DeleteTransaction(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.transactions {
		if t.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (l *Ledger) ListLiabilities(_ context.Context) ([]model.Liability, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.Liability(nil), l.liabilities...), nil
}

func (l *Ledger) CreateLiability(_ context.Context, liability model.Liability) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, x := range l.liabilities {
		if x.ID == liability.ID {
			return repository.ErrAlreadyExists
		}
	}
	l.liabilities = append(l.liabilities, liability)
	return nil
}

func (l *Ledger) UpdateLiability(_ context.Context, liability model.Liability) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, x := range l.liabilities {
		if x.ID == liability.ID {
			l.liabilities[i] = liability
			return nil
		}
	}
	return repository.ErrNotFound
}

func (l *Ledger) DeleteLiability(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, x := range l.liabilities {
		if x.ID == id {
			l.liabilities = append(l.liabilities[:i], l.liabilities[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
