package memory

import (
	"context"
	"testing"

	"github.com/KotFed0t/networth_dashboard/data/repository"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_TransactionCRUD(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(nil, nil)

	tx := model.Transaction{ID: "1", Asset: "AAPL", Quantity: decimal.NewFromInt(1)}
	require.NoError(t, l.CreateTransaction(ctx, tx))
	assert.ErrorIs(t, l.CreateTransaction(ctx, tx), repository.ErrAlreadyExists)

	tx.Quantity = decimal.NewFromInt(3)
	require.NoError(t, l.UpdateTransaction(ctx, tx))

	list, err := l.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(list[0].Quantity))

	list[0].Asset = "changed"
	again, _ := l.ListTransactions(ctx)
	assert.Equal(t, "AAPL", again[0].Asset)

	require.NoError(t, l.DeleteTransaction(ctx, "1"))
	assert.ErrorIs(t, l.DeleteTransaction(ctx, "1"), repository.ErrNotFound)
	assert.ErrorIs(t, l.UpdateTransaction(ctx, tx), repository.ErrNotFound)
}

func TestLedger_LiabilityCRUD(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(nil, []model.Liability{{ID: "a", Name: "Car loan"}})

	require.NoError(t, l.UpdateLiability(ctx, model.Liability{ID: "a", Name: "Mortgage"}))
	require.NoError(t, l.CreateLiability(ctx, model.Liability{ID: "b"}))

	list, err := l.ListLiabilities(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mortgage", list[0].Name)

	require.NoError(t, l.DeleteLiability(ctx, "a"))
	assert.ErrorIs(t, l.DeleteLiability(ctx, "a"), repository.ErrNotFound)
}
