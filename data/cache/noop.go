package cache

import (
	"context"
	"time"

	"github.com/KotFed0t/networth_dashboard/internal/model"
)

// Noop is used when Redis is disabled; every read is a miss.
type Noop struct{}

func (Noop) SetQuotes(context.Context, map[string]model.Quote) error { return nil }

func (Noop) GetQuote(context.Context, string) (model.Quote, error) { return model.Quote{}, ErrMiss }

func (Noop) SetHistory(context.Context, string, time.Time, time.Time, []model.PricePoint) error {
	return nil
}

func (Noop) GetHistory(context.Context, string, time.Time, time.Time) ([]model.PricePoint, error) {
	return nil, ErrMiss
}
