package marketDataService

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/data/cache"
	"github.com/KotFed0t/networth_dashboard/internal/externalApi"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApi struct {
	mu        sync.Mutex
	history   map[string][]model.PricePoint
	quotes    map[string]model.Quote
	rate      decimal.Decimal
	rateErr   error
	requested []string
}

func (f *fakeApi) GetQuote(_ context.Context, symbol string) (model.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, "quote:"+symbol)
	q, ok := f.quotes[symbol]
	if !ok {
		return model.Quote{}, externalApi.ErrNotFound
	}
	return q, nil
}

func (f *fakeApi) GetHistory(_ context.Context, symbol string, _, _ time.Time) ([]model.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, "history:"+symbol)
	points, ok := f.history[symbol]
	if !ok {
		return nil, externalApi.ErrUpstreamUnavailable
	}
	return points, nil
}

func (f *fakeApi) GetForexRate(context.Context, model.Currency, model.Currency) (decimal.Decimal, error) {
	return f.rate, f.rateErr
}

type memCache struct {
	cache.Noop
	mu     sync.Mutex
	quotes map[string]model.Quote
}

func (m *memCache) SetQuotes(_ context.Context, quotes map[string]model.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quotes == nil {
		m.quotes = map[string]model.Quote{}
	}
	for k, v := range quotes {
		m.quotes[k] = v
	}
	return nil
}

func (m *memCache) GetQuote(_ context.Context, symbol string) (model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[symbol]
	if !ok {
		return model.Quote{}, cache.ErrMiss
	}
	return q, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Market.HistoryBatchSize = 2
	cfg.Market.FallbackUSDToNTD = 32.5
	cfg.Market.SymbolAliases = map[string]string{"XAU": "GC=F"}
	return cfg
}

func TestQuerySymbol(t *testing.T) {
	aliases := map[string]string{"XAU": "GC=F"}
	tests := []struct {
		ref  model.AssetRef
		want string
	}{
		{model.AssetRef{Symbol: "2330", Category: model.CategoryStockTW}, "2330.TW"},
		{model.AssetRef{Symbol: "006208"}, "006208.TW"},
		{model.AssetRef{Symbol: "BTC", Category: model.CategoryCrypto}, "BTC-USD"},
		{model.AssetRef{Symbol: "BTC-USD", Category: model.CategoryCrypto}, "BTC-USD"},
		{model.AssetRef{Symbol: "XAU", Category: model.CategoryGold}, "GC=F"},
		{model.AssetRef{Symbol: "AAPL", Category: model.CategoryStockUS}, "AAPL"},
		{model.AssetRef{Symbol: "^GSPC"}, "^GSPC"},
		{model.AssetRef{Symbol: "0050.TW"}, "0050.TW"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuerySymbol(tt.ref, aliases), tt.ref.Symbol)
	}
}

func TestHistory_KeyedByLedgerSymbolWithIsolatedFailures(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	api := &fakeApi{history: map[string][]model.PricePoint{
		"2330.TW": {{Date: day, Price: decimal.NewFromInt(600)}},
		"BTC-USD": {{Date: day, Price: decimal.NewFromInt(40000)}},
		"AAPL":    {{Date: day, Price: decimal.NewFromInt(190)}},
	}}
	svc := New(testConfig(), api, nil)

	refs := []model.AssetRef{
		{Symbol: "2330", Category: model.CategoryStockTW},
		{Symbol: "BTC", Category: model.CategoryCrypto},
		{Symbol: "XYZ", Category: model.CategoryStockUS},
		{Symbol: "AAPL", Category: model.CategoryStockUS},
		{Symbol: "AAPL", Category: model.CategoryStockUS},
	}
	got := svc.History(context.Background(), refs, model.DateRange{Start: day, End: day})

	require.Len(t, got, 4)
	assert.Len(t, got["2330"], 1)
	assert.Len(t, got["BTC"], 1)
	assert.Len(t, got["AAPL"], 1)
	assert.NotNil(t, got["XYZ"])
	assert.Empty(t, got["XYZ"])
	assert.Len(t, api.requested, 4)
}

func TestQuotes_SkipsCashAndUsesCache(t *testing.T) {
	api := &fakeApi{quotes: map[string]model.Quote{
		"AAPL":    {Symbol: "AAPL", Price: decimal.NewFromInt(190)},
		"2330.TW": {Symbol: "2330.TW", Price: decimal.NewFromInt(600)},
	}}
	c := &memCache{}
	svc := New(testConfig(), api, c)
	refs := []model.AssetRef{
		{Symbol: "AAPL", Category: model.CategoryStockUS},
		{Symbol: "2330", Category: model.CategoryStockTW},
		{Symbol: "USD", Category: model.CategoryCash},
		{Symbol: "NOPE", Category: model.CategoryStockUS},
	}

	got := svc.Quotes(context.Background(), refs)
	require.Len(t, got, 2)
	assert.Equal(t, "2330", got["2330"].Symbol)
	assert.Len(t, api.requested, 3)

	api.requested = nil
	again := svc.Quotes(context.Background(), refs)
	assert.Len(t, again, 2)
	assert.Equal(t, []string{"quote:NOPE"}, api.requested)
}

func TestQuotes_MixedCacheHitsAndMisses(t *testing.T) {
	api := &fakeApi{quotes: map[string]model.Quote{}}
	c := &memCache{quotes: map[string]model.Quote{}}
	var refs []model.AssetRef
	for i := 0; i < 100; i++ {
		symbol := fmt.Sprintf("S%03d", i)
		q := model.Quote{Symbol: symbol, Price: decimal.NewFromInt(int64(i + 1))}
		if i%2 == 0 {
			c.quotes[symbol] = q
		} else {
			api.quotes[symbol] = q
		}
		refs = append(refs, model.AssetRef{Symbol: symbol, Category: model.CategoryStockUS})
	}
	cfg := testConfig()
	cfg.Market.HistoryBatchSize = 100
	svc := New(cfg, api, c)

	got := svc.Quotes(context.Background(), refs)
	require.Len(t, got, 100)
	assert.True(t, decimal.NewFromInt(1).Equal(got["S000"].Price))
	assert.True(t, decimal.NewFromInt(2).Equal(got["S001"].Price))
	assert.Len(t, api.requested, 50)
}

func TestForexRate(t *testing.T) {
	api := &fakeApi{rate: decimal.RequireFromString("31.2")}
	svc := New(testConfig(), api, &memCache{})
	assert.True(t, decimal.RequireFromString("31.2").Equal(svc.ForexRate(context.Background())))

	failing := New(testConfig(), &fakeApi{rateErr: errors.New("boom")}, nil)
	assert.True(t, decimal.RequireFromString("32.5").Equal(failing.ForexRate(context.Background())))

	zero := New(testConfig(), &fakeApi{rate: decimal.Zero}, nil)
	assert.True(t, decimal.RequireFromString("32.5").Equal(zero.ForexRate(context.Background())))
}
