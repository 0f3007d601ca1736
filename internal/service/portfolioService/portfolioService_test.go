package portfolioService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/data/repository"
	"github.com/KotFed0t/networth_dashboard/data/repository/memory"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeMarket struct {
	history map[string][]model.PricePoint
	quotes  map[string]model.Quote
	rate    decimal.Decimal
}

func (m *fakeMarket) History(_ context.Context, refs []model.AssetRef, _ model.DateRange) map[string][]model.PricePoint {
	out := make(map[string][]model.PricePoint, len(refs))
	for _, ref := range refs {
		out[ref.Symbol] = m.history[ref.Symbol]
	}
	return out
}

func (m *fakeMarket) Quotes(_ context.Context, refs []model.AssetRef) map[string]model.Quote {
	out := make(map[string]model.Quote)
	for _, ref := range refs {
		if q, ok := m.quotes[ref.Symbol]; ok {
			out[ref.Symbol] = q
		}
	}
	return out
}

func (m *fakeMarket) ForexRate(context.Context) decimal.Decimal {
	return m.rate
}

type fakeReport struct {
	got model.PortfolioReport
}

func (r *fakeReport) Generate(_ context.Context, report model.PortfolioReport) ([]byte, string, error) {
	r.got = report
	return []byte("xlsx"), ".xlsx", nil
}

type importingLedger struct {
	*memory.Ledger
	batches int
}

func (l *importingLedger) ImportTransactions(ctx context.Context, txs []model.Transaction) error {
	l.batches++
	for _, tx := range txs {
		if err := l.CreateTransaction(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

type unavailableLedger struct {
	*memory.Ledger
}

func (unavailableLedger) ListTransactions(context.Context) ([]model.Transaction, error) {
	return nil, repository.ErrMissingCredentials
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Portfolio.ClassifierTickers = map[string]string{"BTC": "Crypto", "USD": "Cash", "NTD": "Cash"}
	cfg.Portfolio.CategoryCurrencies = map[string]string{
		"Stock-US": "USD", "Stock-TW": "NTD", "Crypto": "USD", "Gold": "USD", "Cash": "USD",
	}
	cfg.Portfolio.CategoryLotSizes = map[string]int{"Stock-TW": 1000}
	cfg.Portfolio.Benchmarks = []config.Benchmark{
		{Label: "sp500", Symbol: "^GSPC", Name: "S&P 500", Color: "#3b82f6"},
		{Label: "btc", Symbol: "BTC-USD", Name: "BTC", Color: "#f59e0b"},
	}
	return cfg
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func point(t time.Time, price int64) model.PricePoint {
	return model.PricePoint{Date: t, Price: decimal.NewFromInt(price)}
}

func fixtureLedger() *memory.Ledger {
	return memory.NewLedger(
		[]model.Transaction{
			{ID: "t1", Date: day(2024, 1, 2), Type: model.TransactionBuy, Asset: "AAPL",
				Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), Currency: model.CurrencyUSD},
			{ID: "t2", Date: day(2024, 1, 5), Type: model.TransactionDeposit, Asset: "USD",
				Quantity: decimal.NewFromInt(500), Price: decimal.NewFromInt(1), Currency: model.CurrencyUSD},
			{ID: "t3", Date: day(2024, 2, 1), Type: model.TransactionBuy, Category: model.CategoryCrypto, Asset: "BTC",
				Quantity: decimal.RequireFromString("0.1"), Price: decimal.NewFromInt(40000), Currency: model.CurrencyUSD},
		},
		[]model.Liability{
			{ID: "l1", Type: model.LiabilityLoan, Name: "car", Amount: decimal.NewFromInt(200), Status: model.LiabilityActive},
			{ID: "l2", Type: model.LiabilityCreditCard, Name: "card", Amount: decimal.NewFromInt(100), Status: model.LiabilityPaidOff},
		},
	)
}

func fixtureMarket() *fakeMarket {
	return &fakeMarket{
		history: map[string][]model.PricePoint{
			"AAPL":  {point(day(2024, 1, 2), 100), point(day(2024, 3, 10), 150)},
			"MSFT":  {point(day(2024, 3, 1), 400), point(day(2024, 3, 8), 440)},
			"^GSPC": {point(day(2024, 1, 2), 4000), point(day(2024, 3, 8), 5000)},
		},
		quotes: map[string]model.Quote{
			"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.NewFromInt(120), ChangePercent: decimal.NewFromInt(10)},
		},
		rate: decimal.NewFromInt(30),
	}
}

func newService(t *testing.T, ledger Ledger, market MarketData, report ReportGenerator) *PortfolioService {
	t.Helper()
	srv, err := New(testConfig(), ledger, market, report, clockwork.NewFakeClockAt(now))
	require.NoError(t, err)
	return srv
}

func decEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestCreateTransaction(t *testing.T) {
	ledger := fixtureLedger()
	srv := newService(t, ledger, fixtureMarket(), nil)

	tx, err := srv.CreateTransaction(context.Background(), model.Transaction{
		Date: day(2024, 3, 1), Type: model.TransactionBuy, Asset: " nvda ",
		Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(800),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "nvda", tx.Asset)
	assert.Equal(t, model.CurrencyUSD, tx.Currency)

	txs, err := srv.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 4)

	_, err = srv.CreateTransaction(context.Background(), model.Transaction{
		Date: day(2024, 3, 1), Type: "Gift", Asset: "NVDA", Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = srv.CreateTransaction(context.Background(), model.Transaction{
		Date: day(2024, 3, 1), Type: model.TransactionBuy, Asset: "NVDA", Quantity: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	zero, err := srv.CreateTransaction(context.Background(), model.Transaction{
		Date: day(2024, 3, 1), Type: model.TransactionBuy, Asset: "NVDA",
	})
	require.NoError(t, err)
	assert.True(t, zero.Quantity.IsZero())
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)
	ctx := context.Background()

	updated, err := srv.UpdateTransaction(ctx, "t1", model.Transaction{
		Date: day(2024, 1, 2), Type: model.TransactionBuy, Asset: "AAPL",
		Quantity: decimal.NewFromInt(20), Price: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", updated.ID)

	_, err = srv.UpdateTransaction(ctx, "missing", updated)
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, srv.DeleteTransaction(ctx, "t1"))
	assert.ErrorIs(t, srv.DeleteTransaction(ctx, "t1"), service.ErrNotFound)
}

func TestImportTransactions(t *testing.T) {
	rows := []model.Transaction{
		{Date: day(2024, 3, 1), Type: model.TransactionBuy, Asset: "MSFT", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(400)},
		{ID: "keep", Date: day(2024, 3, 2), Type: model.TransactionSell, Asset: "MSFT", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(410)},
	}

	t.Run("falls back to single creates", func(t *testing.T) {
		srv := newService(t, memory.NewLedger(nil, nil), fixtureMarket(), nil)
		imported, err := srv.ImportTransactions(context.Background(), rows)
		require.NoError(t, err)
		require.Len(t, imported, 2)
		assert.NotEmpty(t, imported[0].ID)
		assert.Equal(t, "keep", imported[1].ID)
	})

	t.Run("uses batch import when available", func(t *testing.T) {
		ledger := &importingLedger{Ledger: memory.NewLedger(nil, nil)}
		srv := newService(t, ledger, fixtureMarket(), nil)
		_, err := srv.ImportTransactions(context.Background(), rows)
		require.NoError(t, err)
		assert.Equal(t, 1, ledger.batches)
	})

	t.Run("invalid row stores nothing", func(t *testing.T) {
		ledger := memory.NewLedger(nil, nil)
		srv := newService(t, ledger, fixtureMarket(), nil)
		bad := append([]model.Transaction{}, rows...)
		bad = append(bad, model.Transaction{Date: day(2024, 3, 3), Type: model.TransactionBuy})
		_, err := srv.ImportTransactions(context.Background(), bad)
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		txs, err := ledger.ListTransactions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestLiabilities(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)
	ctx := context.Background()

	created, err := srv.CreateLiability(ctx, model.Liability{
		Type: model.LiabilityMortgage, Name: "house", Amount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, model.LiabilityActive, created.Status)

	_, err = srv.CreateLiability(ctx, model.Liability{Type: "Favor", Name: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = srv.UpdateLiability(ctx, "missing", created)
	assert.ErrorIs(t, err, service.ErrNotFound)

	list, err := srv.ListLiabilities(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestAssets(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)

	assets, err := srv.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 3)

	assert.Equal(t, "AAPL", assets[0].Symbol)
	assert.Equal(t, "Apple Inc.", assets[0].Name)
	decEqual(t, "1200", assets[0].MarketValue)

	assert.Equal(t, "BTC", assets[1].Symbol)
	assert.False(t, assets[1].Quoted)
	decEqual(t, "4000", assets[1].MarketValue)

	assert.Equal(t, "USD", assets[2].Symbol)
	assert.Equal(t, model.CategoryCash, assets[2].Category)
	decEqual(t, "500", assets[2].MarketValue)
}

func TestCategories(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)

	categories, err := srv.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, len(model.Categories))

	byCategory := make(map[model.AssetCategory]model.AssetCategorySummary)
	for _, c := range categories {
		byCategory[c.Category] = c
	}
	decEqual(t, "1200", byCategory[model.CategoryStockUS].TotalValue)
	decEqual(t, "4000", byCategory[model.CategoryCrypto].TotalValue)
	assert.Equal(t, 1, byCategory[model.CategoryCash].AssetCount)
	assert.Equal(t, 0, byCategory[model.CategoryGold].AssetCount)
}

func TestDashboard(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)
	ctx := context.Background()

	usd, err := srv.Dashboard(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, model.CurrencyUSD, usd.Currency)
	decEqual(t, "5700", usd.TotalAssets)
	decEqual(t, "200", usd.TotalLiabilities)
	decEqual(t, "5500", usd.NetWorth)
	assert.InDelta(t, 120, usd.DailyChange.InexactFloat64(), 1e-6)
	assert.InDelta(t, 50, usd.YTDGrowthPercent, 1e-9)

	ntd, err := srv.Dashboard(ctx, "NTD")
	require.NoError(t, err)
	decEqual(t, "171000", ntd.TotalAssets)
	decEqual(t, "6000", ntd.TotalLiabilities)
	assert.Equal(t, usd.DailyChangePercent, ntd.DailyChangePercent)

	_, err = srv.Dashboard(ctx, "EUR")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestPortfolioPerformance(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)

	res, err := srv.PortfolioPerformance(context.Background(), "1M")
	require.NoError(t, err)
	require.Len(t, res, 4)

	us := res[string(model.CategoryStockUS)]
	assert.Equal(t, "My US Stocks", us.Name)
	assert.Equal(t, "#ef4444", us.Color)
	require.Len(t, us.Data, 30)
	assert.Equal(t, "2024-02-10", us.Data[0].Date)
	assert.Equal(t, 0.0, us.Data[0].Value)
	assert.InDelta(t, 50, us.CurrentReturn, 1e-9)

	crypto := res[string(model.CategoryCrypto)]
	assert.Len(t, crypto.Data, 30)
	assert.Equal(t, 0.0, crypto.CurrentReturn)

	gold := res[string(model.CategoryGold)]
	assert.NotNil(t, gold.Data)
	assert.Empty(t, gold.Data)

	_, ok := res[string(model.CategoryCash)]
	assert.False(t, ok)

	_, err = srv.PortfolioPerformance(context.Background(), "2W")
	assert.ErrorIs(t, err, service.ErrInvalidPeriod)
}

func TestAssetPerformance(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)
	ctx := context.Background()

	all, err := srv.AssetPerformance(ctx, "1Y", nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	aapl := all["AAPL"]
	assert.Equal(t, "AAPL", aapl.Name)
	assert.Equal(t, "Apple Inc.", aapl.FullName)
	assert.InDelta(t, 50, aapl.CurrentReturn, 1e-9)

	picked, err := srv.AssetPerformance(ctx, "1Y", []string{" MSFT", "AAPL", "MSFT", "USD", "aapl"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Contains(t, picked, "AAPL")
	msft := picked["MSFT"]
	assert.Equal(t, "MSFT", msft.Name)
	assert.Empty(t, msft.FullName)
	assert.InDelta(t, 10, msft.CurrentReturn, 1e-9)
}

func TestAssetPerformance_SymbolsAreCaseSensitive(t *testing.T) {
	ledger := memory.NewLedger([]model.Transaction{
		{ID: "t1", Date: day(2024, 1, 2), Type: model.TransactionBuy, Category: model.CategoryStockUS, Asset: "vti.x",
			Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(200), Currency: model.CurrencyUSD},
	}, nil)
	market := &fakeMarket{history: map[string][]model.PricePoint{
		"vti.x": {point(day(2024, 1, 2), 200), point(day(2024, 3, 8), 220)},
	}}
	srv := newService(t, ledger, market, nil)

	res, err := srv.AssetPerformance(context.Background(), "1Y", []string{"vti.x"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.InDelta(t, 10, res["vti.x"].CurrentReturn, 1e-9)

	upper, err := srv.AssetPerformance(context.Background(), "1Y", []string{"VTI.X"})
	require.NoError(t, err)
	assert.Empty(t, upper)
}

func TestBenchmarkPerformance(t *testing.T) {
	srv := newService(t, fixtureLedger(), fixtureMarket(), nil)

	res, err := srv.BenchmarkPerformance(context.Background(), "YTD")
	require.NoError(t, err)
	require.Len(t, res, 2)

	sp := res["sp500"]
	assert.Equal(t, "S&P 500", sp.Name)
	assert.Equal(t, "#3b82f6", sp.Color)
	assert.InDelta(t, 25, sp.CurrentReturn, 1e-9)

	btc := res["btc"]
	assert.NotNil(t, btc.Data)
	assert.Empty(t, btc.Data)
}

func TestExport(t *testing.T) {
	report := &fakeReport{}
	srv := newService(t, fixtureLedger(), fixtureMarket(), report)

	data, ext, err := srv.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", ext)
	assert.Equal(t, []byte("xlsx"), data)

	assert.Len(t, report.got.Assets, 3)
	assert.Len(t, report.got.Categories, len(model.Categories))
	require.Len(t, report.got.Transactions, 3)
	assert.Equal(t, "t1", report.got.Transactions[0].ID)
	assert.Equal(t, model.CategoryStockUS, report.got.Transactions[0].Category)
}

func TestLedgerUnavailable(t *testing.T) {
	srv := newService(t, unavailableLedger{Ledger: memory.NewLedger(nil, nil)}, fixtureMarket(), nil)

	_, err := srv.Assets(context.Background())
	assert.True(t, errors.Is(err, service.ErrMissingCredentials))

	_, err = srv.PortfolioPerformance(context.Background(), "1Y")
	assert.ErrorIs(t, err, service.ErrMissingCredentials)
}
