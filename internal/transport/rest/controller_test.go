package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePortfolio struct {
	err         error
	lastPeriod  string
	lastSymbols []string
	lastTx      model.Transaction
	imported    []model.Transaction
	currency    string
}

func (f *fakePortfolio) ListTransactions(context.Context) ([]model.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.Transaction{{
		ID: "t1", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Type: model.TransactionBuy, Asset: "AAPL",
		Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), Currency: model.CurrencyUSD,
	}}, nil
}

func (f *fakePortfolio) CreateTransaction(_ context.Context, tx model.Transaction) (model.Transaction, error) {
	f.lastTx = tx
	if f.err != nil {
		return model.Transaction{}, f.err
	}
	tx.ID = "new"
	return tx, nil
}

func (f *fakePortfolio) UpdateTransaction(_ context.Context, id string, tx model.Transaction) (model.Transaction, error) {
	if f.err != nil {
		return model.Transaction{}, f.err
	}
	tx.ID = id
	return tx, nil
}

func (f *fakePortfolio) DeleteTransaction(context.Context, string) error { return f.err }

func (f *fakePortfolio) ImportTransactions(_ context.Context, txs []model.Transaction) ([]model.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.imported = txs
	return txs, nil
}

func (f *fakePortfolio) ListLiabilities(context.Context) ([]model.Liability, error) {
	return []model.Liability{{ID: "l1", Type: model.LiabilityLoan, Name: "car", Amount: decimal.NewFromInt(200), Status: model.LiabilityActive}}, f.err
}

func (f *fakePortfolio) CreateLiability(_ context.Context, l model.Liability) (model.Liability, error) {
	l.ID = "l2"
	return l, f.err
}

func (f *fakePortfolio) UpdateLiability(_ context.Context, id string, l model.Liability) (model.Liability, error) {
	l.ID = id
	return l, f.err
}

func (f *fakePortfolio) DeleteLiability(context.Context, string) error { return f.err }

func (f *fakePortfolio) Assets(context.Context) ([]model.Asset, error) {
	return []model.Asset{{Symbol: "AAPL", Category: model.CategoryStockUS}}, f.err
}

func (f *fakePortfolio) Categories(context.Context) ([]model.AssetCategorySummary, error) {
	return []model.AssetCategorySummary{{Category: model.CategoryStockUS}}, f.err
}

func (f *fakePortfolio) PortfolioPerformance(_ context.Context, periodToken string) (map[string]model.PerformanceSeries, error) {
	f.lastPeriod = periodToken
	if f.err != nil {
		return nil, f.err
	}
	return map[string]model.PerformanceSeries{"Stock-US": model.NewPerformanceSeries("My US Stocks", nil)}, nil
}

func (f *fakePortfolio) AssetPerformance(_ context.Context, periodToken string, symbols []string) (map[string]model.PerformanceSeries, error) {
	f.lastPeriod = periodToken
	f.lastSymbols = symbols
	if f.err != nil {
		return nil, f.err
	}
	return map[string]model.PerformanceSeries{"vti.x": model.NewPerformanceSeries("vti.x", nil)}, nil
}

func (f *fakePortfolio) BenchmarkPerformance(_ context.Context, periodToken string) (map[string]model.PerformanceSeries, error) {
	f.lastPeriod = periodToken
	return map[string]model.PerformanceSeries{}, f.err
}

func (f *fakePortfolio) Dashboard(_ context.Context, displayCurrency string) (model.Dashboard, error) {
	f.currency = displayCurrency
	return model.Dashboard{Currency: model.Currency(displayCurrency)}, f.err
}

func (f *fakePortfolio) ForexRate(context.Context) decimal.Decimal {
	return decimal.RequireFromString("32.5")
}

func (f *fakePortfolio) Export(context.Context) ([]byte, string, error) {
	return []byte("PK"), ".xlsx", f.err
}

type fakeNews struct{}

func (fakeNews) GetNews(context.Context) (model.News, error) {
	return model.News{Articles: []model.NewsArticle{{ID: "n1", Title: "hello"}}}, nil
}

func setup(p *fakePortfolio) *gin.Engine {
	gin.SetMode(gin.TestMode)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	return NewRouter(NewController(p, fakeNews{}, clock))
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCarriesRequestID(t *testing.T) {
	r := setup(&fakePortfolio{})

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestListTransactions(t *testing.T) {
	w := do(setup(&fakePortfolio{}), http.MethodGet, "/api/transactions", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "2024-01-02", body[0]["date"])
	assert.Equal(t, "1000", body[0]["total"])
}

func TestCreateTransaction(t *testing.T) {
	p := &fakePortfolio{}
	r := setup(p)

	w := do(r, http.MethodPost, "/api/transactions",
		`{"date":"2024-03-01","type":"Buy","asset":"NVDA","quantity":2,"price":"800.5"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "NVDA", p.lastTx.Asset)
	assert.True(t, decimal.RequireFromString("800.5").Equal(p.lastTx.Price))

	w = do(r, http.MethodPost, "/api/transactions", `{"date":"March 1","type":"Buy","asset":"NVDA"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/transactions", `{"type":"Buy"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportTransactions(t *testing.T) {
	p := &fakePortfolio{}
	w := do(setup(p), http.MethodPost, "/api/transactions/import",
		`{"transactions":[{"date":"2024-03-01","type":"Buy","asset":"MSFT","quantity":1,"price":400},{"date":"2024-03-02","type":"Sell","asset":"MSFT","quantity":1,"price":410}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, p.imported, 2)
	assert.Contains(t, w.Body.String(), `"imported":2`)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: bad", service.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: 2W", service.ErrInvalidPeriod), http.StatusBadRequest},
		{fmt.Errorf("%w: t9", service.ErrNotFound), http.StatusNotFound},
		{service.ErrMissingCredentials, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := do(setup(&fakePortfolio{err: tc.err}), http.MethodDelete, "/api/transactions/t9", "")
			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}

	w := do(setup(&fakePortfolio{err: errors.New("secret detail")}), http.MethodGet, "/api/assets", "")
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestAnalyticsQueryParams(t *testing.T) {
	p := &fakePortfolio{}
	r := setup(p)

	w := do(r, http.MethodGet, "/api/analytics/portfolio-performance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1Y", p.lastPeriod)
	assert.Contains(t, w.Body.String(), `"Stock-US"`)

	w = do(r, http.MethodGet, "/api/analytics/symbol-performance?period=6M&symbols=AAPL,%20MSFT,,", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6M", p.lastPeriod)
	assert.Equal(t, []string{"AAPL", "MSFT"}, p.lastSymbols)
	assert.Contains(t, w.Body.String(), `{"vti.x":{`)

	w = do(r, http.MethodGet, "/api/analytics/benchmark-data?period=YTD", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "YTD", p.lastPeriod)

	w = do(r, http.MethodGet, "/api/dashboard?currency=ntd", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NTD", p.currency)
}

func TestForexNewsAndExport(t *testing.T) {
	r := setup(&fakePortfolio{})

	w := do(r, http.MethodGet, "/api/forex", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"base":"USD","quote":"NTD","rate":"32.5"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/news", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hello"`)

	w = do(r, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="networth-2024-03-10.xlsx"`, w.Header().Get("Content-Disposition"))
}

func TestLiabilityRoutes(t *testing.T) {
	r := setup(&fakePortfolio{})

	w := do(r, http.MethodPost, "/api/liabilities", `{"type":"Loan","name":"car","amount":"1000"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"l2"`)

	w = do(r, http.MethodPut, "/api/liabilities/l1", `{"type":"Loan","name":"car","amount":"900","date":"2024-01-01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2024-01-01"`)

	w = do(r, http.MethodDelete, "/api/liabilities/l1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
