package yahooApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/internal/externalApi"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/model/yahooModel"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const chartURL = "/v8/finance/chart/{symbol}"

type YahooApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.YahooApi.Url).
		SetHeader("User-Agent", cfg.API.YahooApi.UserAgent).
		SetHeader("Accept", "application/json")
	return &YahooApi{client: client}
}

// GetQuote returns the latest price of a provider symbol. Change is measured
// against the previous close.
func (a *YahooApi) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetQuote"
	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	res, err := a.chart(ctx, symbol, map[string]string{"interval": "1d", "range": "1d"})
	if err != nil {
		return model.Quote{}, err
	}

	meta := res.Meta
	if meta.RegularMarketPrice <= 0 {
		return model.Quote{}, fmt.Errorf("%s: no market price for %s: %w", op, symbol, externalApi.ErrNotFound)
	}

	price := decimal.NewFromFloat(meta.RegularMarketPrice)
	prev := meta.ChartPreviousClose
	if meta.PreviousClose > 0 {
		prev = meta.PreviousClose
	}

	quote := model.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        decimal.Zero,
		ChangePercent: decimal.Zero,
		Currency:      meta.Currency,
		Name:          meta.LongName,
	}
	if quote.Name == "" {
		quote.Name = meta.ShortName
	}
	if prev > 0 {
		prevClose := decimal.NewFromFloat(prev)
		quote.Change = price.Sub(prevClose)
		quote.ChangePercent = quote.Change.Div(prevClose).Mul(decimal.NewFromInt(100))
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID), slog.String("symbol", symbol))
	return quote, nil
}

// GetHistory returns daily closes between start and end inclusive, ascending.
// Days without a close are dropped.
func (a *YahooApi) GetHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetHistory"
	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	params := map[string]string{
		"interval": "1d",
		"period1":  strconv.FormatInt(model.ToDate(start).Unix(), 10),
		"period2":  strconv.FormatInt(model.ToDate(end).AddDate(0, 0, 1).Unix(), 10),
	}
	res, err := a.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	var closes []*float64
	if len(res.Indicators.Quote) > 0 {
		closes = res.Indicators.Quote[0].Close
	}

	points := make([]model.PricePoint, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		day := model.ToDate(time.Unix(ts+res.Meta.GmtOffset, 0))
		if n := len(points); n > 0 && points[n-1].Date.Equal(day) {
			points[n-1].Price = decimal.NewFromFloat(*closes[i])
			continue
		}
		points = append(points, model.PricePoint{Date: day, Price: decimal.NewFromFloat(*closes[i])})
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.Int("points", len(points)))
	return points, nil
}

// GetForexRate returns how many units of quote one unit of base buys.
func (a *YahooApi) GetForexRate(ctx context.Context, base, quote model.Currency) (decimal.Decimal, error) {
	q, err := a.GetQuote(ctx, ForexSymbol(base, quote))
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

// ForexSymbol builds a currency pair symbol such as USDTWD=X.
func ForexSymbol(base, quote model.Currency) string {
	return isoCode(base) + isoCode(quote) + "=X"
}

func isoCode(c model.Currency) string {
	if c == model.CurrencyNTD {
		return "TWD"
	}
	return string(c)
}

func (a *YahooApi) chart(ctx context.Context, symbol string, params map[string]string) (yahooModel.ChartResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	resp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(params).
		Get(chartURL)
	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return yahooModel.ChartResult{}, fmt.Errorf("yahoo chart %s: %w: %v", symbol, externalApi.ErrUpstreamUnavailable, err)
	}

	chartResp := yahooModel.ChartResponse{}
	if err = json.Unmarshal(resp.Body(), &chartResp); err != nil {
		if resp.StatusCode() == http.StatusNotFound {
			return yahooModel.ChartResult{}, fmt.Errorf("yahoo chart %s: %w", symbol, externalApi.ErrNotFound)
		}
		slog.Error(
			"can't unmarshall response into yahooModel.ChartResponse",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int("status", resp.StatusCode()),
		)
		return yahooModel.ChartResult{}, fmt.Errorf("yahoo chart %s: %w", symbol, externalApi.ErrUpstreamUnavailable)
	}

	if e := chartResp.Chart.Error; e != nil {
		if e.Code == "Not Found" || resp.StatusCode() == http.StatusNotFound {
			return yahooModel.ChartResult{}, fmt.Errorf("yahoo chart %s: %s: %w", symbol, e.Description, externalApi.ErrNotFound)
		}
		return yahooModel.ChartResult{}, fmt.Errorf("yahoo chart %s: %s: %w", symbol, e.Description, externalApi.ErrUpstreamUnavailable)
	}

	if !resp.IsSuccess() {
		return yahooModel.ChartResult{}, fmt.Errorf("yahoo chart %s: status %d: %w", symbol, resp.StatusCode(), externalApi.ErrUpstreamUnavailable)
	}

	if len(chartResp.Chart.Result) == 0 {
		return yahooModel.ChartResult{}, fmt.Errorf("yahoo chart %s: empty result: %w", symbol, externalApi.ErrNotFound)
	}

	return chartResp.Chart.Result[0], nil
}
