package finnhubApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/internal/externalApi"
	"github.com/KotFed0t/networth_dashboard/internal/model/finnhubModel"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/go-resty/resty/v2"
)

type FinnhubApi struct {
	client *resty.Client
	apiKey string
}

func New(cfg *config.Config) *FinnhubApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.FinnhubApi.Url)
	return &FinnhubApi{client: client, apiKey: cfg.API.FinnhubApi.ApiKey}
}

// Enabled reports whether an API key is configured.
func (a *FinnhubApi) Enabled() bool {
	return a.apiKey != ""
}

func (a *FinnhubApi) GetGeneralNews(ctx context.Context) ([]finnhubModel.NewsItem, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("FinnhubApi.GetGeneralNews start", slog.String("rqID", rqID))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{"category": "general", "token": a.apiKey}).
		Get("/news")
	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return nil, fmt.Errorf("finnhub news: %w: %v", externalApi.ErrUpstreamUnavailable, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("finnhub news: status %d: %w", resp.StatusCode(), externalApi.ErrUpstreamUnavailable)
	}

	var items []finnhubModel.NewsItem
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		slog.Error("can't unmarshall response into []finnhubModel.NewsItem", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return nil, fmt.Errorf("finnhub news: %w", externalApi.ErrUpstreamUnavailable)
	}

	slog.Debug("FinnhubApi.GetGeneralNews finished", slog.String("rqID", rqID), slog.Int("items", len(items)))
	return items, nil
}
