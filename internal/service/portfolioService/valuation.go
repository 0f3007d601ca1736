package portfolioService

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/networth_dashboard/internal/engine/holdings"
	"github.com/KotFed0t/networth_dashboard/internal/engine/performance"
	"github.com/KotFed0t/networth_dashboard/internal/engine/period"
	"github.com/KotFed0t/networth_dashboard/internal/engine/valuation"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/service"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

type snapshot struct {
	txs      []model.Transaction
	assets   []model.Asset
	usdToNTD decimal.Decimal
}

// current values today's holdings with live quotes.
func (s *PortfolioService) current(ctx context.Context) (snapshot, error) {
	txs, err := s.transactions(ctx)
	if err != nil {
		return snapshot{}, err
	}

	now := s.clock.Now()
	held := holdings.Reconstruct(txs, now).Held()

	refs := make([]model.AssetRef, 0, len(held))
	for symbol, h := range held {
		if h.Category == model.CategoryCash {
			continue
		}
		refs = append(refs, model.AssetRef{Symbol: symbol, Category: h.Category})
	}

	var (
		quotes map[string]model.Quote
		rate   decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quotes = s.market.Quotes(gctx, refs)
		return nil
	})
	g.Go(func() error {
		rate = s.market.ForexRate(gctx)
		return nil
	})
	_ = g.Wait()

	assets := s.aggregator.Assets(valuation.Input{
		Holdings: held,
		Quotes:   quotes,
		USDToNTD: rate,
		Now:      now,
	})
	return snapshot{txs: txs, assets: assets, usdToNTD: rate}, nil
}

func (s *PortfolioService) Assets(ctx context.Context) ([]model.Asset, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.Assets"

	slog.Debug(op+" start", slog.String("rqID", rqID))

	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID), slog.Int("assets", len(snap.assets)))
	return snap.assets, nil
}

func (s *PortfolioService) Categories(ctx context.Context) ([]model.AssetCategorySummary, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Categories(snap.assets, snap.usdToNTD), nil
}

// WarmQuotes refreshes cached quotes for everything currently held.
func (s *PortfolioService) WarmQuotes(ctx context.Context) error {
	_, err := s.current(ctx)
	return err
}

func (s *PortfolioService) ForexRate(ctx context.Context) decimal.Decimal {
	return s.market.ForexRate(ctx)
}

// Dashboard summarizes net worth in the display currency. Liabilities are
// recorded in USD and only Active ones count.
func (s *PortfolioService) Dashboard(ctx context.Context, displayCurrency string) (model.Dashboard, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.Dashboard"

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("currency", displayCurrency))

	currency := model.CurrencyUSD
	if displayCurrency != "" {
		parsed, err := model.ParseCurrency(displayCurrency)
		if err != nil {
			return model.Dashboard{}, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
		}
		currency = parsed
	}

	snap, err := s.current(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}

	liabilities, err := s.ledger.ListLiabilities(ctx)
	if err != nil {
		slog.Error("got error from ledger.ListLiabilities", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Dashboard{}, mapErr(err)
	}
	owed := decimal.Zero
	for _, l := range liabilities {
		if l.Status == model.LiabilityActive {
			owed = owed.Add(l.Amount)
		}
	}

	total, changePercent := valuation.Totals(snap.assets)
	daily := total.Mul(decimal.NewFromFloat(changePercent)).Div(hundred)

	toDisplay := func(usd decimal.Decimal) decimal.Decimal {
		return s.units.FromUSD(usd, currency, snap.usdToNTD)
	}

	res := model.Dashboard{
		Currency:           currency,
		TotalAssets:        toDisplay(total),
		TotalLiabilities:   toDisplay(owed),
		NetWorth:           toDisplay(total.Sub(owed)),
		DailyChange:        toDisplay(daily),
		DailyChangePercent: changePercent,
		YTDGrowthPercent:   s.ytdGrowth(ctx, snap),
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID))
	return res, nil
}

// ytdGrowth is the last point of the whole-ledger year-to-date series valued in USD.
func (s *PortfolioService) ytdGrowth(ctx context.Context, snap snapshot) float64 {
	now := s.clock.Now()
	rng, err := period.Range(period.YearToDate, now)
	if err != nil {
		return 0
	}
	history := performance.History(s.market.History(ctx, refsOf(snap.txs), rng))
	data := performance.PortfolioReturns(snap.txs, history, rng, now, performance.InUSD(s.units, snap.usdToNTD))
	if len(data) == 0 {
		return 0
	}
	return data[len(data)-1].Value
}

// Export renders the current portfolio and the ledger as a workbook.
func (s *PortfolioService) Export(ctx context.Context) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.Export"

	slog.Debug(op+" start", slog.String("rqID", rqID))

	snap, err := s.current(ctx)
	if err != nil {
		return nil, "", err
	}

	fileBytes, fileExtension, err = s.report.Generate(ctx, model.PortfolioReport{
		GeneratedAt:  s.clock.Now(),
		Assets:       snap.assets,
		Categories:   s.aggregator.Categories(snap.assets, snap.usdToNTD),
		Transactions: holdings.SortByDate(snap.txs),
	})
	if err != nil {
		slog.Error("got error from report.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID))
	return fileBytes, fileExtension, nil
}
