package portfolioService

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/KotFed0t/networth_dashboard/internal/engine/performance"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/utils"
	"golang.org/x/sync/errgroup"
)

type seriesStyle struct {
	name  string
	color string
}

// portfolioSeries lists the categories charted in portfolio mode. Cash has no
// price history and is left out.
var portfolioSeries = []struct {
	category model.AssetCategory
	style    seriesStyle
}{
	{model.CategoryStockUS, seriesStyle{"My US Stocks", "#ef4444"}},
	{model.CategoryStockTW, seriesStyle{"My Taiwan Stocks", "#8b5cf6"}},
	{model.CategoryCrypto, seriesStyle{"My Crypto", "#f97316"}},
	{model.CategoryGold, seriesStyle{"My Gold", "#eab308"}},
}

// PortfolioPerformance returns one holdings-weighted return series per
// category, keyed by category. Categories without transactions get an empty series.
func (s *PortfolioService) PortfolioPerformance(ctx context.Context, periodToken string) (map[string]model.PerformanceSeries, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.PortfolioPerformance"

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("period", periodToken))

	_, rng, err := s.resolver.Resolve(periodToken)
	if err != nil {
		return nil, mapErr(err)
	}

	txs, err := s.transactions(ctx)
	if err != nil {
		return nil, err
	}

	history := performance.History(s.market.History(ctx, refsOf(txs), rng))
	today := s.clock.Now()
	valuer := performance.Native(s.units)

	series := make([]model.PerformanceSeries, len(portfolioSeries))
	var g errgroup.Group
	for i, ps := range portfolioSeries {
		g.Go(func() error {
			data := performance.PortfolioReturns(performance.FilterCategory(txs, ps.category), history, rng, today, valuer)
			out := model.NewPerformanceSeries(ps.style.name, data)
			out.Color = ps.style.color
			series[i] = out
			return nil
		})
	}
	_ = g.Wait()

	res := make(map[string]model.PerformanceSeries, len(series))
	for i, ps := range portfolioSeries {
		res[string(ps.category)] = series[i]
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID))
	return res, nil
}

// AssetPerformance returns price-only return series keyed by ledger symbol, for
// the requested symbols or for every ledger symbol when none are given. Symbols
// without price data in the range are omitted.
func (s *PortfolioService) AssetPerformance(ctx context.Context, periodToken string, symbols []string) (map[string]model.PerformanceSeries, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AssetPerformance"

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("period", periodToken), slog.Any("symbols", symbols))

	_, rng, err := s.resolver.Resolve(periodToken)
	if err != nil {
		return nil, mapErr(err)
	}

	txs, err := s.transactions(ctx)
	if err != nil {
		return nil, err
	}

	refs := refsOf(txs)
	if len(symbols) > 0 {
		refs = s.requestedRefs(txs, symbols)
	}

	var (
		history map[string][]model.PricePoint
		quotes  map[string]model.Quote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		history = s.market.History(gctx, refs, rng)
		return nil
	})
	g.Go(func() error {
		quotes = s.market.Quotes(gctx, refs)
		return nil
	})
	_ = g.Wait()

	res := make(map[string]model.PerformanceSeries, len(refs))
	for _, ref := range refs {
		data := performance.AssetReturns(history[ref.Symbol], rng)
		if len(data) == 0 {
			continue
		}
		series := model.NewPerformanceSeries(ref.Symbol, data)
		series.FullName = quotes[ref.Symbol].Name
		res[ref.Symbol] = series
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID), slog.Int("series", len(res)))
	return res, nil
}

// requestedRefs resolves symbols to refs, preferring the category the ledger
// carries for the symbol.
func (s *PortfolioService) requestedRefs(txs []model.Transaction, symbols []string) []model.AssetRef {
	known := make(map[string]model.AssetCategory)
	for _, tx := range txs {
		known[tx.Asset] = tx.Category
	}

	seen := make(map[string]struct{})
	refs := make([]model.AssetRef, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}

		category, ok := known[symbol]
		if !ok {
			category = s.classifier.Classify(symbol, "")
		}
		if category == model.CategoryCash {
			continue
		}
		refs = append(refs, model.AssetRef{Symbol: symbol, Category: category})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Symbol < refs[j].Symbol })
	return refs
}

// BenchmarkPerformance returns a price-only series per configured benchmark,
// keyed by label. A benchmark whose history could not be fetched yields an
// empty series.
func (s *PortfolioService) BenchmarkPerformance(ctx context.Context, periodToken string) (map[string]model.PerformanceSeries, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.BenchmarkPerformance"

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("period", periodToken))

	_, rng, err := s.resolver.Resolve(periodToken)
	if err != nil {
		return nil, mapErr(err)
	}

	refs := make([]model.AssetRef, 0, len(s.benchmarks))
	for _, b := range s.benchmarks {
		refs = append(refs, model.AssetRef{Symbol: b.Symbol})
	}
	history := s.market.History(ctx, refs, rng)

	res := make(map[string]model.PerformanceSeries, len(s.benchmarks))
	for _, b := range s.benchmarks {
		series := model.NewPerformanceSeries(b.Name, performance.AssetReturns(history[b.Symbol], rng))
		series.Color = b.Color
		res[b.Label] = series
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID))
	return res, nil
}
