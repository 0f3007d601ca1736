package marketDataService

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/data/cache"
	"github.com/KotFed0t/networth_dashboard/internal/engine/classifier"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type MarketApi interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	GetHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
	GetForexRate(ctx context.Context, base, quote model.Currency) (decimal.Decimal, error)
}

type Cache interface {
	SetQuotes(ctx context.Context, quotes map[string]model.Quote) error
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	SetHistory(ctx context.Context, symbol string, start, end time.Time, points []model.PricePoint) error
	GetHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
}

const forexCacheKey = "fx:USD:NTD"

type MarketDataService struct {
	api          MarketApi
	cache        Cache
	batchSize    int
	fallbackRate decimal.Decimal
	aliases      map[string]string
}

func New(cfg *config.Config, api MarketApi, c Cache) *MarketDataService {
	if c == nil {
		c = cache.Noop{}
	}
	batch := cfg.Market.HistoryBatchSize
	if batch <= 0 {
		batch = 5
	}
	return &MarketDataService{
		api:          api,
		cache:        c,
		batchSize:    batch,
		fallbackRate: decimal.NewFromFloat(cfg.Market.FallbackUSDToNTD),
		aliases:      cfg.Market.SymbolAliases,
	}
}

// QuerySymbol maps a ledger symbol to the provider symbol: aliases first, then
// Taiwan listings get ".TW" and unhyphenated crypto gets "-USD".
func QuerySymbol(ref model.AssetRef, aliases map[string]string) string {
	if alias, ok := aliases[ref.Symbol]; ok && alias != "" {
		return alias
	}
	if classifier.IsTaiwanSymbol(ref.Symbol) {
		return ref.Symbol + ".TW"
	}
	if ref.Category == model.CategoryCrypto && !strings.Contains(ref.Symbol, "-") {
		return ref.Symbol + "-USD"
	}
	return ref.Symbol
}

// History fetches daily closes for every distinct ref, keyed by ledger symbol.
// Symbols are fetched in batches; a failed symbol yields an empty series.
func (s *MarketDataService) History(ctx context.Context, refs []model.AssetRef, rng model.DateRange) map[string][]model.PricePoint {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketDataService.History"
	slog.Debug(op+" start", slog.String("rqID", rqID), slog.Int("symbols", len(refs)))

	refs = distinct(refs)
	res := make(map[string][]model.PricePoint, len(refs))
	var mu sync.Mutex

	for start := 0; start < len(refs); start += s.batchSize {
		end := min(start+s.batchSize, len(refs))

		var g errgroup.Group
		for _, ref := range refs[start:end] {
			g.Go(func() error {
				points := s.history(ctx, ref, rng)
				mu.Lock()
				res[ref.Symbol] = points
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID))
	return res
}

func (s *MarketDataService) history(ctx context.Context, ref model.AssetRef, rng model.DateRange) []model.PricePoint {
	rqID := utils.GetRequestIDFromCtx(ctx)
	symbol := QuerySymbol(ref, s.aliases)

	if points, err := s.cache.GetHistory(ctx, symbol, rng.Start, rng.End); err == nil {
		return points
	}

	points, err := s.api.GetHistory(ctx, symbol, rng.Start, rng.End)
	if err != nil {
		slog.Warn("history unavailable", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return []model.PricePoint{}
	}

	if err = s.cache.SetHistory(ctx, symbol, rng.Start, rng.End, points); err != nil {
		slog.Warn("can't cache history", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
	}
	return points
}

// Quotes returns live quotes keyed by ledger symbol. Cash is never quoted and
// failed symbols are left out.
func (s *MarketDataService) Quotes(ctx context.Context, refs []model.AssetRef) map[string]model.Quote {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketDataService.Quotes"
	slog.Debug(op+" start", slog.String("rqID", rqID), slog.Int("symbols", len(refs)))

	res := make(map[string]model.Quote, len(refs))
	fresh := make(map[string]model.Quote)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchSize)
	for _, ref := range distinct(refs) {
		if ref.Category == model.CategoryCash {
			continue
		}
		symbol := QuerySymbol(ref, s.aliases)

		if q, err := s.cache.GetQuote(ctx, symbol); err == nil {
			q.Symbol = ref.Symbol
			mu.Lock()
			res[ref.Symbol] = q
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			q, err := s.api.GetQuote(gctx, symbol)
			if err != nil {
				slog.Warn("quote unavailable", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
				return nil
			}
			mu.Lock()
			fresh[symbol] = q
			q.Symbol = ref.Symbol
			res[ref.Symbol] = q
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(fresh) > 0 {
		if err := s.cache.SetQuotes(ctx, fresh); err != nil {
			slog.Warn("can't cache quotes", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
	}

	slog.Debug(op+" finished", slog.String("rqID", rqID), slog.Int("quoted", len(res)))
	return res
}

// ForexRate returns NTD per USD, or the configured rate when the provider fails.
func (s *MarketDataService) ForexRate(ctx context.Context) decimal.Decimal {
	rqID := utils.GetRequestIDFromCtx(ctx)

	if q, err := s.cache.GetQuote(ctx, forexCacheKey); err == nil && q.Price.IsPositive() {
		return q.Price
	}

	rate, err := s.api.GetForexRate(ctx, model.CurrencyUSD, model.CurrencyNTD)
	if err != nil || !rate.IsPositive() {
		if err == nil {
			err = errors.New("non-positive rate")
		}
		slog.Warn("forex rate unavailable, using fallback", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("fallback", s.fallbackRate.String()))
		return s.fallbackRate
	}

	if err = s.cache.SetQuotes(ctx, map[string]model.Quote{forexCacheKey: {Symbol: forexCacheKey, Price: rate}}); err != nil {
		slog.Warn("can't cache forex rate", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
	return rate
}

func distinct(refs []model.AssetRef) []model.AssetRef {
	seen := make(map[string]bool, len(refs))
	out := make([]model.AssetRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Symbol == "" || seen[ref.Symbol] {
			continue
		}
		seen[ref.Symbol] = true
		out = append(out, ref)
	}
	return out
}
