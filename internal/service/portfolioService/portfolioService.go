package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/data/repository"
	"github.com/KotFed0t/networth_dashboard/internal/engine/classifier"
	"github.com/KotFed0t/networth_dashboard/internal/engine/period"
	"github.com/KotFed0t/networth_dashboard/internal/engine/units"
	"github.com/KotFed0t/networth_dashboard/internal/engine/valuation"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/service"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

type Ledger interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, tx model.Transaction) error
	UpdateTransaction(ctx context.Context, tx model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	ListLiabilities(ctx context.Context) ([]model.Liability, error)
	CreateLiability(ctx context.Context, liability model.Liability) error
	UpdateLiability(ctx context.Context, liability model.Liability) error
	DeleteLiability(ctx context.Context, id string) error
}

// importer is implemented by ledgers that can store a batch atomically.
type importer interface {
	ImportTransactions(ctx context.Context, txs []model.Transaction) error
}

type MarketData interface {
	History(ctx context.Context, refs []model.AssetRef, rng model.DateRange) map[string][]model.PricePoint
	Quotes(ctx context.Context, refs []model.AssetRef) map[string]model.Quote
	ForexRate(ctx context.Context) decimal.Decimal
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error)
}

type PortfolioService struct {
	ledger     Ledger
	market     MarketData
	report     ReportGenerator
	clock      clockwork.Clock
	classifier *classifier.Classifier
	units      *units.Converter
	resolver   *period.Resolver
	aggregator *valuation.Aggregator
	benchmarks []model.Benchmark
}

func New(
	cfg *config.Config,
	ledger Ledger,
	market MarketData,
	report ReportGenerator,
	clock clockwork.Clock,
) (*PortfolioService, error) {
	cls, err := classifier.NewFromConfig(cfg.Portfolio.ClassifierTickers)
	if err != nil {
		return nil, fmt.Errorf("classifier config: %w", err)
	}
	conv, err := units.NewConverterFromConfig(cfg.Portfolio.CategoryCurrencies, cfg.Portfolio.CategoryLotSizes)
	if err != nil {
		return nil, fmt.Errorf("units config: %w", err)
	}

	benchmarks := make([]model.Benchmark, 0, len(cfg.Portfolio.Benchmarks))
	for _, b := range cfg.Portfolio.Benchmarks {
		benchmarks = append(benchmarks, model.Benchmark{Label: b.Label, Symbol: b.Symbol, Name: b.Name, Color: b.Color})
	}

	return &PortfolioService{
		ledger:     ledger,
		market:     market,
		report:     report,
		clock:      clock,
		classifier: cls,
		units:      conv,
		resolver:   period.NewResolver(clock),
		aggregator: valuation.NewAggregator(conv),
		benchmarks: benchmarks,
	}, nil
}

// transactions loads the ledger with every category resolved.
func (s *PortfolioService) transactions(ctx context.Context) ([]model.Transaction, error) {
	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		slog.Error(
			"got error from ledger.ListTransactions",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("err", err.Error()),
		)
		return nil, mapErr(err)
	}
	return s.classifier.Tag(txs), nil
}

// refsOf lists the distinct priced symbols of txs in a stable order.
func refsOf(txs []model.Transaction) []model.AssetRef {
	seen := make(map[string]struct{})
	refs := make([]model.AssetRef, 0)
	for _, tx := range txs {
		if tx.Malformed || tx.Category == model.CategoryCash || tx.Asset == "" {
			continue
		}
		if _, ok := seen[tx.Asset]; ok {
			continue
		}
		seen[tx.Asset] = struct{}{}
		refs = append(refs, model.AssetRef{Symbol: tx.Asset, Category: tx.Category})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Symbol < refs[j].Symbol })
	return refs
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", service.ErrNotFound, err)
	case errors.Is(err, repository.ErrMissingCredentials):
		return fmt.Errorf("%w: %v", service.ErrMissingCredentials, err)
	case errors.Is(err, repository.ErrAlreadyExists):
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	case errors.Is(err, period.ErrInvalidPeriod):
		return fmt.Errorf("%w: %v", service.ErrInvalidPeriod, err)
	}
	return err
}
