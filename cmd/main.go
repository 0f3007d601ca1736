package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/data"
	"github.com/KotFed0t/networth_dashboard/data/cache"
	"github.com/KotFed0t/networth_dashboard/data/repository"
	"github.com/KotFed0t/networth_dashboard/data/repository/memory"
	"github.com/KotFed0t/networth_dashboard/data/repository/postgres"
	"github.com/KotFed0t/networth_dashboard/data/repository/sheets"
	"github.com/KotFed0t/networth_dashboard/internal/externalApi/finnhubApi"
	"github.com/KotFed0t/networth_dashboard/internal/externalApi/yahooApi"
	"github.com/KotFed0t/networth_dashboard/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/networth_dashboard/internal/scheduler"
	"github.com/KotFed0t/networth_dashboard/internal/service/marketDataService"
	"github.com/KotFed0t/networth_dashboard/internal/service/newsService"
	"github.com/KotFed0t/networth_dashboard/internal/service/portfolioService"
	"github.com/KotFed0t/networth_dashboard/internal/tgbot"
	"github.com/KotFed0t/networth_dashboard/internal/transport/rest"
	"github.com/KotFed0t/networth_dashboard/internal/transport/telegram"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.String("ledger", cfg.Ledger.Kind), slog.Int("httpPort", cfg.HTTP.Port))

	if err := run(cfg); err != nil {
		slog.Error("startup failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewRealClock()

	ledger, closeLedger, err := newLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	marketCache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	yahooApiClient := yahooApi.New(cfg)
	finnhubApiClient := finnhubApi.New(cfg)

	marketDataSrv := marketDataService.New(cfg, yahooApiClient, marketCache)

	newsSrv, err := newsService.New(finnhubApiClient, clock)
	if err != nil {
		return fmt.Errorf("news service: %w", err)
	}

	portfolioSrv, err := portfolioService.New(cfg, ledger, marketDataSrv, xslsxGenerator.New(), clock)
	if err != nil {
		return fmt.Errorf("portfolio service: %w", err)
	}

	sched, err := scheduler.New(clock)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	if err = sched.NewIntervalJob("warm quotes cache", portfolioSrv.WarmQuotes, cfg.Jobs.WarmQuotesInterval, true); err != nil {
		return err
	}
	if err = sched.NewCrontabJob("refresh news", newsSrv.Refresh, cfg.Jobs.RefreshNewsCrontab, true); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	server := rest.NewServer(cfg, rest.NewController(portfolioSrv, newsSrv, clock))
	server.Start()
	defer server.Stop()

	if cfg.Telegram.Token != "" {
		tgBot, err := tgbot.New(cfg, telegram.NewController(portfolioSrv, clock))
		if err != nil {
			return err
		}
		tgBot.Start()
		defer tgBot.Stop()
	}

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	return nil
}

func newLedger(ctx context.Context, cfg *config.Config) (portfolioService.Ledger, func(), error) {
	switch cfg.Ledger.Kind {
	case config.LedgerPostgres:
		db, err := data.NewPostgresClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewPostgres(cfg, db), func() { _ = db.Close() }, nil

	case config.LedgerMemory:
		slog.Warn("using in-memory ledger, data is lost on restart")
		return memory.NewLedger(nil, nil), func() {}, nil

	default:
		svc, err := data.NewSheetsService(ctx, cfg)
		if err != nil {
			if !errors.Is(err, repository.ErrMissingCredentials) {
				return nil, nil, err
			}
			slog.Warn("google sheets ledger unavailable", slog.String("err", err.Error()))
			return sheets.NewUnavailableLedger(err), func() {}, nil
		}

		ledger := sheets.NewLedger(svc, cfg)
		if err = ledger.EnsureSchema(ctx); err != nil {
			slog.Warn("google sheets schema check failed", slog.String("err", err.Error()))
		}
		return ledger, func() {}, nil
	}
}

func newCache(ctx context.Context, cfg *config.Config) (marketDataService.Cache, func()) {
	if !cfg.Redis.Enabled {
		return cache.Noop{}, func() {}
	}

	redisClient, err := data.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("redis unavailable, market data is not cached", slog.String("err", err.Error()))
		return cache.Noop{}, func() {}
	}
	return cache.NewRedisCache(redisClient, cfg), func() { _ = redisClient.Close() }
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
