package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

func historyKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("history:%s:%s:%s", symbol, model.FormatDate(start), model.FormatDate(end))
}

func (r *RedisCache) SetQuotes(ctx context.Context, quotes map[string]model.Quote) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetQuotes start", slog.String("rqID", rqID), slog.Int("count", len(quotes)))

	pipe := r.redis.Pipeline()
	for symbol, quote := range quotes {
		quoteJson, err := json.Marshal(quote)
		if err != nil {
			slog.Error("can't marshall quote in SetQuotes", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", symbol))
			return errors.New("can't marshall quote")
		}
		pipe.Set(ctx, quoteKey(symbol), quoteJson, r.cfg.Cache.QuotesExpiration)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetQuotes completed", slog.String("rqID", rqID))
	return nil
}

func (r *RedisCache) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	quote := model.Quote{}
	if err := r.get(ctx, quoteKey(symbol), &quote); err != nil {
		return model.Quote{}, err
	}
	return quote, nil
}

func (r *RedisCache) SetHistory(ctx context.Context, symbol string, start, end time.Time, points []model.PricePoint) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	pointsJson, err := json.Marshal(points)
	if err != nil {
		slog.Error("can't marshall history in SetHistory", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall history")
	}

	err = r.redis.Set(ctx, historyKey(symbol, start, end), pointsJson, r.cfg.Cache.HistoryExpiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", symbol))
	}
	return err
}

func (r *RedisCache) GetHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	var points []model.PricePoint
	if err := r.get(ctx, historyKey(symbol, start, end), &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}

	if err = json.Unmarshal([]byte(res), dst); err != nil {
		slog.Error("can't unmarshall cached value", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return ErrMiss
	}
	return nil
}
