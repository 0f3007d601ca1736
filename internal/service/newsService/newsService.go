package newsService

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/model/finnhubModel"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/jonboulle/clockwork"
)

const (
	articlesCount = 3
	refreshHour   = 9
)

type NewsApi interface {
	Enabled() bool
	GetGeneralNews(ctx context.Context) ([]finnhubModel.NewsItem, error)
}

// NewsService caches the latest headlines until the next 09:00 New York time.
type NewsService struct {
	api   NewsApi
	clock clockwork.Clock
	loc   *time.Location

	mu     sync.Mutex
	cached *model.News
}

func New(api NewsApi, clock clockwork.Clock) (*NewsService, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, err
	}
	return &NewsService{api: api, clock: clock, loc: loc}, nil
}

// NextUpdate returns the first 09:00 in loc strictly after t.
func NextUpdate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), refreshHour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, refreshHour, 0, 0, 0, loc)
	}
	return next
}

func (s *NewsService) GetNews(ctx context.Context) (model.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.clock.Now().Before(s.cached.NextUpdate) {
		return *s.cached, nil
	}
	return s.refreshLocked(ctx), nil
}

// Refresh replaces the cached headlines; used by the scheduled job.
func (s *NewsService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
	return nil
}

func (s *NewsService) refreshLocked(ctx context.Context) model.News {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "NewsService.refresh"
	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("op", op))

	var articles []model.NewsArticle
	if s.api.Enabled() {
		items, err := s.api.GetGeneralNews(ctx)
		if err != nil {
			slog.Warn("news unavailable, using placeholders", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			articles = latest(items, articlesCount)
		}
	} else {
		slog.Info("finnhub api key is not set, using placeholder news", slog.String("rqID", rqID))
	}

	now := s.clock.Now()
	news := model.News{
		Articles:    pad(articles, now),
		LastUpdated: now.UTC(),
		NextUpdate:  NextUpdate(now, s.loc).UTC(),
	}
	s.cached = &news

	slog.Debug(op+" finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("articles", len(articles)))
	return news
}

func latest(items []finnhubModel.NewsItem, n int) []model.NewsArticle {
	sorted := append([]finnhubModel.NewsItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datetime > sorted[j].Datetime
	})

	out := make([]model.NewsArticle, 0, n)
	for _, item := range sorted {
		if len(out) == n {
			break
		}
		if item.Headline == "" || item.URL == "" {
			continue
		}
		out = append(out, model.NewsArticle{
			ID:          strconv.FormatInt(item.ID, 10),
			Title:       item.Headline,
			Description: item.Summary,
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: time.Unix(item.Datetime, 0).UTC(),
			ImageURL:    item.Image,
		})
	}
	return out
}

var placeholders = []model.NewsArticle{
	{
		ID:          "placeholder-1",
		Title:       "Markets Update",
		Description: "Set FINNHUB_API_KEY to receive live market headlines.",
		URL:         "https://finnhub.io/",
		Source:      "Net Worth Dashboard",
	},
	{
		ID:          "placeholder-2",
		Title:       "Review Your Allocation",
		Description: "Compare category weights against your targets on the assets page.",
		URL:         "https://finnhub.io/",
		Source:      "Net Worth Dashboard",
	},
	{
		ID:          "placeholder-3",
		Title:       "Track Performance",
		Description: "Benchmark your portfolio against the S&P 500, Taiwan 0050 and BTC.",
		URL:         "https://finnhub.io/",
		Source:      "Net Worth Dashboard",
	},
}

func pad(articles []model.NewsArticle, now time.Time) []model.NewsArticle {
	out := append([]model.NewsArticle(nil), articles...)
	for i := 0; len(out) < articlesCount && i < len(placeholders); i++ {
		p := placeholders[i]
		p.PublishedAt = now.UTC()
		out = append(out, p)
	}
	return out
}
