package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/networth_dashboard/internal/converter/telebotConverter"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/service"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/jonboulle/clockwork"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg   = "something went wrong..."
	unavailableMsg   = "the ledger is not reachable right now"
	defaultPeriod    = "1Y"
	invalidPeriodMsg = "unknown period, try one of: 1D 5D 1M 6M YTD 1Y 3Y 5Y 10Y MAX"
)

type PortfolioService interface {
	Dashboard(ctx context.Context, displayCurrency string) (model.Dashboard, error)
	Categories(ctx context.Context) ([]model.AssetCategorySummary, error)
	PortfolioPerformance(ctx context.Context, periodToken string) (map[string]model.PerformanceSeries, error)
	Export(ctx context.Context) (fileBytes []byte, fileExtension string, err error)
}

type Controller struct {
	portfolioService PortfolioService
	clock            clockwork.Clock
}

func NewController(portfolioService PortfolioService, clock clockwork.Clock) *Controller {
	return &Controller{
		portfolioService: portfolioService,
		clock:            clock,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Send(telebotConverter.StartResponse())
}

func (ctrl *Controller) Summary(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	currency := ""
	if args := c.Args(); len(args) > 0 {
		currency = strings.ToUpper(args[0])
	}

	dashboard, err := ctrl.portfolioService.Dashboard(ctx, currency)
	if err != nil {
		return ctrl.replyError(ctx, c, "portfolioService.Dashboard", err)
	}
	return c.Send(telebotConverter.SummaryResponse(dashboard))
}

func (ctrl *Controller) Categories(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	categories, err := ctrl.portfolioService.Categories(ctx)
	if err != nil {
		return ctrl.replyError(ctx, c, "portfolioService.Categories", err)
	}
	return c.Send(telebotConverter.CategoriesResponse(categories))
}

func (ctrl *Controller) Performance(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	period := defaultPeriod
	if args := c.Args(); len(args) > 0 {
		period = strings.ToUpper(args[0])
	}

	text, markup, err := ctrl.performance(ctx, period)
	if err != nil {
		return ctrl.replyError(ctx, c, "portfolioService.PortfolioPerformance", err)
	}
	return c.Send(text, markup)
}

// PerformanceCallback redraws the performance message for the pressed period.
func (ctrl *Controller) PerformanceCallback(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	text, markup, err := ctrl.performance(ctx, c.Callback().Data)
	if err != nil {
		_ = c.Respond()
		return ctrl.replyError(ctx, c, "portfolioService.PortfolioPerformance", err)
	}
	_ = c.Respond()
	return c.Edit(text, markup)
}

func (ctrl *Controller) performance(ctx context.Context, period string) (string, *tele.ReplyMarkup, error) {
	series, err := ctrl.portfolioService.PortfolioPerformance(ctx, period)
	if err != nil {
		return "", nil, err
	}
	text, markup := telebotConverter.PerformanceResponse(period, series)
	return text, markup, nil
}

func (ctrl *Controller) Export(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	data, ext, err := ctrl.portfolioService.Export(ctx)
	if err != nil {
		return ctrl.replyError(ctx, c, "portfolioService.Export", err)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: "networth-" + model.FormatDate(ctrl.clock.Now()) + ext,
	}
	return c.Send(doc)
}

func (ctrl *Controller) replyError(ctx context.Context, c tele.Context, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod):
		return c.Send(invalidPeriodMsg)
	case errors.Is(err, service.ErrInvalidInput):
		return c.Send("invalid input: " + err.Error())
	case errors.Is(err, service.ErrMissingCredentials):
		return c.Send(unavailableMsg)
	}
	slog.Error("got error from "+op, slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	return c.Send(internalErrMsg)
}
