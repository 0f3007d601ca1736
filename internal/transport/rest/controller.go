package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/KotFed0t/networth_dashboard/internal/converter/httpConverter"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/internal/model/httpModel"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

const defaultPeriod = "1Y"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PortfolioService interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, tx model.Transaction) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ImportTransactions(ctx context.Context, txs []model.Transaction) ([]model.Transaction, error)

	ListLiabilities(ctx context.Context) ([]model.Liability, error)
	CreateLiability(ctx context.Context, l model.Liability) (model.Liability, error)
	UpdateLiability(ctx context.Context, id string, l model.Liability) (model.Liability, error)
	DeleteLiability(ctx context.Context, id string) error

	Assets(ctx context.Context) ([]model.Asset, error)
	Categories(ctx context.Context) ([]model.AssetCategorySummary, error)
	PortfolioPerformance(ctx context.Context, periodToken string) (map[string]model.PerformanceSeries, error)
	AssetPerformance(ctx context.Context, periodToken string, symbols []string) (map[string]model.PerformanceSeries, error)
	BenchmarkPerformance(ctx context.Context, periodToken string) (map[string]model.PerformanceSeries, error)
	Dashboard(ctx context.Context, displayCurrency string) (model.Dashboard, error)
	ForexRate(ctx context.Context) decimal.Decimal
	Export(ctx context.Context) (fileBytes []byte, fileExtension string, err error)
}

type NewsService interface {
	GetNews(ctx context.Context) (model.News, error)
}

type Controller struct {
	portfolio PortfolioService
	news      NewsService
	clock     clockwork.Clock
}

func NewController(portfolio PortfolioService, news NewsService, clock clockwork.Clock) *Controller {
	return &Controller{portfolio: portfolio, news: news, clock: clock}
}

func (ctrl *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (ctrl *Controller) ListTransactions(c *gin.Context) {
	txs, err := ctrl.portfolio.ListTransactions(c.Request.Context())
	if err != nil {
		abortWithError(c, "ListTransactions", err)
		return
	}
	c.JSON(http.StatusOK, httpConverter.TransactionsToHTTP(txs))
}

func (ctrl *Controller) CreateTransaction(c *gin.Context) {
	tx, ok := bindTransaction(c)
	if !ok {
		return
	}
	created, err := ctrl.portfolio.CreateTransaction(c.Request.Context(), tx)
	if err != nil {
		abortWithError(c, "CreateTransaction", err)
		return
	}
	c.JSON(http.StatusCreated, httpConverter.TransactionToHTTP(created))
}

func (ctrl *Controller) UpdateTransaction(c *gin.Context) {
	tx, ok := bindTransaction(c)
	if !ok {
		return
	}
	updated, err := ctrl.portfolio.UpdateTransaction(c.Request.Context(), c.Param("id"), tx)
	if err != nil {
		abortWithError(c, "UpdateTransaction", err)
		return
	}
	c.JSON(http.StatusOK, httpConverter.TransactionToHTTP(updated))
}

func (ctrl *Controller) DeleteTransaction(c *gin.Context) {
	if err := ctrl.portfolio.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, "DeleteTransaction", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctrl *Controller) ImportTransactions(c *gin.Context) {
	var req httpModel.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	txs := make([]model.Transaction, 0, len(req.Transactions))
	for i, dto := range req.Transactions {
		tx, err := httpConverter.ConvertTransaction(dto)
		if err != nil {
			badRequest(c, fmt.Errorf("row %d: %w", i+1, err))
			return
		}
		txs = append(txs, tx)
	}

	imported, err := ctrl.portfolio.ImportTransactions(c.Request.Context(), txs)
	if err != nil {
		abortWithError(c, "ImportTransactions", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"imported":     len(imported),
		"transactions": httpConverter.TransactionsToHTTP(imported),
	})
}

func bindTransaction(c *gin.Context) (model.Transaction, bool) {
	var dto httpModel.Transaction
	if err := c.ShouldBindJSON(&dto); err != nil {
		badRequest(c, err)
		return model.Transaction{}, false
	}
	tx, err := httpConverter.ConvertTransaction(dto)
	if err != nil {
		badRequest(c, err)
		return model.Transaction{}, false
	}
	return tx, true
}

func (ctrl *Controller) ListLiabilities(c *gin.Context) {
	liabilities, err := ctrl.portfolio.ListLiabilities(c.Request.Context())
	if err != nil {
		abortWithError(c, "ListLiabilities", err)
		return
	}
	c.JSON(http.StatusOK, httpConverter.LiabilitiesToHTTP(liabilities))
}

func (ctrl *Controller) CreateLiability(c *gin.Context) {
	l, ok := bindLiability(c)
	if !ok {
		return
	}
	created, err := ctrl.portfolio.CreateLiability(c.Request.Context(), l)
	if err != nil {
		abortWithError(c, "CreateLiability", err)
		return
	}
	c.JSON(http.StatusCreated, httpConverter.LiabilityToHTTP(created))
}

func (ctrl *Controller) UpdateLiability(c *gin.Context) {
	l, ok := bindLiability(c)
	if !ok {
		return
	}
	updated, err := ctrl.portfolio.UpdateLiability(c.Request.Context(), c.Param("id"), l)
	if err != nil {
		abortWithError(c, "UpdateLiability", err)
		return
	}
	c.JSON(http.StatusOK, httpConverter.LiabilityToHTTP(updated))
}

func (ctrl *Controller) DeleteLiability(c *gin.Context) {
	if err := ctrl.portfolio.DeleteLiability(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, "DeleteLiability", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindLiability(c *gin.Context) (model.Liability, bool) {
	var dto httpModel.Liability
	if err := c.ShouldBindJSON(&dto); err != nil {
		badRequest(c, err)
		return model.Liability{}, false
	}
	l, err := httpConverter.ConvertLiability(dto)
	if err != nil {
		badRequest(c, err)
		return model.Liability{}, false
	}
	return l, true
}

func (ctrl *Controller) Assets(c *gin.Context) {
	assets, err := ctrl.portfolio.Assets(c.Request.Context())
	if err != nil {
		abortWithError(c, "Assets", err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (ctrl *Controller) Categories(c *gin.Context) {
	categories, err := ctrl.portfolio.Categories(c.Request.Context())
	if err != nil {
		abortWithError(c, "Categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (ctrl *Controller) PortfolioPerformance(c *gin.Context) {
	res, err := ctrl.portfolio.PortfolioPerformance(c.Request.Context(), c.DefaultQuery("period", defaultPeriod))
	if err != nil {
		abortWithError(c, "PortfolioPerformance", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctrl *Controller) SymbolPerformance(c *gin.Context) {
	var symbols []string
	for _, s := range strings.Split(c.Query("symbols"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	res, err := ctrl.portfolio.AssetPerformance(c.Request.Context(), c.DefaultQuery("period", defaultPeriod), symbols)
	if err != nil {
		abortWithError(c, "SymbolPerformance", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctrl *Controller) BenchmarkData(c *gin.Context) {
	res, err := ctrl.portfolio.BenchmarkPerformance(c.Request.Context(), c.DefaultQuery("period", defaultPeriod))
	if err != nil {
		abortWithError(c, "BenchmarkData", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctrl *Controller) Dashboard(c *gin.Context) {
	res, err := ctrl.portfolio.Dashboard(c.Request.Context(), strings.ToUpper(c.Query("currency")))
	if err != nil {
		abortWithError(c, "Dashboard", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctrl *Controller) Forex(c *gin.Context) {
	c.JSON(http.StatusOK, httpModel.ForexRate{
		Base:  string(model.CurrencyUSD),
		Quote: string(model.CurrencyNTD),
		Rate:  ctrl.portfolio.ForexRate(c.Request.Context()),
	})
}

func (ctrl *Controller) News(c *gin.Context) {
	news, err := ctrl.news.GetNews(c.Request.Context())
	if err != nil {
		abortWithError(c, "News", err)
		return
	}
	c.JSON(http.StatusOK, news)
}

func (ctrl *Controller) Export(c *gin.Context) {
	data, ext, err := ctrl.portfolio.Export(c.Request.Context())
	if err != nil {
		abortWithError(c, "Export", err)
		return
	}
	filename := "networth-" + model.FormatDate(ctrl.clock.Now()) + ext
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
