package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func NewRouter(ctrl *Controller) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger())

	r.GET("/health", ctrl.Health)

	api := r.Group("/api")

	transactions := api.Group("/transactions")
	transactions.GET("", ctrl.ListTransactions)
	transactions.POST("", ctrl.CreateTransaction)
	transactions.POST("/import", ctrl.ImportTransactions)
	transactions.PUT("/:id", ctrl.UpdateTransaction)
	transactions.DELETE("/:id", ctrl.DeleteTransaction)

	liabilities := api.Group("/liabilities")
	liabilities.GET("", ctrl.ListLiabilities)
	liabilities.POST("", ctrl.CreateLiability)
	liabilities.PUT("/:id", ctrl.UpdateLiability)
	liabilities.DELETE("/:id", ctrl.DeleteLiability)

	api.GET("/assets", ctrl.Assets)
	api.GET("/assets/categories", ctrl.Categories)

	analytics := api.Group("/analytics")
	analytics.GET("/portfolio-performance", ctrl.PortfolioPerformance)
	analytics.GET("/symbol-performance", ctrl.SymbolPerformance)
	analytics.GET("/benchmark-data", ctrl.BenchmarkData)

	api.GET("/dashboard", ctrl.Dashboard)
	api.GET("/forex", ctrl.Forex)
	api.GET("/news", ctrl.News)
	api.GET("/export", ctrl.Export)

	return r
}

type Server struct {
	srv *http.Server
}

func NewServer(cfg *config.Config, ctrl *Controller) *Server {
	gin.SetMode(cfg.HTTP.GinMode)
	return &Server{
		srv: &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
			Handler:           NewRouter(ctrl),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Start() {
	go func() {
		slog.Info("http server started", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", slog.String("err", err.Error()))
		}
	}()
}

func (s *Server) Stop() {
	slog.Info("start stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
	slog.Info("http server stopped")
}
