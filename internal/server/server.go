package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ovoloshina/shopbot-backend/internal/config"
	"github.com/ovoloshina/shopbot-backend/internal/handler"
	"github.com/ovoloshina/shopbot-backend/internal/metrics"
	"github.com/ovoloshina/shopbot-backend/internal/payment"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
	"github.com/ovoloshina/shopbot-backend/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(cfg *config.Config, db *gorm.DB, provider payment.Provider, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	stockRepo := repository.NewStockRepository(db, cfg.Sizes)
	profileRepo := repository.NewProfileRepository(db)
	billRepo := repository.NewBillRepository(db)

	profileSvc := service.NewProfileService(profileRepo)
	orderSvc := service.NewOrderService(stockRepo, billRepo, profileRepo, provider, m, log)

	profileHandler := handler.NewProfileHandler(profileSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	stockHandler := handler.NewStockHandler(orderSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/stock", stockHandler.GetStock)
	api.POST("/users", profileHandler.Ensure)
	api.GET("/users/:id", profileHandler.Get)
	api.PATCH("/users/:id", profileHandler.SetField)
	api.POST("/users/:id/size", orderHandler.SelectSize)
	api.POST("/checkout", orderHandler.StartCheckout)
	api.GET("/bills/:id", orderHandler.CheckBill)
	api.POST("/bills/:id/abandon", orderHandler.Abandon)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
