package server

import (
	"pos-dashboard-sync/internal/handler"
	"pos-dashboard-sync/internal/metrics"
	appmiddleware "pos-dashboard-sync/internal/middleware"
	"pos-dashboard-sync/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo             *echo.Echo
	webhookHandler   *handler.WebhookHandler
	analyticsHandler *handler.AnalyticsHandler
	metrics          *metrics.Registry
	webhookRate      string
}

func NewServer(webhookService service.WebhookService, analyticsService service.AnalyticsService, m *metrics.Registry, webhookRate string) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	webhookHandler := handler.NewWebhookHandler(webhookService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	s := &Server{
		echo:             e,
		webhookHandler:   webhookHandler,
		analyticsHandler: analyticsHandler,
		metrics:          m,
		webhookRate:      webhookRate,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- analytics reads --------
	api.GET("/locations", s.analyticsHandler.ListLocations)
	api.GET("/analytics/summary", s.analyticsHandler.SalesSummary)

	// -------- pos webhooks --------
	webhooks := api.Group("/webhooks", appmiddleware.RateLimit(s.webhookRate))
	webhooks.POST("/pos", s.webhookHandler.PosWebhook)

	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
