package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vunguyen00/Netflix/docs" // swagger docs
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/handlers"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/middleware"
)

// Server constants
const (
	DefaultReadTimeout = 30 * time.Second
	DefaultIdleTimeout = 120 * time.Second
)

// HTTPServer represents the HTTP server component
type HTTPServer struct {
	server     *http.Server
	router     *gin.Engine
	config     *config.Config
	handlerSvc *handlers.HandlerService
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(cfg *config.Config, handlerSvc *handlers.HandlerService) *HTTPServer {
	logger.Info("Initializing HTTP server", zap.String("address", cfg.Server.Addr()))

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		router:     gin.New(),
		config:     cfg,
		handlerSvc: handlerSvc,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     s.router,
		ReadTimeout: DefaultReadTimeout,
		IdleTimeout: DefaultIdleTimeout,
		// no WriteTimeout: warranty streams stay open for the whole run
	}
	return s
}

// Handler returns the routed handler
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *HTTPServer) Start() error {
	logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

func (s *HTTPServer) setupRoutes() {
	s.router.Use(
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		cors.New(s.corsConfig()),
	)

	s.router.GET("/health", s.handlerSvc.HealthCheck)
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.router.Group("/api/v1")
	api.Use(middleware.Authenticate(s.config.Auth))

	s.setupOrderRoutes(api)
	s.setupAdminRoutes(api)

	logger.Info("HTTP routes configured")
}

func (s *HTTPServer) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}

	origins := s.config.Server.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// setupOrderRoutes configures customer endpoints
func (s *HTTPServer) setupOrderRoutes(api *gin.RouterGroup) {
	orders := api.Group("/orders")
	orders.GET("", s.handlerSvc.ListOrders)
	orders.POST("/buy", s.handlerSvc.BuyOrder)
	orders.GET("/:id", s.handlerSvc.GetOrder)
	orders.POST("/:id/extend", s.handlerSvc.ExtendOrder)

	limited := orders.Group("", middleware.RateLimit(s.config.RateLimit))
	limited.GET("/:id/warranty", s.handlerSvc.StreamWarranty)
	limited.POST("/:id/warranty", s.handlerSvc.RunWarranty)
}

// setupAdminRoutes configures pool and operations endpoints
func (s *HTTPServer) setupAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", middleware.RequireAdmin())

	admin.GET("/accounts", s.handlerSvc.ListAccounts)
	admin.POST("/accounts", s.handlerSvc.CreateAccount)
	admin.POST("/accounts/bulk", s.handlerSvc.ImportAccounts)
	admin.GET("/accounts/:id", s.handlerSvc.GetAccount)
	admin.PUT("/accounts/:id", s.handlerSvc.UpdateAccount)
	admin.DELETE("/accounts/:id", s.handlerSvc.DeleteAccount)
	admin.POST("/accounts/:id/sell", s.handlerSvc.SellAccount)

	admin.POST("/orders/:id/switch", s.handlerSvc.SwitchAccount)
	admin.PATCH("/orders/:id/expiration", s.handlerSvc.UpdateOrderExpiration)
	admin.GET("/warranty-runs", s.handlerSvc.ListWarrantyRuns)

	admin.GET("/scheduler/jobs", s.handlerSvc.GetScheduledJobs)
	admin.POST("/scheduler/jobs/:id/run", s.handlerSvc.RunScheduledJob)
	admin.DELETE("/scheduler/jobs/:id", s.handlerSvc.DeleteScheduledJob)
}
