package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/middleware"
)

// Server wraps the gin router and the underlying HTTP server.
type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	handlers   *handlers.Handlers
	metrics    *metrics.POSMetrics
}

// New creates the POS HTTP server with routes and middleware wired.
func New(h *handlers.Handlers, cfg *config.Config, m *metrics.POSMetrics) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		metrics:  m,
	}

	if m != nil {
		router.Use(s.recordMetrics())
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/products", s.handlers.ListProducts)

		api.GET("/cart", s.handlers.GetCart)
		api.POST("/cart/items", s.handlers.AddItem)
		api.POST("/cart/items/:name/increment", s.handlers.IncrementItem)
		api.POST("/cart/items/:name/decrement", s.handlers.DecrementItem)
		api.PUT("/cart/items/:name", s.handlers.SetItemQuantity)
		api.DELETE("/cart/items/:name", s.handlers.RemoveItem)
		api.DELETE("/cart", s.handlers.ClearCart)

		api.POST("/checkout", s.handlers.Checkout)
		api.GET("/transactions", s.handlers.ListTransactions)
	}
}

func (s *Server) recordMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		s.metrics.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		s.metrics.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// Start begins serving requests.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
