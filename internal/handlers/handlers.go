package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/service"
)

// CatalogClient lists products from the catalog service.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// CartEventPublisher announces explicit cart clears.
type CartEventPublisher interface {
	PublishCartCleared(ctx context.Context, reason string) error
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handlers for the POS service.
type Handlers struct {
	cartStore      *cart.Store
	checkout       *service.CheckoutService
	transactions   *service.TransactionService
	catalog        CatalogClient
	events         CartEventPublisher
	storePinger    Pinger
	config         *config.Config
	logger         *logging.Logger
	metrics        *metrics.POSMetrics
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	cartStore *cart.Store,
	checkout *service.CheckoutService,
	transactions *service.TransactionService,
	catalog CatalogClient,
	events CartEventPublisher,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		cartStore:    cartStore,
		checkout:     checkout,
		transactions: transactions,
		catalog:      catalog,
		events:       events,
		config:       cfg,
		logger:       logging.New("handlers"),
	}
}

// WithMetrics attaches the checkout outcome counters.
func (h *Handlers) WithMetrics(m *metrics.POSMetrics) *Handlers {
	h.metrics = m
	return h
}

// WithStorePinger attaches the persistence readiness probe.
func (h *Handlers) WithStorePinger(p Pinger) *Handlers {
	h.storePinger = p
	return h
}

// handleError maps domain errors to HTTP responses. Every error carries
// a single operator-facing message; validation failures also carry the
// rule that fired.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if ve, ok := errors.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": ve.Message,
			"code":  string(ve.Kind),
		})
		return
	}

	if se, ok := errors.AsSubmission(err); ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": se.Message})
		return
	}

	if err == service.ErrCheckoutInFlight {
		c.JSON(http.StatusConflict, gin.H{"error": "Checkout already in progress"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
