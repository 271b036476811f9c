package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/server"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New("pos-service")
	logger.Info("Starting pos-service", logging.Fields{"port": cfg.Server.Port})

	m := metrics.New("pos", prometheus.DefaultRegisterer)

	cartRepo, pinger := initCartRepository(cfg, logger)

	cartStore := cart.NewStore(cartRepo, logging.New("cart-store"))
	cartStore.Subscribe(func(op cart.Op, items []models.LineItem) {
		m.CartMutations.WithLabelValues(string(op)).Inc()
		count := 0
		for _, li := range items {
			count += li.Quantity
		}
		m.CartItems.Set(float64(count))
	})

	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 5*time.Second)
	cartStore.Restore(restoreCtx)
	cancelRestore()

	catalogClient := clients.NewHTTPCatalogClient(cfg.CatalogService, logging.New("catalog-client"))
	settlementClient := clients.NewHTTPSettlementClient(cfg.SettlementService, logging.New("settlement-client"))
	transactionClient := clients.NewHTTPTransactionClient(cfg.SettlementService, logging.New("transaction-client"))

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logging.New("pos-events"))
	defer eventPublisher.Close()

	checkoutService := service.NewCheckoutService(cartStore, settlementClient, eventPublisher, cfg)
	transactionService := service.NewTransactionService(transactionClient)

	h := handlers.NewHandlers(
		cartStore,
		checkoutService,
		transactionService,
		catalogClient,
		eventPublisher,
		cfg,
	).WithMetrics(m)
	if pinger != nil {
		h = h.WithStorePinger(pinger)
	}

	srv := server.New(h, cfg, m)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":              cfg.Server.Port,
			"cart_persistence":  cfg.Features.EnableCartPersistence,
			"pos_events":        cfg.Features.EnablePOSEvents,
			"settlement_url":    cfg.SettlementService.BaseURL,
			"catalog_url":       cfg.CatalogService.BaseURL,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}

// initCartRepository picks the persistence backing. Persistence is
// advisory, so a disabled flag degrades to process memory rather than
// refusing to start.
func initCartRepository(cfg *config.Config, logger *logging.Logger) (cart.Repository, handlers.Pinger) {
	if !cfg.Features.EnableCartPersistence {
		logger.Info("Cart persistence disabled; using in-memory store")
		return repository.NewMemoryCartRepository(), nil
	}

	repo := repository.NewRedisCartRepository(cfg.Redis, cfg.Cart.StorageKey)

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := repo.Ping(pingCtx); err != nil {
		// Keep going: a dead store must never block checkout.
		logger.Error("Cart store unreachable at startup", logging.Fields{"error": err.Error()})
	}

	logger.Info("Cart persistence connected", logging.Fields{
		"host": cfg.Redis.Host,
		"key":  cfg.Cart.StorageKey,
	})
	return repo, repo
}
