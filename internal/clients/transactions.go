package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
)

// HTTPTransactionClient fetches settled transactions over HTTP.
type HTTPTransactionClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.Logger
}

// NewHTTPTransactionClient creates an HTTP-based transaction client.
// Transaction history lives with the settlement service.
func NewHTTPTransactionClient(cfg config.ServiceConfig, logger *logging.Logger) *HTTPTransactionClient {
	return &HTTPTransactionClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// ListTransactions retrieves the settled transaction history.
func (c *HTTPTransactionClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	url := fmt.Sprintf("%s/api/transactions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	setHeaders(ctx, req, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch transactions", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transaction service returned status %d", resp.StatusCode)
	}

	var transactions []models.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&transactions); err != nil {
		return nil, err
	}

	c.logger.Debug("Transactions fetched", logging.Fields{"count": len(transactions)})
	return transactions, nil
}

// MockTransactionClient is a mock implementation for testing.
type MockTransactionClient struct {
	Transactions []models.Transaction
	Err          error
}

func (m *MockTransactionClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Transactions, nil
}
