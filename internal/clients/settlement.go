package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
)

// HTTPSettlementClient submits checkouts to the settlement service.
type HTTPSettlementClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.Logger
}

// NewHTTPSettlementClient creates an HTTP-based settlement client.
func NewHTTPSettlementClient(cfg config.ServiceConfig, logger *logging.Logger) *HTTPSettlementClient {
	return &HTTPSettlementClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// SubmitCheckout posts the checkout request and interprets the reply.
// Transport failures, non-2xx statuses, and undecodable bodies all come
// back as *errors.SubmissionError; a failure body's optional "error"
// field supplies the message when present. The response body is decoded
// best-effort, defaulting to an empty payload.
func (c *HTTPSettlementClient) SubmitCheckout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/checkout", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	setHeaders(ctx, httpReq, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Settlement request failed", logging.Fields{"error": err.Error()})
		return nil, errors.NewSubmissionError("")
	}
	defer resp.Body.Close()

	var result models.CheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Undecodable body: treat as an empty payload.
		result = models.CheckoutResponse{}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("Settlement rejected checkout", logging.Fields{
			"status_code": resp.StatusCode,
			"error":       result.Error,
		})
		return nil, errors.NewSubmissionError(result.Error)
	}

	c.logger.Info("Checkout settled", logging.Fields{
		"transaction_id": result.TransactionID,
	})
	return &result, nil
}

// MockSettlementClient is a mock implementation for testing.
type MockSettlementClient struct {
	mu       sync.Mutex
	Response *models.CheckoutResponse
	Err      error

	// Block, when set, holds each submission until released. Lets tests
	// exercise the in-flight rejection path.
	Block chan struct{}

	Requests []*models.CheckoutRequest
}

// NewMockSettlementClient creates a mock that settles every checkout
// with a generated transaction ID.
func NewMockSettlementClient() *MockSettlementClient {
	return &MockSettlementClient{}
}

func (m *MockSettlementClient) SubmitCheckout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		<-block
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response != nil {
		return m.Response, nil
	}
	return &models.CheckoutResponse{
		TransactionID: fmt.Sprintf("txn_%d", time.Now().UnixNano()),
	}, nil
}

// SubmittedCount reports how many checkouts reached the mock.
func (m *MockSettlementClient) SubmittedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
