package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
)

// TransactionClient fetches settled transactions from the history service.
type TransactionClient interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
}

// TransactionView is a settled transaction formatted for display.
type TransactionView struct {
	TransactionID string                `json:"transactionId"`
	Date          string                `json:"date"`
	Method        string                `json:"method"`
	Total         string                `json:"total"`
	LineItems     []TransactionLineView `json:"lineItems"`
}

// TransactionLineView is one formatted line within a transaction.
type TransactionLineView struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	LineTotal   string `json:"lineTotal"`
}

// TransactionService is a read-only projection over the transaction
// history collaborator. It formats, it never mutates.
type TransactionService struct {
	client TransactionClient
	logger *logging.Logger
}

// NewTransactionService creates the projection service.
func NewTransactionService(client TransactionClient) *TransactionService {
	return &TransactionService{
		client: client,
		logger: logging.New("transaction-service"),
	}
}

// List fetches and formats the settled transactions. An empty history is
// a valid result, returned as an empty (non-nil) slice so callers can
// tell "no transactions" apart from a failed fetch.
func (s *TransactionService) List(ctx context.Context) ([]TransactionView, error) {
	transactions, err := s.client.ListTransactions(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch transactions", logging.Fields{"error": err.Error()})
		return nil, err
	}

	views := make([]TransactionView, 0, len(transactions))
	for _, t := range transactions {
		view := TransactionView{
			TransactionID: t.TransactionID,
			Date:          t.Date,
			Method:        t.Method,
			Total:         t.Total.Format(),
			LineItems:     make([]TransactionLineView, 0, len(t.LineItems)),
		}
		for _, li := range t.LineItems {
			view.LineItems = append(view.LineItems, TransactionLineView{
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice.Format(),
				LineTotal:   li.LineTotal.Format(),
			})
		}
		views = append(views, view)
	}

	return views, nil
}
