package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/money"
)

func TestTransactionListFormatsMoney(t *testing.T) {
	client := &clients.MockTransactionClient{
		Transactions: []models.Transaction{
			{
				TransactionID: "txn_1",
				Date:          "2024-03-01",
				Method:        "CASH",
				Total:         money.FromFloat(43.3783),
				LineItems: []models.TransactionLine{
					{Description: "Widget", Quantity: 2, UnitPrice: money.FromFloat(19.99), LineTotal: money.FromFloat(39.98)},
				},
			},
		},
	}

	svc := NewTransactionService(client)
	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.Total != "$43.38" {
		t.Errorf("total = %q, want $43.38", v.Total)
	}
	if v.LineItems[0].UnitPrice != "$19.99" || v.LineItems[0].LineTotal != "$39.98" {
		t.Errorf("unexpected line formatting: %+v", v.LineItems[0])
	}
}

func TestTransactionListEmptyIsNotAnError(t *testing.T) {
	svc := NewTransactionService(&clients.MockTransactionClient{})

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("empty history must not error: %v", err)
	}
	if views == nil {
		t.Fatal("empty history must be an empty slice, not nil")
	}
	if len(views) != 0 {
		t.Errorf("expected no views, got %d", len(views))
	}
}

func TestTransactionListPropagatesFetchFailure(t *testing.T) {
	svc := NewTransactionService(&clients.MockTransactionClient{
		Err: stderrors.New("history service down"),
	})

	if _, err := svc.List(context.Background()); err == nil {
		t.Error("fetch failures must be distinguishable from an empty history")
	}
}
