package service

import (
	"testing"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/money"
)

func lineItems(entries ...models.LineItem) []models.LineItem {
	return entries
}

func TestCalculateTotalsWidgetCart(t *testing.T) {
	totals := CalculateTotals(lineItems(
		models.LineItem{Name: "Widget", UnitPrice: money.FromFloat(19.99), Quantity: 2},
	))

	if got := totals.Subtotal.Format(); got != "$39.98" {
		t.Errorf("subtotal = %q, want $39.98", got)
	}
	if got := totals.Tax.Format(); got != "$3.40" {
		t.Errorf("tax = %q, want $3.40", got)
	}
	if got := totals.Total.Format(); got != "$43.38" {
		t.Errorf("total = %q, want $43.38", got)
	}
}

func TestTotalsIdentity(t *testing.T) {
	carts := [][]models.LineItem{
		nil,
		lineItems(models.LineItem{Name: "A", UnitPrice: money.FromFloat(0.01), Quantity: 1}),
		lineItems(
			models.LineItem{Name: "A", UnitPrice: money.FromFloat(19.99), Quantity: 3},
			models.LineItem{Name: "B", UnitPrice: money.FromFloat(5.55), Quantity: 7},
		),
		lineItems(
			models.LineItem{Name: "A", UnitPrice: money.FromFloat(123.45), Quantity: 2},
			models.LineItem{Name: "B", UnitPrice: money.FromFloat(0.99), Quantity: 99},
			models.LineItem{Name: "C", UnitPrice: money.FromFloat(42), Quantity: 1},
		),
	}

	for i, items := range carts {
		totals := CalculateTotals(items)

		if !totals.Total.Equal(totals.Subtotal.Add(totals.Tax)) {
			t.Errorf("cart %d: total != subtotal + tax", i)
		}
		if !totals.Tax.Equal(totals.Subtotal.MulRate(TaxRate)) {
			t.Errorf("cart %d: tax != subtotal * rate", i)
		}
	}
}

func TestCalculateTotalsIsPure(t *testing.T) {
	items := lineItems(
		models.LineItem{Name: "A", UnitPrice: money.FromFloat(10), Quantity: 2},
	)

	first := CalculateTotals(items)
	second := CalculateTotals(items)

	if !first.Total.Equal(second.Total) {
		t.Error("same cart must produce the same totals")
	}
	if items[0].Quantity != 2 {
		t.Error("pricing must not mutate the cart")
	}
}

func TestEmptyCartTotalsAreZero(t *testing.T) {
	totals := CalculateTotals(nil)
	if got := totals.Total.Format(); got != "$0.00" {
		t.Errorf("empty cart total = %q, want $0.00", got)
	}
}
