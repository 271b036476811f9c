package service

import (
	"github.com/shopspring/decimal"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/money"
)

// TaxRate is the fixed sales tax applied to every checkout (8.5%).
var TaxRate = decimal.RequireFromString("0.085")

// Subtotal sums the extended line prices, exactly.
func Subtotal(items []models.LineItem) money.Money {
	subtotal := money.Zero()
	for _, li := range items {
		subtotal = subtotal.Add(li.LineTotal())
	}
	return subtotal
}

// CalculateTotals derives the pricing breakdown from the cart's line
// items. Pure: same items in, same totals out, and no rounding — the
// formatting boundary rounds, so intermediate error never compounds.
func CalculateTotals(items []models.LineItem) models.Totals {
	subtotal := Subtotal(items)
	tax := subtotal.MulRate(TaxRate)
	return models.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
