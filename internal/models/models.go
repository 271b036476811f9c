package models

import "github.com/tm-acme-shop/acme-shop-pos-service/internal/money"

// Product is a catalog entry as served by the catalog service.
type Product struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
}

// LineItem is one product entry in the cart with an aggregated quantity.
// At most one line item exists per product name; quantity never drops
// below one.
type LineItem struct {
	Name      string      `json:"name"`
	UnitPrice money.Money `json:"price"`
	Quantity  int         `json:"quantity"`
}

// LineTotal is the exact extended price for the line.
func (li LineItem) LineTotal() money.Money {
	return li.UnitPrice.MulQuantity(li.Quantity)
}

// Totals is the pricing breakdown derived from the cart at a point in
// time. Values are exact; rounding happens at the formatting boundary.
type Totals struct {
	Subtotal money.Money
	Tax      money.Money
	Total    money.Money
}

// PaymentMethod tags the settlement path chosen by the operator.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodCard PaymentMethod = "CARD"
)

// PaymentSelection is the tagged payment variant: exactly one of Cash or
// Card is active at a time, so card fields can never coexist with a cash
// amount.
type PaymentSelection interface {
	Method() PaymentMethod
}

// Cash carries the amount tendered, as the operator typed it. Parsing is
// deferred to validation so a bad amount surfaces as a payment error.
type Cash struct {
	AmountPaid string
}

func (Cash) Method() PaymentMethod { return PaymentMethodCash }

// Card carries the card fields as the operator typed them.
type Card struct {
	Last4      string
	HolderName string
	Expiry     string
}

func (Card) Method() PaymentMethod { return PaymentMethodCard }

// CheckoutItem is a line item snapshotted into a checkout request.
type CheckoutItem struct {
	Name     string      `json:"name"`
	Price    money.Money `json:"price"`
	Quantity int         `json:"quantity"`
}

// CheckoutRequest is the immutable snapshot sent to the settlement
// service. It is built from the cart and payment selection at submission
// time, never a live view.
type CheckoutRequest struct {
	Items          []CheckoutItem `json:"items"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	AmountPaid     *money.Money   `json:"amountPaid,omitempty"`
	CardLast4      string         `json:"cardLast4,omitempty"`
	CardHolderName string         `json:"cardHolderName,omitempty"`
	CardExpiry     string         `json:"cardExpiry,omitempty"`
}

// CheckoutResponse is the settlement service's reply. On failure the
// error message is optional; absent means the caller supplies a fallback.
type CheckoutResponse struct {
	TransactionID string `json:"transactionId"`
	Error         string `json:"error,omitempty"`
}

// Transaction is a settled checkout as reported by the transaction
// history service. Read-only from the terminal's point of view.
type Transaction struct {
	TransactionID string            `json:"transactionId"`
	Date          string            `json:"date"`
	Method        string            `json:"method"`
	Total         money.Money       `json:"total"`
	LineItems     []TransactionLine `json:"lineItems"`
}

// TransactionLine is one settled line item within a transaction.
type TransactionLine struct {
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	UnitPrice   money.Money `json:"unitPrice"`
	LineTotal   money.Money `json:"lineTotal"`
}
