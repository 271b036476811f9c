package errors

import "errors"

// Kind identifies which checkout validation rule failed.
type Kind string

const (
	KindEmptyCart           Kind = "EMPTY_CART"
	KindInsufficientPayment Kind = "INSUFFICIENT_PAYMENT"
	KindInvalidCardNumber   Kind = "INVALID_CARD_NUMBER"
	KindMissingHolderName   Kind = "MISSING_HOLDER_NAME"
	KindInvalidExpiry       Kind = "INVALID_EXPIRY"
)

// ValidationError is a recoverable checkout validation failure. The
// operator corrects the input and retries; nothing about the cart changes.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewEmptyCartError reports a checkout attempt with no line items.
func NewEmptyCartError() *ValidationError {
	return &ValidationError{Kind: KindEmptyCart, Message: "Add items to cart first."}
}

// NewInsufficientPaymentError reports cash tendered below the amount due,
// or a cash amount that does not parse as a number.
func NewInsufficientPaymentError() *ValidationError {
	return &ValidationError{Kind: KindInsufficientPayment, Message: "Cash amount is insufficient for the total."}
}

// NewInvalidCardNumberError reports a card last-4 that is not exactly four digits.
func NewInvalidCardNumberError() *ValidationError {
	return &ValidationError{Kind: KindInvalidCardNumber, Message: "Enter last 4 digits of the card."}
}

// NewMissingHolderNameError reports an empty cardholder name.
func NewMissingHolderNameError() *ValidationError {
	return &ValidationError{Kind: KindMissingHolderName, Message: "Enter cardholder name."}
}

// NewInvalidExpiryError reports an expiry that is not in MM/YY shape.
func NewInvalidExpiryError() *ValidationError {
	return &ValidationError{Kind: KindInvalidExpiry, Message: "Enter expiry as MM/YY."}
}

// SubmissionError is a recoverable settlement failure: the collaborator
// rejected the checkout, or the request/response never made it across.
// The cart is left untouched and the operator may retry unchanged.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	return e.Message
}

// NewSubmissionError wraps a collaborator-provided message, falling back
// to a generic one when the collaborator sent none.
func NewSubmissionError(message string) *SubmissionError {
	if message == "" {
		message = "Checkout failed"
	}
	return &SubmissionError{Message: message}
}

// AsValidation unwraps err as a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsSubmission unwraps err as a SubmissionError, if it is one.
func AsSubmission(err error) (*SubmissionError, bool) {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
