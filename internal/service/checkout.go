package service

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"
	"sync"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/money"
)

// CheckoutStatus is the submitter state. Success and failure both settle
// back to idle; only Submitting is observable from outside.
type CheckoutStatus string

const (
	CheckoutStatusIdle       CheckoutStatus = "IDLE"
	CheckoutStatusSubmitting CheckoutStatus = "SUBMITTING"
)

// ErrCheckoutInFlight rejects a second initiation while one is pending.
// Attempts are rejected, never queued.
var ErrCheckoutInFlight = stderrors.New("checkout already in progress")

var (
	cardLast4Pattern = regexp.MustCompile(`^\d{4}$`)
	// Shape only: two digits, slash, two digits. The month is
	// deliberately not range-checked, so "13/99" passes.
	cardExpiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// SettlementClient submits a validated checkout to the settlement
// service. Failures come back as *errors.SubmissionError carrying the
// collaborator's message when it sent one.
type SettlementClient interface {
	SubmitCheckout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
}

// EventPublisher announces settled checkouts. Publishing is advisory.
type EventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, transactionID string, req *models.CheckoutRequest) error
}

// CheckoutResult is what the terminal surfaces after a settled checkout.
type CheckoutResult struct {
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

// CheckoutService validates payment selections against the current cart
// and drives the submission state machine.
type CheckoutService struct {
	cart       *cart.Store
	settlement SettlementClient
	events     EventPublisher
	config     *config.Config
	logger     *logging.Logger

	mu     sync.Mutex
	status CheckoutStatus
}

// NewCheckoutService creates a checkout service in the idle state.
func NewCheckoutService(
	cartStore *cart.Store,
	settlement SettlementClient,
	events EventPublisher,
	cfg *config.Config,
) *CheckoutService {
	return &CheckoutService{
		cart:       cartStore,
		settlement: settlement,
		events:     events,
		config:     cfg,
		logger:     logging.New("checkout-service"),
		status:     CheckoutStatusIdle,
	}
}

// Status reports the current submitter state.
func (s *CheckoutService) Status() CheckoutStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// BuildRequest runs the validation pipeline and, if every rule passes,
// snapshots the cart and payment selection into an immutable checkout
// request. Rules run in order and the first failure wins. No state is
// mutated.
func (s *CheckoutService) BuildRequest(selection models.PaymentSelection) (*models.CheckoutRequest, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, errors.NewEmptyCartError()
	}

	totals := CalculateTotals(items)

	req := &models.CheckoutRequest{
		Items:         make([]models.CheckoutItem, len(items)),
		PaymentMethod: selection.Method(),
	}
	for i, li := range items {
		req.Items[i] = models.CheckoutItem{
			Name:     li.Name,
			Price:    li.UnitPrice,
			Quantity: li.Quantity,
		}
	}

	switch sel := selection.(type) {
	case models.Cash:
		// The operator settles against the displayed total, so the
		// tendered amount is compared to the rounded figure.
		due := totals.Total.Rounded()
		paid, err := money.FromString(strings.TrimSpace(sel.AmountPaid))
		if err != nil || !paid.GreaterThanOrEqual(due) {
			return nil, errors.NewInsufficientPaymentError()
		}
		req.AmountPaid = &paid
	case models.Card:
		last4 := strings.TrimSpace(sel.Last4)
		if !cardLast4Pattern.MatchString(last4) {
			return nil, errors.NewInvalidCardNumberError()
		}
		holder := strings.TrimSpace(sel.HolderName)
		if holder == "" {
			return nil, errors.NewMissingHolderNameError()
		}
		expiry := strings.TrimSpace(sel.Expiry)
		if !cardExpiryPattern.MatchString(expiry) {
			return nil, errors.NewInvalidExpiryError()
		}
		req.CardLast4 = last4
		req.CardHolderName = holder
		req.CardExpiry = expiry
	default:
		return nil, errors.NewSubmissionError("unsupported payment method")
	}

	return req, nil
}

// Submit validates the selection, sends the checkout to the settlement
// service, and on success clears and re-persists the cart. At most one
// submission is in flight; concurrent attempts get ErrCheckoutInFlight.
// On any failure the cart is left untouched and the service returns to
// idle so the operator can retry.
func (s *CheckoutService) Submit(ctx context.Context, selection models.PaymentSelection) (*CheckoutResult, error) {
	s.mu.Lock()
	if s.status == CheckoutStatusSubmitting {
		s.mu.Unlock()
		return nil, ErrCheckoutInFlight
	}
	s.status = CheckoutStatusSubmitting
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.status = CheckoutStatusIdle
		s.mu.Unlock()
	}()

	req, err := s.BuildRequest(selection)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Submitting checkout", logging.Fields{
		"method":     string(req.PaymentMethod),
		"item_count": len(req.Items),
	})

	resp, err := s.settlement.SubmitCheckout(ctx, req)
	if err != nil {
		s.logger.Error("Checkout submission failed", logging.Fields{"error": err.Error()})
		if _, ok := errors.AsSubmission(err); ok {
			return nil, err
		}
		return nil, errors.NewSubmissionError("")
	}

	s.cart.Clear(ctx)

	if s.config.Features.EnablePOSEvents {
		if err := s.events.PublishCheckoutCompleted(ctx, resp.TransactionID, req); err != nil {
			// Log but don't fail: the sale is already settled.
			s.logger.Error("Failed to publish checkout event", logging.Fields{
				"transaction_id": resp.TransactionID,
				"error":          err.Error(),
			})
		}
	}

	s.logger.Info("Checkout settled", logging.Fields{
		"transaction_id": resp.TransactionID,
	})

	return &CheckoutResult{
		TransactionID: resp.TransactionID,
		Message:       "Purchase successful! Transaction #" + resp.TransactionID,
	}, nil
}
