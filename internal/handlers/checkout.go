package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
)

type checkoutFormRequest struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`

	// Cash fields
	AmountPaid string `json:"amountPaid"`

	// Card fields
	CardLast4      string `json:"cardLast4"`
	CardHolderName string `json:"cardHolderName"`
	CardExpiry     string `json:"cardExpiry"`
}

// selection folds the flat form into the tagged payment variant, so the
// rest of the system never sees cash and card fields side by side.
func (r checkoutFormRequest) selection() (models.PaymentSelection, bool) {
	switch r.PaymentMethod {
	case models.PaymentMethodCash:
		return models.Cash{AmountPaid: r.AmountPaid}, true
	case models.PaymentMethodCard:
		return models.Card{
			Last4:      r.CardLast4,
			HolderName: r.CardHolderName,
			Expiry:     r.CardExpiry,
		}, true
	default:
		return nil, false
	}
}

// Checkout handles POST /api/checkout
func (h *Handlers) Checkout(c *gin.Context) {
	var req checkoutFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	selection, ok := req.selection()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
		return
	}

	result, err := h.checkout.Submit(c.Request.Context(), selection)
	if err != nil {
		if h.metrics != nil {
			h.metrics.Checkouts.WithLabelValues("failed").Inc()
		}
		handleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Checkouts.WithLabelValues("success").Inc()
	}

	c.JSON(http.StatusOK, result)
}
