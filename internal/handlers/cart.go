package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/money"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/service"
)

// cartLineView is one cart row formatted for display.
type cartLineView struct {
	Name      string `json:"name"`
	UnitPrice string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// cartView is the cart snapshot plus derived totals. Totals are
// recomputed from the line items on every request, never stored.
type cartView struct {
	Items     []cartLineView `json:"items"`
	ItemCount int            `json:"itemCount"`
	Subtotal  string         `json:"subtotal"`
	Tax       string         `json:"tax"`
	Total     string         `json:"total"`
}

func buildCartView(items []models.LineItem) cartView {
	totals := service.CalculateTotals(items)

	view := cartView{
		Items:    make([]cartLineView, 0, len(items)),
		Subtotal: totals.Subtotal.Format(),
		Tax:      totals.Tax.Format(),
		Total:    totals.Total.Format(),
	}
	for _, li := range items {
		view.Items = append(view.Items, cartLineView{
			Name:      li.Name,
			UnitPrice: li.UnitPrice.Format(),
			Quantity:  li.Quantity,
			LineTotal: li.LineTotal().Format(),
		})
		view.ItemCount += li.Quantity
	}
	return view
}

// GetCart handles GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, buildCartView(h.cartStore.Items()))
}

type addItemRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
}

// AddItem handles POST /api/cart/items
func (h *Handlers) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price cannot be negative"})
		return
	}

	h.cartStore.Add(c.Request.Context(), models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})

	c.JSON(http.StatusOK, buildCartView(h.cartStore.Items()))
}

// IncrementItem handles POST /api/cart/items/:name/increment
func (h *Handlers) IncrementItem(c *gin.Context) {
	h.cartStore.Increment(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, buildCartView(h.cartStore.Items()))
}

// DecrementItem handles POST /api/cart/items/:name/decrement
func (h *Handlers) DecrementItem(c *gin.Context) {
	h.cartStore.Decrement(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, buildCartView(h.cartStore.Items()))
}

type setQuantityRequest struct {
	// Quantity comes straight from the terminal's quantity input; it can
	// arrive as a number or as free text, and anything unparseable is
	// treated as one.
	Quantity any `json:"quantity"`
}

// SetItemQuantity handles PUT /api/cart/items/:name
func (h *Handlers) SetItemQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.cartStore.SetQuantity(c.Request.Context(), c.Param("name"), cart.ParseQuantity(req.Quantity))
	c.JSON(http.StatusOK, buildCartView(h.cartStore.Items()))
}

// RemoveItem handles DELETE /api/cart/items/:name
func (h *Handlers) RemoveItem(c *gin.Context) {
	h.cartStore.Remove(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, buildCartView(h.cartStore.Items()))
}

// ClearCart handles DELETE /api/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	ctx := c.Request.Context()
	h.cartStore.Clear(ctx)

	if h.config.Features.EnablePOSEvents && h.events != nil {
		if err := h.events.PublishCartCleared(ctx, "operator_clear"); err != nil {
			h.logger.Error("Failed to publish cart cleared event", logging.Fields{"error": err.Error()})
		}
	}

	c.JSON(http.StatusOK, buildCartView(h.cartStore.Items()))
}
