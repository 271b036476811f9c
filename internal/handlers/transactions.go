package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTransactions handles GET /api/transactions
// An empty history is a successful, empty response; the UI can tell it
// apart from a failed fetch by the status code.
func (h *Handlers) ListTransactions(c *gin.Context) {
	views, err := h.transactions.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "transaction history unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": views,
		"count":        len(views),
	})
}
