package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
)

type productView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// ListProducts handles GET /api/products?q=
// The catalog service returns the full list; the substring filter runs
// here, on the terminal side.
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("Catalog fetch failed", logging.Fields{"error": err.Error()})
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
		return
	}

	products = clients.FilterProducts(products, c.Query("q"))

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.Format(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"products": views,
		"count":    len(views),
	})
}
