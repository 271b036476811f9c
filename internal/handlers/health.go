package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pos-service",
	})
}

// Ready handles GET /ready
// Readiness degrades gracefully: cart persistence is advisory, so an
// unreachable store is reported but does not fail the probe.
func (h *Handlers) Ready(c *gin.Context) {
	persistence := "ok"
	if h.storePinger != nil {
		if err := h.storePinger.Ping(c.Request.Context()); err != nil {
			persistence = "unavailable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ready",
		"service":     "pos-service",
		"persistence": persistence,
	})
}

// Live handles GET /live
func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
