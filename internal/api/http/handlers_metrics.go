package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetricsSummary returns a JSON digest of the Prometheus counters
func (h *Handlers) MetricsSummary(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"backend":  h.metrics.GetSnapshot(),
		"registry": h.registry.Stats(),
	})
}
