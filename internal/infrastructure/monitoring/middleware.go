package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route templates keep the label set bounded ("/invoke/:command")
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			int64(c.Writer.Size()),
		)
	}
}

// Handler exposes the metrics registry in the Prometheus text format
func Handler(metrics *Metrics) http.Handler {
	return promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
}

// Timer measures command duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	service string
	command string
}

// NewTimer creates a new timer. A nil metrics makes Stop a no-op.
func NewTimer(metrics *Metrics, service, command string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		service: service,
		command: command,
	}
}

// Stop records the duration; kind is the error kind, empty on success
func (t *Timer) Stop(kind string) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordCommand(t.service, t.command, kind, time.Since(t.start))
}
