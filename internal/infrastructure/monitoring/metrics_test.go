package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInstancesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestRecordCommand(t *testing.T) {
	m := NewMetrics()

	m.RecordCommand("notes", "read_note", "", 2*time.Millisecond)
	m.RecordCommand("notes", "read_note", "not_found", 4*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("notes", "read_note", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("notes", "read_note", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandErrors.WithLabelValues("notes", "read_note", "not_found")))

	snap := m.GetSnapshot()
	assert.Equal(t, int64(2), snap.TotalCommands)
	assert.InDelta(t, 3.0, snap.AvgDurationMs, 0.5)
}

func TestTimer(t *testing.T) {
	m := NewMetrics()
	NewTimer(m, "filesystem", "read_folder").Stop("")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("filesystem", "read_folder", "success")))

	assert.NotPanics(t, func() { NewTimer(nil, "x", "y").Stop("") })
}

func TestGauges(t *testing.T) {
	m := NewMetrics()

	m.SetNotes(7)
	m.IncWSConnections()
	m.IncWSConnections()
	m.DecWSConnections()
	m.RecordDialog("download_note", "cancelled")
	m.RecordWatchEvent("create")

	assert.Equal(t, 7.0, testutil.ToFloat64(m.NotesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DialogOutcomes.WithLabelValues("download_note", "cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WatchEvents.WithLabelValues("create")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/invoke/:command", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/metrics", gin.WrapH(Handler(m)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoke/read_note", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/invoke/:command", "404")))
	snap := m.GetSnapshot()
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "klin_http_requests_total")
	assert.Contains(t, w.Body.String(), "klin_uptime_seconds")
}
