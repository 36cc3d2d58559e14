// Package http provides the HTTP command transport used by the desktop front end.
//
// This package implements all HTTP endpoints using the Gin framework. Every
// command answers with a types.Result; failed results carry an error_kind
// and the HTTP status follows it.
//
// Endpoints:
//   - Health: / and /health
//   - Services: /services, /services/execute
//   - Commands: /invoke/:command (camelCase or snake_case argument keys)
//   - Metrics: /metrics (Prometheus) and /metrics/summary (JSON)
//
// Status codes:
//   - 200: success
//   - 400: invalid_input
//   - 403: permission_denied
//   - 404: not_found (including unknown commands)
//   - 500: io_failure
//   - 503: unavailable
//
// Example Usage:
//
//	handlers := http.NewHandlers(registry, metrics)
//	router.GET("/health", handlers.Health)
//	router.POST("/invoke/:command", handlers.Invoke)
package http
