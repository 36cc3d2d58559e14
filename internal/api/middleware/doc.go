// Package middleware provides the gin middleware stack in front of the
// command endpoints: CORS for the webview origins, per-client rate
// limiting, request ids and request logging.
package middleware
