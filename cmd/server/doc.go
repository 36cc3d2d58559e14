// Package main is the entry point for the Klin backend server.
//
// The backend runs on the user's machine next to the desktop webview and
// answers its commands over loopback HTTP.
//
// Architecture:
//
//	Webview (React) → Go Backend → local filesystem (Downloads, notes)
//	                            → native save dialog / default app opener
//
// The server provides:
//   - Command endpoint for the file browser and the notes editor
//   - Service provider catalogue
//   - WebSocket stream of folder changes
//   - Prometheus metrics
//
// Configuration:
//   - Optional YAML or TOML file (-config or CONFIG_FILE)
//   - Environment variables (12-factor)
//   - CLI flags (override both)
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -config klin.yaml
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
