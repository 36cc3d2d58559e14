// Package config provides 12-factor configuration management for the Klin backend.
//
// Values are layered: built-in defaults, then an optional YAML or TOML file,
// then environment variables. CLI flags in cmd/server override the result.
//
// Configuration Sections:
//   - Server: HTTP listener and allowed webview origins
//   - Logging: Log level and output format
//   - RateLimit: Per-client rate limiting
//   - Storage: App data and downloads directory overrides
//   - Features: Native save dialog and folder watching
//
// Example Usage:
//
//	cfg, err := config.LoadFrom("klin.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server running on %s\n", cfg.Addr())
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - APP_DATA_DIR, APP_IDENTIFIER, DOWNLOADS_DIR
//   - DIALOG_ENABLED, WATCH_ENABLED
//   - CONFIG_FILE
package config
