// Package server wires the Klin backend together.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (request ids, logging, CORS, tracing, metrics, rate limiting)
//   - Directory resolution for downloads and notes
//   - Service provider registration (filesystem, notes, system)
//   - The folder change stream over WebSocket
//
// Server Lifecycle:
//  1. Load configuration from file and environment
//  2. Initialize logger (production or development)
//  3. Resolve the notes directory, falling back to an unavailable store
//  4. Register service providers
//  5. Setup HTTP routes and middleware
//  6. Serve until the context is cancelled
//  7. Graceful shutdown
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
