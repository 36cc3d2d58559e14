// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines on stderr
//   - Development: colored console output
//
// Logs go to stderr so the host shell that spawns the backend can keep
// stdout for its own handshake.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	log := logger.Command(reqID, "read_note")
//	logging.Failure(log, "notes operation failed", err, logging.Filename(name))
//
// Failure picks the level from the error kind: not_found and invalid_input
// at debug, permission_denied and unavailable at warn, anything else at error.
package logging
