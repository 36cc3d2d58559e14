// Package ws provides the WebSocket folder-watch stream.
//
// A connection subscribes to one folder at a time and is told whenever an
// immediate child is created, removed, renamed or written. The stream only
// signals; clients refresh with read_folder.
//
// Message Types (Client → Server):
//   - watch: Start watching {path}, replacing any current watch
//   - unwatch: Stop watching
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Connection established
//   - watching: Watch started (with id and path) or stopped
//   - change: A child of the watched folder changed (op, path, name)
//   - pong: Reply to ping
//   - error: Request failed
//
// Example Usage:
//
//	handler := ws.NewHandler(cfg.Server.CORSOrigins, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
