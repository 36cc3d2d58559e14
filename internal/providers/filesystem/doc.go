// Package filesystem provides the file browser commands of the desktop shell.
//
// This package is organized into specialized modules:
//   - basic: downloads folder lookup, open with the default app, delete
//   - directory: folder listing and creation
//   - metadata: single-entry details (kind, MIME type, charset) and folder size
//   - search: doublestar glob matching below a folder
//   - launcher: platform "open with default application" handlers
//
// All operations:
//   - Take absolute host paths chosen by the user, with no sandboxing
//   - Return structured results whose failures carry an apperr kind
//   - Log mutating operations at Info and failures at Warn
//
// Example Usage:
//
//	provider := filesystem.NewProvider(resolver, filesystem.SystemLauncher{}, logger)
//	result, err := provider.Execute(ctx, "filesystem.read_folder",
//	    map[string]interface{}{"folder_path": "/home/u/Downloads"}, appCtx)
package filesystem
