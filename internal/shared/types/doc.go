// Package types provides shared data structures for the Klin backend.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool: Service tool definition, including its front end command name
//   - Context: Execution context for a single invocation
//   - Result: Standard operation result with a tagged error kind
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - WSMessage, WSEvent: Folder watch stream
//
// Example Usage:
//
//	result, _ := types.Success(map[string]interface{}{"path": dir})
//	result, _ = types.FromError(apperr.New(apperr.NotFound, "Folder does not exist"))
package types
