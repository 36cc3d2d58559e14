package types

import "github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"

// Category represents service categories
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategoryNotes      Category = "notes"
	CategorySystem     Category = "system"
)

// Service represents a service definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a service tool
type Tool struct {
	ID          string      `json:"id"`
	Command     string      `json:"command"` // front end command name, e.g. "read_folder"
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context provides execution context for services
type Context struct {
	RequestID string `json:"request_id,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Result represents a service execution result
type Result struct {
	Success   bool                   `json:"success"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	ErrorKind apperr.Kind            `json:"error_kind,omitempty"`
}

// Success builds a successful result
func Success(data map[string]interface{}) (*Result, error) {
	return &Result{Success: true, Data: data}, nil
}

// Failure builds a failed result from a message, classified as invalid input
func Failure(message string) (*Result, error) {
	return FailureKind(apperr.InvalidInput, message)
}

// FailureKind builds a failed result with an explicit kind
func FailureKind(kind apperr.Kind, message string) (*Result, error) {
	msg := message
	return &Result{Success: false, Error: &msg, ErrorKind: kind}, nil
}

// FromError converts a domain error into a failed result
func FromError(err error) (*Result, error) {
	return FailureKind(apperr.KindOf(err), err.Error())
}
