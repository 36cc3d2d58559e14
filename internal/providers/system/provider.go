package system

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// DirResolver reports the environment directories shown in system info
type DirResolver interface {
	Downloads() (string, error)
	Notes() (string, error)
}

// Provider implements system information and utilities
type Provider struct {
	startTime time.Time
	dirs      DirResolver
	logs      *CircularLogBuffer
	logger    *zap.Logger
}

// CircularLogBuffer is a thread-safe circular buffer for log entries
type CircularLogBuffer struct {
	entries []*LogEntry
	head    int
	size    int
	maxSize int
	mu      sync.RWMutex
}

// LogEntry is a message forwarded by the front end
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// NewProvider creates a system provider. dirs may be nil.
func NewProvider(dirs DirResolver, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		startTime: time.Now(),
		dirs:      dirs,
		logs:      NewCircularLogBuffer(1000),
		logger:    logger.Named("frontend"),
	}
}

// NewCircularLogBuffer creates a new circular buffer for logs
func NewCircularLogBuffer(maxSize int) *CircularLogBuffer {
	return &CircularLogBuffer{
		entries: make([]*LogEntry, maxSize),
		maxSize: maxSize,
	}
}

// Add inserts a log entry into the circular buffer
func (cb *CircularLogBuffer) Add(entry *LogEntry) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.entries[cb.head] = entry
	cb.head = (cb.head + 1) % cb.maxSize
	if cb.size < cb.maxSize {
		cb.size++
	}
}

// GetRecent retrieves the most recent N entries, optionally filtered by level
func (cb *CircularLogBuffer) GetRecent(limit int, levelFilter string) []LogEntry {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if limit > cb.size {
		limit = cb.size
	}

	result := make([]LogEntry, 0, limit)

	// Newest first: walk backwards from head - 1
	for i := 0; i < cb.size && len(result) < limit; i++ {
		idx := (cb.head - 1 - i + cb.maxSize) % cb.maxSize
		entry := cb.entries[idx]
		if entry != nil {
			if levelFilter == "" || entry.Level == levelFilter {
				result = append(result, *entry)
			}
		}
	}

	return result
}

// Definition returns service metadata
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "system",
		Name:        "System Service",
		Description: "Greeting, runtime information and front end log forwarding",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"greet",
			"info",
			"logging",
		},
		Tools: []types.Tool{
			{
				ID:          "system.greet",
				Command:     "greet",
				Name:        "Greet",
				Description: "Return a greeting for name",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Name to greet", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "system.info",
				Command:     "system_info",
				Name:        "System Info",
				Description: "Get runtime information and the resolved directories",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "system.time",
				Command:     "system_time",
				Name:        "Current Time",
				Description: "Get current server time",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "system.log",
				Command:     "log_message",
				Name:        "Log Message",
				Description: "Record a front end message in the backend log",
				Parameters: []types.Parameter{
					{Name: "message", Type: "string", Description: "Log message", Required: true},
					{Name: "level", Type: "string", Description: "Log level (debug/info/warn/error)", Required: false},
				},
				Returns: "boolean",
			},
			{
				ID:          "system.get_logs",
				Command:     "get_logs",
				Name:        "Get Logs",
				Description: "Retrieve recent front end messages",
				Parameters: []types.Parameter{
					{Name: "limit", Type: "number", Description: "Number of logs to retrieve", Required: false},
					{Name: "level", Type: "string", Description: "Filter by log level", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "system.ping",
				Command:     "ping",
				Name:        "Ping",
				Description: "Test service availability",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a system operation
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "system.greet":
		return s.greet(params)
	case "system.info":
		return s.info()
	case "system.time":
		return s.currentTime()
	case "system.log":
		return s.log(params, appCtx)
	case "system.get_logs":
		return s.getLogs(params)
	case "system.ping":
		return s.ping()
	default:
		return types.FailureKind(apperr.NotFound, fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *Provider) greet(params map[string]interface{}) (*types.Result, error) {
	name, ok := params["name"].(string)
	if !ok {
		return types.Failure("name parameter required")
	}
	return types.Success(map[string]interface{}{
		"message": fmt.Sprintf("Hello, %s! You've been greeted from Go!", name),
	})
}

func (s *Provider) info() (*types.Result, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	data := map[string]interface{}{
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
		"cpus":           runtime.NumCPU(),
		"goroutines":     runtime.NumGoroutine(),
		"memory_alloc":   m.Alloc / 1024 / 1024, // MB
		"memory_sys":     m.Sys / 1024 / 1024,   // MB
		"uptime_seconds": time.Since(s.startTime).Seconds(),
	}

	// Directory lookups that fail are left out rather than failing the call
	if s.dirs != nil {
		if dir, err := s.dirs.Downloads(); err == nil {
			data["downloads_dir"] = dir
		}
		if dir, err := s.dirs.Notes(); err == nil {
			data["notes_dir"] = dir
		}
	}

	return types.Success(data)
}

func (s *Provider) currentTime() (*types.Result, error) {
	now := time.Now()
	return types.Success(map[string]interface{}{
		"timestamp": now.Unix(),
		"iso":       now.Format(time.RFC3339),
		"unix_ms":   now.UnixMilli(),
	})
}

func (s *Provider) log(params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	message, ok := params["message"].(string)
	if !ok || message == "" {
		return types.Failure("message required")
	}

	level := "info"
	if l, ok := params["level"].(string); ok && l != "" {
		level = strings.ToLower(l)
	}

	entry := &LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}
	if ctx != nil {
		entry.RequestID = ctx.RequestID
	}

	s.logs.Add(entry)

	fields := []zap.Field{zap.String("request_id", entry.RequestID)}
	switch level {
	case "debug":
		s.logger.Debug(message, fields...)
	case "warn", "warning":
		s.logger.Warn(message, fields...)
	case "error":
		s.logger.Error(message, fields...)
	default:
		s.logger.Info(message, fields...)
	}

	return types.Success(map[string]interface{}{"logged": true})
}

func (s *Provider) getLogs(params map[string]interface{}) (*types.Result, error) {
	limit := 100
	if l, ok := params["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	levelFilter := ""
	if l, ok := params["level"].(string); ok {
		levelFilter = strings.ToLower(l)
	}

	logs := s.logs.GetRecent(limit, levelFilter)

	return types.Success(map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	})
}

func (s *Provider) ping() (*types.Result, error) {
	return types.Success(map[string]interface{}{
		"pong":      true,
		"timestamp": time.Now().Unix(),
	})
}
