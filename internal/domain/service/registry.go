package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// Registry routes tool ids and front end command names to providers
type Registry struct {
	mu       sync.RWMutex
	services map[string]Provider
	commands map[string]string // command name -> tool id

	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithMetrics records every execution
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithLogger logs executions through per-command child loggers
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates a new service registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		services: make(map[string]Provider),
		commands: make(map[string]string),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a service provider. Service ids and command names must be unique.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[def.ID]; exists {
		return fmt.Errorf("service already registered: %s", def.ID)
	}

	added := make(map[string]string, len(def.Tools))
	for _, tool := range def.Tools {
		if !strings.HasPrefix(tool.ID, def.ID+".") {
			return fmt.Errorf("tool %s does not belong to service %s", tool.ID, def.ID)
		}
		if tool.Command == "" {
			continue
		}
		if owner, exists := r.commands[tool.Command]; exists {
			return fmt.Errorf("command %s already registered by %s", tool.Command, owner)
		}
		if owner, exists := added[tool.Command]; exists {
			return fmt.Errorf("command %s declared twice (%s)", tool.Command, owner)
		}
		added[tool.Command] = tool.ID
	}

	r.services[def.ID] = provider
	for cmd, toolID := range added {
		r.commands[cmd] = toolID
	}
	return nil
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.services[serviceID]
	return p, ok
}

// ResolveCommand maps a front end command name ("read_folder") to its tool id
func (r *Registry) ResolveCommand(command string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	toolID, ok := r.commands[command]
	return toolID, ok
}

// List returns registered services sorted by id, optionally filtered by category
func (r *Registry) List(category *types.Category) []types.Service {
	r.mu.RLock()
	services := make([]types.Service, 0, len(r.services))
	for _, p := range r.services {
		def := p.Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
	}
	r.mu.RUnlock()

	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Execute runs a tool by id. Unknown tools yield a not_found result.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok || serviceID == "" {
		return types.FailureKind(apperr.InvalidInput, fmt.Sprintf("invalid tool ID format: %s", toolID))
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return types.FailureKind(apperr.NotFound, fmt.Sprintf("service not found: %s", serviceID))
	}

	if params == nil {
		params = map[string]interface{}{}
	}
	if appCtx == nil {
		appCtx = &types.Context{}
	}
	command := appCtx.Command
	if command == "" {
		command = toolID
	}

	log := r.logger.Command(appCtx.RequestID, command).With(logging.ToolID(toolID))
	timer := monitoring.NewTimer(r.metrics, serviceID, command)
	result, err := provider.Execute(ctx, toolID, params, appCtx)
	if err != nil {
		timer.Stop(string(apperr.KindOf(err)))
		logging.Failure(log, "provider failed", err)
		return types.FromError(err)
	}

	if result.Success {
		timer.Stop("")
		log.Debug("command succeeded")
	} else {
		timer.Stop(string(result.ErrorKind))
		log.Debug("command failed",
			logging.Kind(result.ErrorKind),
			zap.Stringp("error", result.Error),
		)
	}
	return result, nil
}

// ExecuteCommand runs a tool by its front end command name
func (r *Registry) ExecuteCommand(ctx context.Context, command string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	toolID, ok := r.ResolveCommand(command)
	if !ok {
		return types.FailureKind(apperr.NotFound, fmt.Sprintf("unknown command: %s", command))
	}
	if appCtx == nil {
		appCtx = &types.Context{}
	}
	appCtx.Command = command
	return r.Execute(ctx, toolID, params, appCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totalTools := 0
	categories := make(map[string]int)
	for _, p := range r.services {
		def := p.Definition()
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
	}

	return map[string]interface{}{
		"total_services": len(r.services),
		"total_tools":    totalTools,
		"total_commands": len(r.commands),
		"categories":     categories,
	}
}
