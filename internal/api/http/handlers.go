package http

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/Klin/backend/internal/api/middleware"
	"github.com/GriffinCanCode/Klin/backend/internal/domain/service"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

var (
	toolIDPattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*$`)
	commandPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		registry: registry,
		metrics:  metrics,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Klin backend (Go)",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		switch cat {
		case types.CategoryFilesystem, types.CategoryNotes, types.CategorySystem:
		default:
			respond(c, failed(apperr.InvalidInput, "invalid category: "+categoryStr))
			return
		}
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService executes a service tool by id
func (h *Handlers) ExecuteService(c *gin.Context) {
	req, err := decodeExecuteRequest(c.Request.Body)
	if err != nil {
		respond(c, failed(apperr.InvalidInput, "invalid request: "+err.Error()))
		return
	}

	if !toolIDPattern.MatchString(req.ToolID) {
		respond(c, failed(apperr.InvalidInput, "invalid tool_id: "+req.ToolID))
		return
	}

	appCtx := &types.Context{RequestID: middleware.GetRequestID(c)}
	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		respond(c, failed(apperr.KindOf(err), err.Error()))
		return
	}

	respond(c, result)
}

// Invoke runs a front end command by name with a JSON object of arguments
func (h *Handlers) Invoke(c *gin.Context) {
	command := c.Param("command")
	if !commandPattern.MatchString(command) {
		respond(c, failed(apperr.InvalidInput, "invalid command: "+command))
		return
	}
	command = toSnake(command)

	params, err := decodeArgs(c.Request.Body)
	if err != nil {
		respond(c, failed(apperr.InvalidInput, "invalid arguments: "+err.Error()))
		return
	}

	appCtx := &types.Context{RequestID: middleware.GetRequestID(c)}
	result, err := h.registry.ExecuteCommand(c.Request.Context(), command, params, appCtx)
	if err != nil {
		respond(c, failed(apperr.KindOf(err), err.Error()))
		return
	}

	respond(c, result)
}

// respond writes a result with the status its error kind maps to
func respond(c *gin.Context, result *types.Result) {
	status := http.StatusOK
	if !result.Success {
		status = apperr.HTTPStatus(result.ErrorKind)
	}
	c.JSON(status, result)
}

func failed(kind apperr.Kind, msg string) *types.Result {
	result, _ := types.FailureKind(kind, msg)
	return result
}
