package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/Klin/backend/internal/api/http"
	"github.com/GriffinCanCode/Klin/backend/internal/api/middleware"
	"github.com/GriffinCanCode/Klin/backend/internal/api/ws"
	"github.com/GriffinCanCode/Klin/backend/internal/domain/notes"
	"github.com/GriffinCanCode/Klin/backend/internal/domain/service"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/dialog"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/Klin/backend/internal/providers/filesystem"
	notesProvider "github.com/GriffinCanCode/Klin/backend/internal/providers/notes"
	systemProvider "github.com/GriffinCanCode/Klin/backend/internal/providers/system"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/paths"
)

const (
	shutdownTimeout = 10 * time.Second
	dialogCooldown  = 30 * time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	httpSrv  *http.Server
}

// Options replaces collaborators that touch the desktop session.
// Zero values select the production implementations.
type Options struct {
	Logger   *logging.Logger
	Dialog   dialog.SaveDialog
	Launcher filesystem.Launcher
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	return NewServerWithOptions(cfg, Options{})
}

// NewServerWithOptions creates a server with the given collaborators
func NewServerWithOptions(cfg *config.Config, opts Options) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing Klin backend",
		zap.String("addr", cfg.Addr()),
		zap.Bool("dialog", cfg.Features.DialogEnabled),
		zap.Bool("watch", cfg.Features.WatchEnabled),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("klin-backend", logger.Logger)

	resolver := paths.NewResolver(cfg.Storage.DownloadsDir, cfg.Storage.AppDataDir, cfg.Storage.AppIdentifier)

	saveDialog := opts.Dialog
	if saveDialog == nil {
		if cfg.Features.DialogEnabled {
			saveDialog = dialog.NewGuarded(dialog.NewNative(), dialogCooldown, logger.Named("dialog"))
		} else {
			saveDialog = dialog.Disabled{}
		}
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = filesystem.SystemLauncher{}
	}

	store := newNoteStore(resolver, saveDialog, logger)

	serviceRegistry := service.NewRegistry(
		service.WithMetrics(metrics),
		service.WithLogger(logger),
	)
	if err := registerProviders(serviceRegistry, resolver, launcher, store, metrics, logger.Logger); err != nil {
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins)))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(serviceRegistry, metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Front end commands
	router.POST("/invoke/:command", handlers.Invoke)

	// Folder change stream
	if cfg.Features.WatchEnabled {
		wsHandler := ws.NewHandler(cfg.Server.CORSOrigins, metrics, logger.Logger)
		router.GET("/stream", wsHandler.HandleConnection)
	}

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(monitoring.Handler(metrics)))
	router.GET("/metrics/summary", handlers.MetricsSummary)

	logger.Info("Server initialized successfully",
		zap.Int("services", len(serviceRegistry.List(nil))),
	)

	return &Server{
		router:   router,
		registry: serviceRegistry,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		tracer:   tracer,
	}, nil
}

// newNoteStore opens the notes store, or an unavailable one when the
// notes directory cannot be resolved
func newNoteStore(resolver *paths.Resolver, d dialog.SaveDialog, logger *logging.Logger) *notes.Store {
	storeOpts := []notes.Option{
		notes.WithDialog(d),
		notes.WithLogger(logger.Named("notes")),
	}
	dir, err := resolver.Notes()
	if err != nil {
		logger.Warn("Notes directory unavailable", zap.Error(err))
		return notes.NewUnavailableStore(err, storeOpts...)
	}
	logger.Info("Using notes directory", zap.String("dir", dir))
	return notes.NewStore(dir, storeOpts...)
}

func registerProviders(
	registry *service.Registry,
	resolver *paths.Resolver,
	launcher filesystem.Launcher,
	store *notes.Store,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) error {
	providers := []service.Provider{
		filesystem.NewProvider(resolver, launcher, logger),
		notesProvider.NewProvider(store, metrics, logger),
		systemProvider.NewProvider(resolver, logger),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", p.Definition().ID, err)
		}
	}
	return nil
}

// Router exposes the HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Registry returns the service registry
func (s *Server) Registry() *service.Registry {
	return s.registry
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. Cancelling ctx shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpSrv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, waits for in-flight ones and
// releases resources
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var err error
	if s.httpSrv != nil {
		if err = s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("Graceful shutdown failed", zap.Error(err))
			err = fmt.Errorf("failed to shut down http server: %w", err)
		}
	}
	s.Close()
	return err
}

// Close releases the tracer and flushes the logger
func (s *Server) Close() {
	s.tracer.Close()
	_ = s.logger.Sync()
}
