package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// Logger is the backend's root logger. Commands log through child loggers
// returned by Command so every line carries the request id.
type Logger struct {
	*zap.Logger
}

// Config defines logger configuration.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string // defaults to stderr
}

// DefaultConfig returns production logger configuration.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// DevelopmentConfig returns development logger configuration.
func DevelopmentConfig() Config {
	return Config{Level: "debug", Development: true}
}

// New creates a new logger with the provided configuration.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg.Sampling = nil
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableStacktrace = !cfg.Development
	zapCfg.EncoderConfig = encoderConfig(cfg.Development)
	zapCfg.OutputPaths = []string{"stderr"}
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{Logger: logger}, nil
}

// NewDefault creates a logger with default configuration.
func NewDefault() *Logger {
	logger, err := New(DefaultConfig())
	if err != nil {
		return NewNop()
	}
	return logger
}

// NewDevelopment creates a logger with development configuration.
func NewDevelopment() *Logger {
	logger, err := New(DevelopmentConfig())
	if err != nil {
		return NewNop()
	}
	return logger
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Wrap adopts an existing zap logger, e.g. one built on an observer core
func Wrap(l *zap.Logger) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{Logger: l}
}

// Command returns a child logger tagged with a command invocation.
// An empty request id is left out.
func (l *Logger) Command(requestID, command string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	fields = append(fields, zap.String("command", command))
	return l.With(fields...)
}

// Op and the helpers below name the fields shared by the command layer
func Op(op string) zap.Field { return zap.String("op", op) }
func Path(p string) zap.Field { return zap.String("path", p) }
func Filename(name string) zap.Field { return zap.String("filename", name) }
func ToolID(id string) zap.Field { return zap.String("tool_id", id) }
func Kind(kind apperr.Kind) zap.Field { return zap.String("kind", string(kind)) }

// Failure logs a failed operation at a level chosen by its kind: caller
// mistakes at debug, environment problems at warn, unexpected IO at error.
func Failure(log *zap.Logger, msg string, err error, fields ...zap.Field) {
	kind := apperr.KindOf(err)
	fields = append(fields, Kind(kind), zap.Error(err))
	switch kind {
	case apperr.NotFound, apperr.InvalidInput:
		log.Debug(msg, fields...)
	case apperr.PermissionDenied, apperr.Unavailable:
		log.Warn(msg, fields...)
	default:
		log.Error(msg, fields...)
	}
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// encoderConfig keeps zap's presets and renames the JSON keys the desktop
// host parses
func encoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.FunctionKey = zapcore.OmitKey
		return enc
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.SecondsDurationEncoder
	return enc
}
