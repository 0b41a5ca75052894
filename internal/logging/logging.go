// Package logging provides structured logging for pleb using Go's slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// Context keys for log fields
	issueNumberKey   contextKey = "issue_number"
	componentKey     contextKey = "component"
	stateKey         contextKey = "state"
	correlationIDKey contextKey = "correlation_id"
)

var (
	// defaultLogger is the global logger instance
	defaultLogger *slog.Logger
	loggerMu      sync.RWMutex
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Config holds logging configuration. It is built in code (see
// DefaultConfig); pleb's TOML config file has no logging section.
type Config struct {
	Level    string          `mapstructure:"level"`    // debug, info, warn, error
	Format   string          `mapstructure:"format"`   // json, text
	Output   string          `mapstructure:"output"`   // stdout, stderr, or file path
	Rotation *RotationConfig `mapstructure:"rotation"` // Log rotation settings
}

// RotationConfig holds log rotation settings for the daemon's pleb.log file.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`    // e.g., "100MB"
	MaxAge     string `mapstructure:"max_age"`     // e.g., "7d"
	MaxBackups int    `mapstructure:"max_backups"` // Number of backup files
}

// DefaultConfig returns sensible defaults for logging.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
		Output: "stdout",
	}
}

// Init initializes the global logger with the given configuration.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	writer, err := getWriter(cfg)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	loggerMu.Lock()
	defaultLogger = slog.New(handler)
	loggerMu.Unlock()
	slog.SetDefault(defaultLogger)

	return nil
}

// Suppress redirects all logging to io.Discard, effectively silencing logs.
// Used while the bubbletea dashboard owns the terminal, so log lines don't
// corrupt the alt-screen rendering.
func Suppress() {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	loggerMu.Lock()
	defaultLogger = discardLogger
	loggerMu.Unlock()

	slog.SetDefault(discardLogger)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getWriter(cfg *Config) (io.Writer, error) {
	switch cfg.Output {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return newRotatingWriter(cfg.Output, cfg.Rotation)
	}
}

// Logger returns the global logger.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// With returns a logger with additional attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// WithComponent returns a logger tagged with a component name, e.g.
// "orchestrator", "hookproto", "worktree".
func WithComponent(component string) *slog.Logger {
	return Logger().With(slog.String("component", component))
}

// WithIssue returns a logger with the issue number attached.
func WithIssue(issueNumber int) *slog.Logger {
	return Logger().With(slog.Int("issue_number", issueNumber))
}

// WithCorrelationID returns a logger with a correlation ID, used to tie a
// single hook connection's log lines together.
func WithCorrelationID(correlationID string) *slog.Logger {
	return Logger().With(slog.String("correlation_id", correlationID))
}

// WithContext returns a logger with values carried on ctx.
func WithContext(ctx context.Context) *slog.Logger {
	logger := Logger()

	if issueNumber := ctx.Value(issueNumberKey); issueNumber != nil {
		logger = logger.With(slog.Int("issue_number", issueNumber.(int)))
	}
	if component := ctx.Value(componentKey); component != nil {
		logger = logger.With(slog.String("component", component.(string)))
	}
	if state := ctx.Value(stateKey); state != nil {
		logger = logger.With(slog.String("state", state.(string)))
	}
	if correlationID := ctx.Value(correlationIDKey); correlationID != nil {
		logger = logger.With(slog.String("correlation_id", correlationID.(string)))
	}

	return logger
}

// ContextWithIssue adds an issue number to the context.
func ContextWithIssue(ctx context.Context, issueNumber int) context.Context {
	return context.WithValue(ctx, issueNumberKey, issueNumber)
}

// ContextWithComponent adds a component name to the context.
func ContextWithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// ContextWithCorrelationID adds a correlation ID to the context, used to
// trace a single hook connection through the logs.
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { Logger().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { Logger().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// InfoContext logs at info level with context-carried fields.
func InfoContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).InfoContext(ctx, msg, args...)
}

// WarnContext logs at warn level with context-carried fields.
func WarnContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).WarnContext(ctx, msg, args...)
}

// ErrorContext logs at error level with context-carried fields.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).ErrorContext(ctx, msg, args...)
}
