package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is a zerolog logger with key/value convenience methods.
type Logger struct {
	zl zerolog.Logger
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
	output        io.Writer = os.Stderr
)

// Initialize sets up the global logger with the specified level and format.
// Output goes to stderr so command output on stdout stays clean.
func Initialize(level, format string) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = build(output, level, format)
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer, level, format string) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	defaultLogger = build(w, level, format)
}

func build(w io.Writer, level, format string) *Logger {
	var logLevel zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn", "warning":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return &Logger{zl: zerolog.New(w).Level(logLevel).With().Timestamp().Logger()}
}

// Get returns the default logger
func Get() *Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		// Initialize with default settings if not yet initialized
		Initialize("info", "text")
		mu.RLock()
		l = defaultLogger
		mu.RUnlock()
	}
	return l
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{zl: l.zl.With().Fields(args).Logger()}
}

func (l *Logger) Debug(msg string, args ...any) { l.zl.Debug().Fields(args).Msg(msg) }
func (l *Logger) Info(msg string, args ...any)  { l.zl.Info().Fields(args).Msg(msg) }
func (l *Logger) Warn(msg string, args ...any)  { l.zl.Warn().Fields(args).Msg(msg) }
func (l *Logger) Error(msg string, args ...any) { l.zl.Error().Fields(args).Msg(msg) }

// Package-level helpers log through the default logger.
func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// WithService returns a logger tagged with a component name, e.g. "jobs".
func WithService(serviceName string) *Logger {
	return Get().With("service", serviceName)
}

// The tracing helpers below log at debug so --verbose shows the flow of a
// command. Failures are shown to the user by the caller; here they only
// raise the level for remote and storage calls.

func EnterMethod(methodName string, args ...any) {
	Get().Debug("→ enter", prepend(args, "method", methodName)...)
}

func ExitMethod(methodName string, args ...any) {
	Get().Debug("← exit", prepend(args, "method", methodName)...)
}

func ExitMethodWithError(methodName string, err error, args ...any) {
	Get().Debug("← exit with error", prepend(args, "method", methodName, "error", err)...)
}

// DatabaseCall traces a session store statement.
func DatabaseCall(operation, query string, args ...any) {
	Get().Debug("→ store", prepend(args, "operation", operation, "query", query)...)
}

func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	fields := prepend(args, "operation", operation, "rows_affected", rowsAffected)
	if err != nil {
		Get().Error("← store failed", append(fields, "error", err)...)
		return
	}
	Get().Debug("← store ok", fields...)
}

// ExternalServiceCall traces a call to the backend, the chat socket or
// the payment provider.
func ExternalServiceCall(service, operation string, args ...any) {
	Get().Debug("→ remote", prepend(args, "service", service, "operation", operation)...)
}

func ExternalServiceResult(service, operation string, err error, args ...any) {
	fields := prepend(args, "service", service, "operation", operation)
	if err != nil {
		Get().Warn("← remote failed", append(fields, "error", err)...)
		return
	}
	Get().Debug("← remote ok", fields...)
}

func prepend(args []any, head ...any) []any {
	return append(head, args...)
}
