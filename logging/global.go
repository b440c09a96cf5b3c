// Package logging wires log/slog for the catalog service: console output,
// a weekly rotating JSON file and package-level helpers.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type LoggingService struct {
	Logger *slog.Logger
	closer io.Closer
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger at info level. An empty logDir
// logs to the console only.
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{LogDir: logDir, Level: "info", RetentionWeeks: 4})
}

// InitLoggerWithOptions initializes the global logger and installs it as the
// slog default.
func InitLoggerWithOptions(opts Options) {
	if DefaultLoggingService != nil && DefaultLoggingService.closer != nil {
		_ = DefaultLoggingService.closer.Close()
	}

	logger, closer := SetupLogger(opts)
	DefaultLoggingService = &LoggingService{
		Logger: logger,
		closer: closer,
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating file if one is open.
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.closer == nil {
		return nil
	}
	err := DefaultLoggingService.closer.Close()
	DefaultLoggingService.closer = nil
	return err
}

// ParseLevel converts a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func current() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}
