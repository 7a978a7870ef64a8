package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/giygas/interactions-checker/config"
)

type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

// Options configures InitLoggerWithConfig
type Options struct {
	Dir            string // empty means console only
	Env            config.Environment
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
	Console        io.Writer // defaults to os.Stdout
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger with defaults, writing to logDir when set
func InitLogger(logDir string) {
	InitLoggerWithConfig(Options{
		Dir:            logDir,
		Env:            config.EnvDevelopment,
		Level:          "info",
		RetentionWeeks: 4,
		MaxFileSize:    defaultMaxFileSize,
	})
}

// InitLoggerWithConfig initializes the global logger. A previous logger is closed first.
func InitLoggerWithConfig(opts Options) {
	Close()

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: getConsoleLogLevel(opts.Env, opts.Level),
	})

	service := &LoggingService{Logger: slog.New(consoleHandler)}

	if opts.Dir != "" {
		fileHandler, rotating, err := newFileHandler(opts.Dir, parseLogLevel(opts.Level), opts.RetentionWeeks, opts.MaxFileSize)
		if err != nil {
			service.Logger.Error("File logging disabled", "dir", opts.Dir, "error", err)
		} else {
			service.rotating = rotating
			service.Logger = slog.New(&multiHandler{
				handlers: []slog.Handler{consoleHandler, fileHandler},
			})
		}
	}

	DefaultLoggingService = service
	slog.SetDefault(service.Logger)
}

// Close releases the rotating file, if any
func Close() {
	if DefaultLoggingService == nil || DefaultLoggingService.rotating == nil {
		return
	}
	if err := DefaultLoggingService.rotating.Close(); err != nil {
		slog.Warn("Failed to close log file", "error", err)
	}
	DefaultLoggingService.rotating = nil
}

func parseLogLevel(level string) slog.Level {
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

// getConsoleLogLevel keeps test runs quiet and production consoles at warn
// unless debug was asked for
func getConsoleLogLevel(env config.Environment, level string) slog.Level {
	parsed := parseLogLevel(level)
	switch env {
	case config.EnvTest:
		return slog.LevelError
	case config.EnvProduction, config.EnvStaging:
		if parsed == slog.LevelDebug || parsed > slog.LevelWarn {
			return parsed
		}
		return slog.LevelWarn
	}
	return parsed
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelInfo).Info(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelError).Error(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Error(msg, args...)
}

func Warn(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelWarn).Warn(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelDebug).Debug(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Debug(msg, args...)
}

// fallback is a console logger used before initialization
func fallback(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
