package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ColorCode returns the ANSI color code for the log level
func (l LogLevel) ColorCode() string {
	switch l {
	case LogLevelDebug:
		return "\033[36m" // Cyan
	case LogLevelInfo:
		return "\033[32m" // Green
	case LogLevelWarn:
		return "\033[33m" // Yellow
	case LogLevelError:
		return "\033[31m" // Red
	case LogLevelFatal:
		return "\033[35m" // Magenta
	default:
		return "\033[0m"
	}
}

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})

	SetLevel(level LogLevel)
	SetOutput(w io.Writer)
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level       LogLevel
	Output      io.Writer
	EnableColor bool
}

// DefaultLoggerConfig returns a default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LogLevelInfo,
		Output:      os.Stderr,
		EnableColor: true,
	}
}

// ScopeLogger is the main logger implementation
type ScopeLogger struct {
	config *LoggerConfig
	logger *log.Logger
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config *LoggerConfig) *ScopeLogger {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	return &ScopeLogger{
		config: config,
		logger: log.New(config.Output, "", 0),
	}
}

// Debug logs a debug message
func (l *ScopeLogger) Debug(msg string, args ...interface{}) {
	if l.config.Level <= LogLevelDebug {
		l.log(LogLevelDebug, msg, args...)
	}
}

// Info logs an info message
func (l *ScopeLogger) Info(msg string, args ...interface{}) {
	if l.config.Level <= LogLevelInfo {
		l.log(LogLevelInfo, msg, args...)
	}
}

// Warn logs a warning message
func (l *ScopeLogger) Warn(msg string, args ...interface{}) {
	if l.config.Level <= LogLevelWarn {
		l.log(LogLevelWarn, msg, args...)
	}
}

// Error logs an error message
func (l *ScopeLogger) Error(msg string, args ...interface{}) {
	if l.config.Level <= LogLevelError {
		l.log(LogLevelError, msg, args...)
	}
}

// Fatal logs a fatal message and exits
func (l *ScopeLogger) Fatal(msg string, args ...interface{}) {
	l.log(LogLevelFatal, msg, args...)
	os.Exit(1)
}

// SetLevel sets the logging level
func (l *ScopeLogger) SetLevel(level LogLevel) {
	l.config.Level = level
}

// SetOutput sets the output writer
func (l *ScopeLogger) SetOutput(w io.Writer) {
	l.config.Output = w
	l.logger = log.New(w, "", 0)
}

func (l *ScopeLogger) log(level LogLevel, msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var builder strings.Builder
	if l.config.EnableColor {
		builder.WriteString(level.ColorCode())
	}
	builder.WriteString(fmt.Sprintf("[%s] %s %s",
		time.Now().Format("2006-01-02 15:04:05"), level.String(), msg))
	if l.config.EnableColor {
		builder.WriteString("\033[0m")
	}

	l.logger.Print(builder.String())
}

// Global logger instance
var globalLogger Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(config *LoggerConfig) {
	globalLogger = NewLogger(config)
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	if globalLogger == nil {
		globalLogger = NewLogger(DefaultLoggerConfig())
	}
	return globalLogger
}
