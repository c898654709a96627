// Package logger wraps log/slog with the package-level helpers used across relictum.
// Output goes to stdout and, when configured, to a size-rotated log file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// OutputFormat selects the slog handler.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// FileOptions configures the rotating log file sink.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Fields is a type alias for log fields to make the API cleaner
type Fields map[string]interface{}

var (
	// testOutput is used to capture log output during tests
	testOutput   io.Writer
	testOutputMu sync.Mutex

	mu         sync.Mutex
	logger     *slog.Logger
	level      = new(slog.LevelVar)
	format     = FormatText
	fileWriter *lumberjack.Logger
)

// SetTestOutput sets the output writer for testing purposes
func SetTestOutput(w io.Writer) {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = w
}

// UnsetTestOutput resets the test output to nil
func UnsetTestOutput() {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = nil
}

func getOutput() io.Writer {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	if testOutput != nil {
		return testOutput
	}
	return os.Stdout
}

// ParseLevel maps a config string to a slog level, falling back to info.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
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

// InitLogger initializes the global logger for CLI operations.
func InitLogger(logLevel string, outputFormat OutputFormat) {
	mu.Lock()
	defer mu.Unlock()
	level.Set(ParseLevel(logLevel))
	format = outputFormat
	rebuild()
}

// InitLoggerWithFile behaves like InitLogger and additionally mirrors every
// record into a rotating file. An empty path disables the file sink.
func InitLoggerWithFile(logLevel string, outputFormat OutputFormat, opts FileOptions) {
	mu.Lock()
	defer mu.Unlock()
	level.Set(ParseLevel(logLevel))
	format = outputFormat
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
	if opts.Path != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
	}
	rebuild()
}

// SetOutputFormat switches the handler while keeping the current level.
func SetOutputFormat(outputFormat OutputFormat) {
	mu.Lock()
	defer mu.Unlock()
	format = outputFormat
	rebuild()
}

// Close flushes and releases the file sink, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	rebuild()
	return err
}

// rebuild must be called with mu held.
func rebuild() {
	var out io.Writer = getOutput()
	if fileWriter != nil {
		out = io.MultiWriter(out, fileWriter)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger = slog.New(handler)
}

// GetLogger returns the configured logger instance.
func GetLogger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		level.Set(slog.LevelInfo)
		rebuild()
	}
	return logger
}

func logFields(lvl slog.Level, msg string, fields ...Fields) {
	GetLogger().Log(context.Background(), lvl, msg, mergeFields(fields...)...)
}

// Info logs an info message.
func Info(msg string, fields ...Fields) { logFields(slog.LevelInfo, msg, fields...) }

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	logFields(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// InfofWithFields logs a formatted info message with fields.
func InfofWithFields(fields Fields, format string, args ...interface{}) {
	logFields(slog.LevelInfo, fmt.Sprintf(format, args...), fields)
}

// Debug logs a debug message (only shown when debug level is enabled).
func Debug(msg string, fields ...Fields) { logFields(slog.LevelDebug, msg, fields...) }

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	logFields(slog.LevelDebug, fmt.Sprintf(format, args...))
}

// DebugfWithFields logs a formatted debug message with fields.
func DebugfWithFields(fields Fields, format string, args ...interface{}) {
	logFields(slog.LevelDebug, fmt.Sprintf(format, args...), fields)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) { logFields(slog.LevelWarn, msg, fields...) }

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	logFields(slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(msg string, fields ...Fields) { logFields(slog.LevelError, msg, fields...) }

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	logFields(slog.LevelError, fmt.Sprintf(format, args...))
}

// Success logs a success message as info with success indicator.
func Success(msg string, fields ...Fields) {
	logFields(slog.LevelInfo, msg, append(fields, Fields{"status": "success"})...)
}

// mergeFields merges multiple field maps into one slice of key-value pairs for slog.
// Later maps win on duplicate keys.
func mergeFields(fields ...Fields) []interface{} {
	merged := make(Fields)
	order := make([]string, 0)
	for _, field := range fields {
		for k, v := range field {
			if _, seen := merged[k]; !seen {
				order = append(order, k)
			}
			merged[k] = v
		}
	}
	result := make([]interface{}, 0, len(order)*2)
	for _, k := range order {
		result = append(result, k, merged[k])
	}
	return result
}
