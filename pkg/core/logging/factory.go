// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating leveled, structured loggers
// License:     MIT
// ============================================================================

package logging

import (
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name, used as the log prefix
	ServiceName string

	// Log level (debug, info, warn, error)
	Level string

	// Output format: "text", "json" or "logfmt" (default: text)
	Format string

	// Output writer (default: os.Stderr)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// NewLogger creates a new logger from the given configuration
func NewLogger(cfg LoggerConfig) *log.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	opts := log.Options{
		Level:           ParseLevel(cfg.Level),
		Prefix:          cfg.ServiceName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       parseFormat(cfg.Format),
	}

	return log.NewWithOptions(output, opts)
}

// NewDiscardLogger returns a logger that drops everything. Library code
// falls back to it when the caller does not inject a logger.
func NewDiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel converts a string level to a log.Level. Unknown values map
// to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return log.DebugLevel
	case "info", "":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ValidLevel reports whether level is one ParseLevel understands
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "":
		return true
	}
	return false
}

// ValidFormat reports whether format names a supported output format
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt", "":
		return true
	}
	return false
}

func parseFormat(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ErrorFields returns key/value pairs describing err: the error itself and,
// for a structured error, its code and details in key order
func ErrorFields(err error) []interface{} {
	fields := []interface{}{"error", err}

	var e *skyerr.Error
	if !errors.As(err, &e) {
		return fields
	}
	fields = append(fields, "code", e.Code().String())

	details := e.Details()
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k, details[k])
	}
	return fields
}
