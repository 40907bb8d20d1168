// Package output provides terminal output utilities for the schemaform CLI.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// logger is the package-wide logger. SetupLogging replaces it.
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// LogConfig controls logger behavior.
type LogConfig struct {
	// Verbose enables debug level and forces timestamps and caller
	// reporting on.
	Verbose bool

	// Level sets the minimum level by name ("debug", "info", "warn",
	// "error"). Empty means info. Verbose wins.
	Level string

	// Format selects the log encoding, "text" or "json". Empty means
	// text.
	Format string

	// NoColor disables ANSI color in log and console output.
	NoColor bool

	// Timestamps overrides timestamp reporting. Nil keeps the default
	// (on). Verbose wins over an explicit false.
	Timestamps *bool
}

// BoolPtr returns a pointer to the given bool, for optional LogConfig
// fields.
func BoolPtr(b bool) *bool {
	return &b
}

// SetupLogging configures the package logger.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Level != "" {
		if parsed, err := log.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
		Formatter:       formatter,
	})

	SetNoColor(cfg.NoColor)
	if cfg.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}
}

// SetLogWriter redirects log output, primarily for tests.
func SetLogWriter(w io.Writer) {
	logger.SetOutput(w)
}

// ModuleLogger returns a logger prefixed with a compiler component name,
// inheriting the package logger's level.
func ModuleLogger(name string) *log.Logger {
	return logger.WithPrefix(name)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, keyvals ...interface{}) {
	logger.Fatal(msg, keyvals...)
}

// Print prints a message to stdout without any formatting.
func Print(msg string) {
	os.Stdout.WriteString(msg)
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
