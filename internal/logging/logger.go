// Package logging provides structured, colorful logging for ovirtctl.
//
// Implements a unified logging interface shared by the interactive shell,
// the node tree, and the engine API client. Uses color-coded log levels and
// consistent timestamp formatting so that command feedback, lifecycle guard
// messages, and remote API diagnostics all look the same to the operator.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Level filtering via SetLevel for --log-level control
//   - Redirectable output via SetWriter for tests and log files
//
// Every "logged and aborted" outcome in the node tree (not-found lookups,
// lifecycle guard refusals) goes through this package, which keeps the
// interactive feedback separate from command output on stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	mu sync.Mutex

	// All shell feedback goes to stderr so that single-command mode can be
	// piped without log noise mixing into command output.
	logger = newLogger(os.Stderr)
)

// newLogger builds a charmbracelet logger with the ovirtctl level styles.
func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(levelStyles())
	return l
}

// levelStyles configures the color scheme for log level labels. Colors are
// chosen to stay readable on both light and dark terminals.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// Info logs informational messages for command progress and node status.
func Info(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Info(fmt.Sprintf(format, v...))
}

// Warn logs warning messages for non-fatal conditions, such as a connection
// that was established but failed its verification call.
func Warn(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures from remote engine calls and the shell loop.
func Error(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Error(fmt.Sprintf(format, v...))
}

// Debug logs request/response detail from the engine API client.
func Debug(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Debug(fmt.Sprintf(format, v...))
}

// Success logs a completed operation in green. Implemented as a custom
// SUCCESS label over the INFO level so it respects INFO level filtering.
func Success(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	if logger.GetLevel() > log.InfoLevel {
		return
	}
	styles := levelStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281"))
	logger.SetStyles(styles)
	logger.Info(fmt.Sprintf(format, v...))
	logger.SetStyles(levelStyles())
}

// SetLevel configures the minimum logging level. Accepts DEBUG, INFO, WARN
// or ERROR; anything else falls back to INFO.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	var logLevel log.Level
	switch level {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "INFO":
		logLevel = log.InfoLevel
	case "WARN":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}
	logger.SetLevel(logLevel)
}

// SetWriter redirects all log output to w. Used by tests to capture shell
// feedback.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	level := logger.GetLevel()
	logger = newLogger(w)
	logger.SetLevel(level)
}
