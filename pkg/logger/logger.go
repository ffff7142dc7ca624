// Package logger wraps logrus with the printf-style call shape used
// throughout the daemon: Info/Warn/Error/Debug for untagged messages and
// an X-suffixed variant that tags the originating module.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	std    = logrus.New()
	logFh  io.Closer
	inited bool
)

func init() {
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	std.SetOutput(os.Stderr)
	std.SetLevel(logrus.InfoLevel)
}

// InitLog opens logPath for append and tees subsequent log records to it in
// addition to stderr. Safe to call once at process startup.
func InitLog(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if inited {
		return nil
	}
	if logPath == "" {
		inited = true
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	std.SetOutput(io.MultiWriter(os.Stderr, f))
	logFh = f
	inited = true
	return nil
}

// FlushLog closes the log file handle opened by InitLog, if any.
func FlushLog() {
	mu.Lock()
	defer mu.Unlock()
	if logFh != nil {
		_ = logFh.Close()
		logFh = nil
	}
	inited = false
}

// SetLevel adjusts the minimum level that reaches the sinks.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	std.SetLevel(lvl)
}

func Debug(format string, args ...interface{}) { std.Debugf(format, args...) }
func Info(format string, args ...interface{})  { std.Infof(format, args...) }
func Warn(format string, args ...interface{})  { std.Warnf(format, args...) }
func Error(format string, args ...interface{}) { std.Errorf(format, args...) }

// DebugX/InfoX/WarnX/ErrorX tag the record with an originating module name,
// e.g. logger.InfoX("supervisor", "plugin %q ready on port %d", id, port).
func DebugX(module, format string, args ...interface{}) {
	std.WithField("module", module).Debugf(format, args...)
}
func InfoX(module, format string, args ...interface{}) {
	std.WithField("module", module).Infof(format, args...)
}
func WarnX(module, format string, args ...interface{}) {
	std.WithField("module", module).Warnf(format, args...)
}
func ErrorX(module, format string, args ...interface{}) {
	std.WithField("module", module).Errorf(format, args...)
}

// Banner prints a colorized, non-logged startup banner line to stdout.
// Used by cmd/* entrypoints only; never part of the structured log stream.
func Banner(text string) {
	bold := color.New(color.FgCyan, color.Bold)
	_, _ = bold.Fprintln(os.Stdout, text)
}
