package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger handles debug logging to file and stderr.
type Logger struct {
	mu      sync.Mutex
	out     io.WriteCloser
	enabled bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Get returns the default logger instance.
func Get() *Logger {
	once.Do(func() {
		defaultLogger = &Logger{}
		defaultLogger.init()
	})
	return defaultLogger
}

func (l *Logger) init() {
	// Check if debug mode is enabled via env var or marker file
	debugEnv := os.Getenv("ANYCODER_DEBUG")

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "anycoder log: failed to get home dir: %v\n", err)
		return
	}

	debugFile := filepath.Join(home, ".anycoder", "debug")
	_, debugFileErr := os.Stat(debugFile)
	debugFileExists := debugFileErr == nil

	if debugEnv != "1" && !debugFileExists {
		l.enabled = false
		return
	}

	l.enabled = true

	logsDir := filepath.Join(home, ".anycoder", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "anycoder log: failed to create logs dir %s: %v\n", logsDir, err)
		return
	}

	// The watcher runs for days at a time; rotate one file instead of
	// accumulating a file per start.
	logPath := filepath.Join(logsDir, "anycoder.log")
	l.out = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	if debugEnv == "1" {
		l.logf("INFO", "Logging started (ANYCODER_DEBUG=1)")
	} else {
		l.logf("INFO", "Logging started (~/.anycoder/debug exists)")
	}
	l.logf("INFO", "Log file: %s", logPath)
}

// Enabled returns whether debug logging is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

func (l *Logger) logf(level, format string, args ...any) {
	if l.out == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "[%s] %s: %s\n", timestamp, level, msg)
}

// Debug logs a debug message (file only).
func (l *Logger) Debug(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.logf("DEBUG", format, args...)
}

// Info logs an info message (file only).
func (l *Logger) Info(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.logf("INFO", format, args...)
}

// Error logs an error message (file and stderr).
func (l *Logger) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "anycoder error: %s\n", msg)
	if l.enabled {
		l.logf("ERROR", format, args...)
	}
}

// Event logs a filesystem event.
func (l *Logger) Event(kind string, path string) {
	if !l.enabled {
		return
	}
	l.logf("EVENT", "[%s] %s", kind, truncate(path, 500))
}

// Close closes the log output.
func (l *Logger) Close() {
	if l.out != nil {
		l.out.Close()
	}
}

// Writer returns an io.Writer for the log file (for external use).
func (l *Logger) Writer() io.Writer {
	if l.out != nil {
		return l.out
	}
	return io.Discard
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
