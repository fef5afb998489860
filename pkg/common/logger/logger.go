package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Logger is a thin wrapper around the standard logger that provides leveled logging
type Logger struct {
	mu sync.Mutex
	*log.Logger
}

// Global logger instance
var std = &Logger{Logger: log.New(os.Stdout, "", log.LstdFlags)}

// LogLevel represents the logging level
type LogLevel int

const (
	// DebugLevel logs are typically verbose
	DebugLevel LogLevel = iota
	// InfoLevel is the default logging priority
	InfoLevel
	// WarnLevel logs are warnings
	WarnLevel
	// ErrorLevel logs are high-priority
	ErrorLevel
)

var levelNames = map[LogLevel]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

var currentLevel = InfoLevel

// ParseLevel accepts level names ("debug", "warning", ...) and the numeric
// levels used by existing deployments (10 debug, 20 info, 30 warn, 40+ error).
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error", "critical":
		return ErrorLevel, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(level))
	if err != nil {
		return InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	switch {
	case n <= 10:
		return DebugLevel, nil
	case n <= 20:
		return InfoLevel, nil
	case n <= 30:
		return WarnLevel, nil
	default:
		return ErrorLevel, nil
	}
}

// Initialize sets up the global logger level based on input string (e.g., "debug", "info", "20").
// Unknown values fall back to info.
func Initialize(level string) {
	lvl, err := ParseLevel(level)
	std.mu.Lock()
	currentLevel = lvl
	if lvl == DebugLevel {
		std.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	} else {
		std.SetFlags(log.Ldate | log.Ltime)
	}
	std.mu.Unlock()
	if err != nil {
		Warn("%v, using info", err)
	}
}

// SetOutput redirects the global logger, mainly for tests.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.Logger.SetOutput(w)
}

// Enabled reports whether messages at level would be written.
func Enabled(level LogLevel) bool {
	std.mu.Lock()
	defer std.mu.Unlock()
	return level >= currentLevel
}

func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < currentLevel {
		return
	}
	l.SetPrefix(fmt.Sprintf("[%s] ", levelNames[level]))
	_ = l.Output(3, fmt.Sprintf(format, v...))
}

// Package-level helpers
func Debug(format string, v ...interface{}) { std.log(DebugLevel, format, v...) }
func Info(format string, v ...interface{})  { std.log(InfoLevel, format, v...) }
func Warn(format string, v ...interface{})  { std.log(WarnLevel, format, v...) }
func Error(format string, v ...interface{}) { std.log(ErrorLevel, format, v...) }
