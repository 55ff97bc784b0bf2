// Package logger is the process-wide log sink for flpipeline.
//
// Warnings are always written: they report degraded behaviour such as a
// missing embedding provider. Everything else is trace output for the
// --verbose flag, following a run through indexing, search tiers and hint
// selection.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level orders log messages by severity.
type Level int

// Levels, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

var prefixes = map[Level]string{
	LevelDebug: "[DEBUG] ",
	LevelInfo:  "[INFO] ",
	LevelWarn:  "[WARN] ",
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose turns trace output on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether trace output is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enabled reports whether messages at level are written.
func Enabled(level Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled(level)
}

func enabled(level Level) bool {
	return verbose || level >= LevelWarn
}

func logf(level Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled(level) {
		return
	}
	fmt.Fprintf(output, prefixes[level]+format+"\n", args...)
}

// Debug traces a pipeline step.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info reports progress worth seeing in verbose runs.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn reports a problem the run recovered from. Always written.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Section starts a block of trace output for one pipeline stage.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timing traces how long the named step took since start.
// Typical use is defer logger.Timing("embed", time.Now()).
func Timing(name string, start time.Time) {
	logf(LevelDebug, "%s took %s", name, time.Since(start).Round(time.Millisecond))
}
