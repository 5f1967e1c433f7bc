// Package logger provides verbose logging for the vitae CLI.
// Debug, Info and Warn are printed to stderr only when --verbose is set;
// Error is always printed. Background components (autosave, seed watcher)
// use a Scope so their lines can be told apart.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing and for the TUI, which
// must not write over the alternate screen.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(always bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(false, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(false, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write(false, "[WARN] ", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	write(true, "[ERROR] ", format, args...)
}

// Scope prefixes every line with a component name.
type Scope struct {
	name string
}

// For returns a Scope for the named component.
func For(name string) Scope {
	return Scope{name: name}
}

// Name returns the component name.
func (s Scope) Name() string {
	return s.name
}

// Debug prints a scoped debug message if verbose mode is enabled.
func (s Scope) Debug(format string, args ...any) {
	write(false, "[DEBUG] "+s.name+": ", format, args...)
}

// Info prints a scoped informational message if verbose mode is enabled.
func (s Scope) Info(format string, args ...any) {
	write(false, "[INFO] "+s.name+": ", format, args...)
}

// Warn prints a scoped warning if verbose mode is enabled.
func (s Scope) Warn(format string, args ...any) {
	write(false, "[WARN] "+s.name+": ", format, args...)
}

// Error prints a scoped error regardless of verbose mode.
func (s Scope) Error(format string, args ...any) {
	write(true, "[ERROR] "+s.name+": ", format, args...)
}
