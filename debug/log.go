package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Southclaws/fault/ftag"
)

var (
	file    *os.File
	mu      sync.Mutex
	enabled bool
)

// Strict turns contract violations (bad pad index) into panics.
// Set by -debug; release runs treat them as no-ops.
var Strict bool

// Enable starts debug logging to <dir>/debug.log
func Enable(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true

	// Write directly (can't call Log - we hold the mutex)
	writeLine("debug", "=== Debug logging started ===")

	return nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || file == nil {
		return
	}

	writeLine(category, fmt.Sprintf(format, args...))
}

// Error logs err together with its fault kind, if it carries one.
func Error(category string, err error) {
	if err == nil {
		return
	}
	kind := ftag.Get(err)
	if kind == "" {
		Log(category, "error: %v", err)
		return
	}
	Log(category, "error [%s]: %v", kind, err)
}

// caller holds mu
func writeLine(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-10s %s\n", ts, category, msg)
	file.Sync() // flush immediately so we see logs even on crash
}
