// Package logging holds the process-wide slog logger used by prograde.
//
// The logger is configured once from the verbosity requested on the command
// line. Packages obtain it through GetLogger or one of the With helpers; when
// Init was never called a text logger at info level writing to stderr is used.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
)

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
	isInited bool
	details  bool
	runID    string
)

// Config holds logger configuration.
type Config struct {
	// Verbosity is one of quiet, minimal, normal, detailed, diagnostic.
	Verbosity string
	// Format is "json" or "text".
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// LevelFor maps a verbosity name onto a slog level. Unknown names map to
// info.
func LevelFor(verbosity string) slog.Level {
	switch verbosity {
	case "quiet":
		return slog.LevelError
	case "minimal":
		return slog.LevelWarn
	case "diagnostic":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Init configures the global logger. Every record carries a run_id that is
// fresh for each Init call.
//
// Subsequent calls return an error until Reset is called.
func Init(config Config) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return fmt.Errorf("logger already initialized; call Reset first to reinitialize")
	}

	w := config.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: LevelFor(config.Verbosity)}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	runID = uuid.NewString()
	logger = slog.New(handler).With("run_id", runID)
	details = config.Verbosity == "detailed" || config.Verbosity == "diagnostic"
	isInited = true
	return nil
}

// Reset drops the configured logger. It is safe to call multiple times.
func Reset() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = nil
	isInited = false
	details = false
	runID = ""
}

// GetLogger returns the current logger.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if isInited {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Details reports whether per-row adjustments should be logged individually
// rather than summarised.
func Details() bool {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return details
}

// RunID returns the id attached to the records of the current run, or the
// empty string before Init.
func RunID() string {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return runID
}
