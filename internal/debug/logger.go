// Package debug provides optional statement logging using log/slog.
// It is off unless Init(true) is called (the CLI wires it to
// FASTORM_DEBUG); when off, every call is a no-op.
package debug

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger  *slog.Logger
	enabled bool
	// mu protects the logger and enabled flag
	mu sync.RWMutex
)

func init() {
	Init(false)
}

// Init switches debug logging on or off. When on, statements are
// written to os.Stderr.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable

	if enable {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logger = slog.New(handler)
	} else {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError + 1, // higher than any emitted level
		})
		logger = slog.New(handler)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Statement logs one compiled statement with its argument count.
func Statement(kind, stmt string, args []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug("statement", "kind", kind, "sql", stmt, "args", len(args))
}
