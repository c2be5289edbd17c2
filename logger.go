package refine

import (
	"log/slog"

	"github.com/charactercut/refine/internal/logging"
)

// SetLogger configures the logger for refine and its sub-packages.
// By default refine produces no log output. Pass nil to silence it again.
//
// Log levels used by refine:
//   - [slog.LevelDebug]: ignored pointer input, history evictions
//   - [slog.LevelInfo]: session lifecycle (images loaded, reset)
//   - [slog.LevelWarn]: recoverable problems (processed image resampled,
//     snapshot failures)
//
// Example:
//
//	refine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by refine.
func Logger() *slog.Logger {
	return logging.Logger()
}
