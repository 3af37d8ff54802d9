package dbscan

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with the field names used across clustering and
// estimation runs.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithRun tags every record with the operation name and a fresh run id so
// that the records of concurrent runs can be told apart.
func (l *Logger) WithRun(op string) *Logger {
	if !l.Enabled(context.Background(), slog.LevelError) {
		return l
	}
	return &Logger{Logger: l.With("op", op, "run", uuid.NewString())}
}

// LogIndexBuilt logs the construction of a neighbor index.
func (l *Logger) LogIndexBuilt(ctx context.Context, kind IndexKind, n, dims int) {
	l.DebugContext(ctx, "neighbor index built",
		"index", string(kind),
		"points", n,
		"dims", dims,
	)
}

// LogFailure logs an error returned to the caller.
func (l *Logger) LogFailure(ctx context.Context, err error) {
	l.WarnContext(ctx, "run failed", "error", err)
}
