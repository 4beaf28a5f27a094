package nestgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with nestgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithNLive adds a live-point count field to the logger.
func (l *Logger) WithNLive(nLive int) *Logger {
	return &Logger{
		Logger: l.Logger.With("n_live", nLive),
	}
}

// WithIteration adds an iteration field to the logger.
func (l *Logger) WithIteration(iteration int) *Logger {
	return &Logger{
		Logger: l.Logger.With("iteration", iteration),
	}
}

// WithSeed adds the RNG seed field to the logger.
func (l *Logger) WithSeed(seed uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("seed", seed),
	}
}

// LogInit logs live-point initialization.
func (l *Logger) LogInit(ctx context.Context, nLive, dimension int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "initialization failed",
			"n_live", nLive,
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "live points initialized",
			"n_live", nLive,
			"dimension", dimension,
			"duration", duration,
		)
	}
}

// LogProgress logs the run state of an iteration. Callers throttle it.
func (l *Logger) LogProgress(ctx context.Context, iteration, nLive int, logZ, logRemainderRatio float64) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", iteration,
		"n_live", nLive,
		"log_z", logZ,
		"log_remainder_ratio", logRemainderRatio,
	)
}

// LogClustering logs an ellipsoidal decomposition rebuild. A non-nil err
// means the clusterer failed and a single cluster was used instead.
func (l *Logger) LogClustering(ctx context.Context, iteration, k, nEllipsoids int, duration time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "clustering failed, using single cluster",
			"iteration", iteration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "decomposition rebuilt",
			"iteration", iteration,
			"k", k,
			"ellipsoids", nEllipsoids,
			"duration", duration,
		)
	}
}

// LogReduction logs a live-point retirement.
func (l *Logger) LogReduction(ctx context.Context, iteration, from, to int) {
	l.DebugContext(ctx, "live points reduced",
		"iteration", iteration,
		"from", from,
		"to", to,
	)
}

// LogDrawFailure logs an exhausted rejection budget.
func (l *Logger) LogDrawFailure(ctx context.Context, iteration, attempts int) {
	l.WarnContext(ctx, "constrained draw exhausted",
		"iteration", iteration,
		"attempts", attempts,
	)
}

// LogCheckpoint logs a checkpoint save.
func (l *Logger) LogCheckpoint(ctx context.Context, name string, size int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "checkpoint failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "checkpoint saved",
			"name", name,
			"size", size,
			"duration", duration,
		)
	}
}

// LogResume logs a checkpoint restore.
func (l *Logger) LogResume(ctx context.Context, name string, iteration int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "resume failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "resumed from checkpoint",
			"name", name,
			"iteration", iteration,
		)
	}
}

// LogTermination logs the end of a run.
func (l *Logger) LogTermination(ctx context.Context, iteration int, logZ, logZError float64, duration time.Duration) {
	l.InfoContext(ctx, "run terminated",
		"iterations", iteration,
		"log_z", logZ,
		"log_z_error", logZError,
		"duration", duration,
	)
}
