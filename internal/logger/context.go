package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/webship/webship/internal/constants"
)

type contextKey string

const (
	runIDContextKey contextKey = "runID"
)

// NewRunID returns a fresh identifier for one CLI invocation.
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID stores the run ID in the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// GetRunID extracts the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDContextKey).(string); ok {
		return runID
	}

	return ""
}

// DeriveRunLogger returns a logger enriched with the run ID found in ctx.
func DeriveRunLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}

	if runID := GetRunID(ctx); runID != "" {
		return base.With(constants.RunIDLogField, runID)
	}

	return base
}

// GetDeadlineInfo returns logging attributes for context deadline information.
// Returns the absolute deadline time and remaining duration if set, or "none" if no deadline.
func GetDeadlineInfo(ctx context.Context) []any {
	deadline, ok := ctx.Deadline()
	if !ok {
		return []any{"deadline", "none", "deadline_remaining", "none"}
	}

	remaining := time.Until(deadline)
	return []any{
		"deadline", deadline.Format(time.RFC3339),
		"deadline_remaining", remaining.String(),
	}
}
