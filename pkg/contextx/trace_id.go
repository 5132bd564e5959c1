package contextx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rs/xid"
)

// TraceID ties together the log records of one HTTP request, bot command or
// update cycle.
type TraceID string

type contextKeyTraceID struct{}

func (t TraceID) String() string {
	return string(t)
}

func NewTraceID() TraceID {
	return TraceID(xid.New().String())
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}

// StartTrace stores traceID (a new one when empty) in ctx and tags the
// context logger with it under field.
func StartTrace(ctx context.Context, traceID TraceID, field string) (context.Context, TraceID) {
	if traceID == "" {
		traceID = NewTraceID()
	}

	ctx = WithTraceID(ctx, traceID)
	ctx = WithLogger(ctx, LoggerFromContextOrDefault(ctx).With(slog.String(field, traceID.String())))

	return ctx, traceID
}
