package trivia

import "context"

type contextKey string

const cycleKey contextKey = "trivia_cycle"

// WithCycle attaches a load cycle ID to the context for event logging.
func WithCycle(ctx context.Context, cycleID string) context.Context {
	return context.WithValue(ctx, cycleKey, cycleID)
}

// CycleFrom extracts the load cycle ID from the context.
func CycleFrom(ctx context.Context) string {
	if v, ok := ctx.Value(cycleKey).(string); ok {
		return v
	}
	return ""
}
