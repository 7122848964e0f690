package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "username"

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if username, ok := ctx.Value(ContextUserKey).(string); ok {
		return username
	}
	return ""
}

func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ContextUserKey, username)
}

// WithTimeout returns a context with timeout, defaulting to 10 seconds if
// duration is zero or negative. Every backend call goes through this so the
// whole console shares one cancellation policy.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 10 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
