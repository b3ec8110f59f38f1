// Package ctxutil provides context utility functions.
package ctxutil

import (
	"context"
	"time"
)

// Canceled checks if the context has been canceled or exceeded its deadline.
// Returns the context error if done (Canceled or DeadlineExceeded), nil otherwise.
// Operations call it at entry before touching the store.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Bounded returns ctx with a timeout of d unless ctx already carries a
// deadline, in which case the caller's deadline wins. The returned cancel
// func must always be called.
func Bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
