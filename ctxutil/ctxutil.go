// Copyright (c) 2025 BVK Chaitanya

package ctxutil

import (
	"context"
	"time"
)

// Sleep blocks the caller for the given duration. Returns early when the
// input context is canceled.
func Sleep(ctx context.Context, d time.Duration) {
	sctx, scancel := context.WithTimeout(ctx, d)
	<-sctx.Done()
	scancel()
}

// Retry runs the input function repeatedly, with a sleep of the given
// interval between attempts, until it succeeds or the input context is
// canceled. Returns nil on success or the last non-nil error after the
// context has expired.
func Retry(ctx context.Context, interval time.Duration, f func() error) (err error) {
	for err = f(); err != nil && context.Cause(ctx) == nil; err = f() {
		Sleep(ctx, interval)
	}
	return
}
