// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"context"
	"log/slog"
	"time"

	"cogentcore.org/embedview/base/errors"
)

// ErrReconnectDisabled is returned by [Reconnect.Retry] when the
// policy allows no attempts.
var ErrReconnectDisabled = errors.New("live: reconnect disabled")

// Reconnect is the policy for re-establishing a closed push channel.
// The zero value never reconnects.
type Reconnect struct {

	// MaxAttempts is the number of reconnection attempts after each
	// loss of the channel. Zero disables reconnection.
	MaxAttempts int

	// BaseDelay is the wait before the first attempt; it doubles
	// on each following attempt.
	BaseDelay time.Duration

	// MaxDelay caps the wait between attempts, if positive.
	MaxDelay time.Duration
}

// Delay returns the wait before the given attempt, counting from 1.
func (r Reconnect) Delay(attempt int) time.Duration {
	delay := r.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if r.MaxDelay > 0 && delay >= r.MaxDelay {
			return r.MaxDelay
		}
	}
	if r.MaxDelay > 0 && delay > r.MaxDelay {
		return r.MaxDelay
	}
	return delay
}

// Retry calls op until it succeeds, waiting [Reconnect.Delay] before
// each attempt, for at most MaxAttempts attempts. It returns the last
// error, or ctx.Err() if ctx ends first.
func (r Reconnect) Retry(ctx context.Context, op func() error) error {
	if r.MaxAttempts <= 0 {
		return ErrReconnectDisabled
	}
	var lastErr error
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		timer := time.NewTimer(r.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = op()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("live: reconnected after retry", "attempt", attempt)
			}
			return nil
		}
		slog.Debug("live: reconnect failed", "attempt", attempt, "maxAttempts", r.MaxAttempts, "err", lastErr)
	}
	return lastErr
}
