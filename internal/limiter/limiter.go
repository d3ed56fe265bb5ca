// Package limiter throttles login attempts per (username, ip) pair.
package limiter

import (
	"context"
	"time"
)

// Limiter gates login attempts and applies temporary lockouts.
type Limiter interface {
	// Allow reports whether a login attempt may proceed. When blocked, the
	// duration tells the caller how long to wait.
	Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
	// Success clears the failure counter after a successful login.
	Success(ctx context.Context, username string, ipHash []byte) error
	// Failure records a failed attempt and reports whether it tripped a block.
	Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
}
