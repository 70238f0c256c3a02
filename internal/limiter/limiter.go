// Package limiter defines interfaces and implementations for login rate limiting.
package limiter

import (
	"context"
	"strings"
	"time"
)

// Limiter controls login attempts and temporary lockouts per account email.
type Limiter interface {
	// Allow reports whether login is currently allowed and optional retry-after.
	Allow(ctx context.Context, email string) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, email string) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, email string) (bool, time.Duration, error)
}

// Policy configures the sliding window and lockout.
type Policy struct {
	Window   time.Duration // failures older than this are forgotten
	MaxFails int           // failures within Window that trigger a block
	BlockFor time.Duration
}

// DefaultPolicy is five failures in 15 minutes, then a 15 minute block.
var DefaultPolicy = Policy{Window: 15 * time.Minute, MaxFails: 5, BlockFor: 15 * time.Minute}

func key(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
