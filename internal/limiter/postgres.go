package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PG is a PostgreSQL-backed limiter with sliding window and lockout.
// State lives in the login_attempts table so it is shared by every client
// that signs in against the same store.
type PG struct {
	pool   pgxQuerier
	policy Policy
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter. *pgxpool.Pool satisfies q.
func NewPG(q pgxQuerier, p Policy) *PG {
	return &PG{pool: q, policy: p}
}

// Allow reports whether login is currently allowed and a retry-after duration.
func (l *PG) Allow(ctx context.Context, email string) (bool, time.Duration, error) {
	const q = `SELECT blocked_until FROM login_attempts WHERE email=$1`
	var blockedUntil time.Time
	err := l.pool.QueryRow(ctx, q, key(email)).Scan(&blockedUntil)
	switch {
	case err == nil:
		if blockedUntil.After(time.Now()) {
			return false, time.Until(blockedUntil), nil
		}
		return true, 0, nil
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	default:
		return false, 0, err
	}
}

// Success resets counters for the email.
func (l *PG) Success(ctx context.Context, email string) error {
	const q = `
INSERT INTO login_attempts (email, fail_count, blocked_until, updated_at)
VALUES ($1,0,'epoch',now())
ON CONFLICT (email)
DO UPDATE SET fail_count=0, blocked_until='epoch', updated_at=now()`
	_, err := l.pool.Exec(ctx, q, key(email))
	return err
}

// Failure records a failed attempt; may set a block until a future time.
func (l *PG) Failure(ctx context.Context, email string) (bool, time.Duration, error) {
	const q = `
INSERT INTO login_attempts (email, fail_count, blocked_until, updated_at)
VALUES ($1,1,'epoch',now())
ON CONFLICT (email) DO UPDATE
SET
  fail_count = CASE WHEN now() - login_attempts.updated_at > $2::interval THEN 1 ELSE login_attempts.fail_count + 1 END,
  updated_at = now()
RETURNING fail_count`
	var fails int
	if err := l.pool.QueryRow(ctx, q, key(email), l.policy.Window).Scan(&fails); err != nil {
		return false, 0, err
	}
	if fails >= l.policy.MaxFails {
		blockUntil := time.Now().Add(l.policy.BlockFor)
		const upd = `UPDATE login_attempts SET blocked_until=$2 WHERE email=$1`
		if _, err := l.pool.Exec(ctx, upd, key(email), blockUntil); err != nil {
			return false, 0, err
		}
		return true, l.policy.BlockFor, nil
	}
	return false, 0, nil
}
