package limiter

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process limiter used with stores that have no limiter
// table (the MongoDB backend). Counters reset when the process exits.
type Memory struct {
	mu     sync.Mutex
	policy Policy
	now    func() time.Time
	state  map[string]*attempts
}

type attempts struct {
	fails        int
	last         time.Time
	blockedUntil time.Time
}

// NewMemory constructs an in-process limiter.
func NewMemory(p Policy) *Memory {
	return &Memory{policy: p, now: time.Now, state: map[string]*attempts{}}
}

// Allow reports whether login is currently allowed and a retry-after duration.
func (m *Memory) Allow(_ context.Context, email string) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.state[key(email)]
	if !ok {
		return true, 0, nil
	}
	if now := m.now(); a.blockedUntil.After(now) {
		return false, a.blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// Success forgets the email's failures.
func (m *Memory) Success(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state, key(email))
	return nil
}

// Failure records a failed attempt; may set a block until a future time.
func (m *Memory) Failure(_ context.Context, email string) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	k := key(email)
	a, ok := m.state[k]
	if !ok || now.Sub(a.last) > m.policy.Window {
		a = &attempts{}
		m.state[k] = a
	}
	a.fails++
	a.last = now
	if a.fails >= m.policy.MaxFails {
		a.blockedUntil = now.Add(m.policy.BlockFor)
		return true, m.policy.BlockFor, nil
	}
	return false, 0, nil
}
