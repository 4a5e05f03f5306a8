// Package lock serializes warranty runs per order.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vunguyen00/Netflix/pkg/clock"
)

// ErrHeld is returned when another holder owns the key
var ErrHeld = errors.New("lock is held")

// Locker grants exclusive, expiring ownership of a key
type Locker interface {
	// Acquire returns a release func, or ErrHeld when the key is taken
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

type memoryEntry struct {
	token   string
	expires time.Time
}

// MemoryLocker is a process-local Locker
type MemoryLocker struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]memoryEntry
}

// NewMemoryLocker creates a process-local locker
func NewMemoryLocker(clk clock.Clock) *MemoryLocker {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &MemoryLocker{clock: clk, entries: make(map[string]memoryEntry)}
}

// Acquire implements Locker
func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if e, ok := l.entries[key]; ok && now.Before(e.expires) {
		return nil, ErrHeld
	}

	token := uuid.NewString()
	l.entries[key] = memoryEntry{token: token, expires: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// an expired lock may have been taken over
			if e, ok := l.entries[key]; ok && e.token == token {
				delete(l.entries, key)
			}
		})
	}, nil
}
