// internal/keypool/pool.go
package keypool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNoKeys is returned at construction when no credentials are configured.
	// This is a fatal configuration error, not a runtime fault.
	ErrNoKeys = errors.New("keypool: no API keys configured")

	// ErrExhausted is returned by Acquire when every key stays saturated until
	// the caller's context expires.
	ErrExhausted = errors.New("keypool: all API keys rate limited")
)

// slot tracks the sliding usage window of a single upstream credential.
// Slots are mutated only by the pool, under its mutex.
type slot struct {
	key         string
	usage       int
	windowStart time.Time
}

// Pool rotates a fixed set of upstream API keys, each with its own
// requests-per-window budget. Acquire hands out the first key that still has
// budget; when every key is saturated it waits cooperatively and retries until
// the context expires.
type Pool struct {
	mu      sync.Mutex
	slots   []slot
	limit   int
	window  time.Duration
	backoff time.Duration

	now func() time.Time // overridable in tests
}

// New creates a pool over the given keys. limit is the per-key request budget
// within one window. backoff is how long a saturated Acquire sleeps between
// scans.
func New(keys []string, limit int, window, backoff time.Duration) (*Pool, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	if limit <= 0 {
		return nil, fmt.Errorf("keypool: limit must be positive, got %d", limit)
	}

	now := time.Now()
	slots := make([]slot, len(keys))
	for i, k := range keys {
		slots[i] = slot{key: k, windowStart: now}
	}

	return &Pool{
		slots:   slots,
		limit:   limit,
		window:  window,
		backoff: backoff,
		now:     time.Now,
	}, nil
}

// Acquire returns a key that is under its rate limit, counting the acquisition
// against that key's window. When every key is saturated it blocks, waking up
// every backoff interval to rescan, until a key frees up or ctx is done. On
// context expiry it returns ErrExhausted so the caller can degrade instead of
// stalling a request-handling goroutine forever.
func (p *Pool) Acquire(ctx context.Context) (string, error) {
	for {
		if key, ok := p.tryAcquire(); ok {
			return key, nil
		}

		timer := time.NewTimer(p.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: %v", ErrExhausted, ctx.Err())
		case <-timer.C:
		}
	}
}

// tryAcquire performs one scan: reset elapsed windows, then hand out the first
// key with remaining budget. The reset-check-increment sequence is atomic as a
// unit under the pool mutex.
func (p *Pool) tryAcquire() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for i := range p.slots {
		s := &p.slots[i]
		if now.Sub(s.windowStart) >= p.window {
			s.usage = 0
			s.windowStart = now
		}
		if s.usage < p.limit {
			s.usage++
			return s.key, true
		}
	}
	return "", false
}

// Size reports how many keys the pool rotates.
func (p *Pool) Size() int {
	return len(p.slots)
}
