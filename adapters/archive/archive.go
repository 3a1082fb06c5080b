// Package archive keeps generated quotes for retrieval until they expire.
package archive

import (
	"context"
	"sync"
	"time"

	"billboard-pricing/core/quote"
	"billboard-pricing/internal/config"
	"billboard-pricing/internal/errors"
)

// Backend is an archive backend type
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Archive stores quotes by ID until their ValidUntil time
type Archive interface {
	// Put stores a quote
	Put(ctx context.Context, q *quote.Quote) error

	// Get returns a stored, unexpired quote
	Get(ctx context.Context, id string) (*quote.Quote, error)

	// Close releases resources
	Close() error
}

// MemoryArchive is an in-process archive
type MemoryArchive struct {
	mu     sync.RWMutex
	quotes map[string]*quote.Quote
	now    func() time.Time
}

// NewMemoryArchive creates a memory archive. now may be nil.
func NewMemoryArchive(now func() time.Time) *MemoryArchive {
	if now == nil {
		now = time.Now
	}
	return &MemoryArchive{quotes: make(map[string]*quote.Quote), now: now}
}

func (a *MemoryArchive) Put(ctx context.Context, q *quote.Quote) error {
	if q == nil || q.ID == "" {
		return errors.Input("quote must have an id")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.quotes[q.ID] = q
	a.sweep()
	return nil
}

func (a *MemoryArchive) Get(ctx context.Context, id string) (*quote.Quote, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	q, ok := a.quotes[id]
	if !ok || q.Expired(a.now()) {
		return nil, errors.NotFound("quote", id)
	}
	return q, nil
}

// sweep drops expired quotes; callers hold the write lock
func (a *MemoryArchive) sweep() {
	now := a.now()
	for id, q := range a.quotes {
		if q.Expired(now) {
			delete(a.quotes, id)
		}
	}
}

// Len returns the number of stored quotes, expired ones included
func (a *MemoryArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.quotes)
}

func (a *MemoryArchive) Close() error {
	return nil
}

// Open creates the archive selected by configuration
func Open(ctx context.Context, cfg *config.Config) (Archive, error) {
	ac := cfg.Archive
	switch Backend(ac.Backend) {
	case BackendMemory, "":
		return NewMemoryArchive(nil), nil
	case BackendRedis:
		a, err := NewRedisArchive(ctx, ac.RedisAddr, ac.RedisDB)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported archive backend: %s", ac.Backend)
	}
}

var _ Archive = (*MemoryArchive)(nil)
