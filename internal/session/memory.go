package session

import (
	"context"
	"sync"
	"time"

	"github.com/terra-clan/agency-site/internal/models"
)

type memoryEntry struct {
	code      models.ServiceCode
	expiresAt time.Time
}

// MemoryStore is an in-process Store with per-entry expiry
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Load implements Store
func (s *MemoryStore) Load(_ context.Context, visitorID string) (models.ServiceCode, bool, error) {
	if visitorID == "" {
		return "", false, ErrInvalidVisitor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[visitorID]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, visitorID)
		return "", false, nil
	}
	return entry.code, true, nil
}

// Save implements Store
func (s *MemoryStore) Save(_ context.Context, visitorID string, code models.ServiceCode) error {
	if visitorID == "" {
		return ErrInvalidVisitor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[visitorID] = memoryEntry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Sweep removes entries expired at now and returns how many were removed
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Ping implements Store
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	return nil
}
