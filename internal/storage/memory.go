package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/terra-clan/agency-site/internal/models"
)

// MemoryRepository keeps contact messages in process memory
type MemoryRepository struct {
	mu       sync.RWMutex
	messages map[string]*models.ContactMessage
}

// NewMemoryRepository creates an empty MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{messages: make(map[string]*models.ContactMessage)}
}

// SaveContactMessage stores a copy of msg
func (r *MemoryRepository) SaveContactMessage(_ context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		return fmt.Errorf("contact message id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.messages[msg.ID]; exists {
		return fmt.Errorf("contact message %s already exists", msg.ID)
	}
	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

// GetContactMessage returns a copy of the message, or nil when absent
func (r *MemoryRepository) GetContactMessage(_ context.Context, id string) (*models.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	out := *msg
	return &out, nil
}

// ListContactMessages returns messages newest first
func (r *MemoryRepository) ListContactMessages(_ context.Context, limit, offset int) ([]*models.ContactMessage, error) {
	r.mu.RLock()
	all := make([]*models.ContactMessage, 0, len(r.messages))
	for _, msg := range r.messages {
		out := *msg
		all = append(all, &out)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Ping implements Repository
func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}

// Close implements Repository
func (r *MemoryRepository) Close() error {
	return nil
}
