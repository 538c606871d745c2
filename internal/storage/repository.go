package storage

import (
	"context"

	"github.com/terra-clan/agency-site/internal/models"
)

// Repository defines the interface for contact message persistence
type Repository interface {
	SaveContactMessage(ctx context.Context, msg *models.ContactMessage) error
	// GetContactMessage returns nil, nil when no message has the id
	GetContactMessage(ctx context.Context, id string) (*models.ContactMessage, error)
	// ListContactMessages returns messages newest first
	ListContactMessages(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
