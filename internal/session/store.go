// Package session persists each visitor's selected service between requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/terra-clan/agency-site/internal/models"
)

// DefaultTTL is used when a store is created without a TTL
const DefaultTTL = 24 * time.Hour

// ErrInvalidVisitor is returned for an empty visitor id
var ErrInvalidVisitor = errors.New("visitor id is required")

// Store keeps the selected service code per visitor
type Store interface {
	// Load returns the saved code, or false when the visitor has none
	Load(ctx context.Context, visitorID string) (models.ServiceCode, bool, error)

	// Save stores code for the visitor and refreshes its TTL
	Save(ctx context.Context, visitorID string, code models.ServiceCode) error

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}
