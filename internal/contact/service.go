// Package contact accepts contact form submissions.
//
// The page collects name, email and message and hands them over untouched;
// this package is the submission handler that trims, checks and stores them.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/terra-clan/agency-site/internal/models"
)

// Field length limits, in characters
const (
	MaxNameLength    = 200
	MaxEmailLength   = 320
	MaxMessageLength = 5000
)

// Common errors
var (
	ErrInvalidSubmission = errors.New("invalid contact submission")
	ErrRateLimited       = errors.New("too many contact submissions")
)

// ValidationError lists the problems with a submission, keyed by field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSubmission, strings.Join(parts, "; "))
}

// Unwrap makes errors.Is(err, ErrInvalidSubmission) hold
func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

// Meta describes where a submission came from
type Meta struct {
	RemoteAddr string
	UserAgent  string
}

// Submitter accepts contact form submissions
type Submitter interface {
	Submit(ctx context.Context, req models.ContactRequest, meta Meta) (*models.ContactAck, error)
}

// Repository is where accepted messages are stored
type Repository interface {
	SaveContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

// Service implements Submitter
type Service struct {
	repo    Repository
	limiter *Limiter
	now     func() time.Time
}

// NewService creates a contact service; limiter may be nil to disable rate limiting
func NewService(repo Repository, limiter *Limiter) *Service {
	return &Service{
		repo:    repo,
		limiter: limiter,
		now:     time.Now,
	}
}

// Submit validates req, stores it and returns an acknowledgement
func (s *Service) Submit(ctx context.Context, req models.ContactRequest, meta Meta) (*models.ContactAck, error) {
	clean, err := Validate(req)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil && !s.limiter.Allow(meta.RemoteAddr) {
		slog.Warn("contact submission rate limited", "remote_addr", meta.RemoteAddr)
		return nil, ErrRateLimited
	}

	msg := &models.ContactMessage{
		ID:         uuid.New().String(),
		Name:       clean.Name,
		Email:      clean.Email,
		Message:    clean.Message,
		RemoteAddr: meta.RemoteAddr,
		UserAgent:  meta.UserAgent,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.SaveContactMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	slog.Info("contact message received", "id", msg.ID, "remote_addr", meta.RemoteAddr)

	return &models.ContactAck{
		ID:         msg.ID,
		ReceivedAt: msg.CreatedAt,
	}, nil
}

// Validate trims the fields and checks them, returning the cleaned request
// or a *ValidationError
func Validate(req models.ContactRequest) (models.ContactRequest, error) {
	clean := models.ContactRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}

	fields := make(map[string]string)

	switch {
	case clean.Name == "":
		fields["name"] = "is required"
	case utf8.RuneCountInString(clean.Name) > MaxNameLength:
		fields["name"] = fmt.Sprintf("must be at most %d characters", MaxNameLength)
	}

	switch {
	case clean.Email == "":
		fields["email"] = "is required"
	case utf8.RuneCountInString(clean.Email) > MaxEmailLength:
		fields["email"] = fmt.Sprintf("must be at most %d characters", MaxEmailLength)
	default:
		addr, err := mail.ParseAddress(clean.Email)
		if err != nil || addr.Name != "" || addr.Address != clean.Email {
			fields["email"] = "must be a plain email address"
		}
	}

	switch {
	case clean.Message == "":
		fields["message"] = "is required"
	case utf8.RuneCountInString(clean.Message) > MaxMessageLength:
		fields["message"] = fmt.Sprintf("must be at most %d characters", MaxMessageLength)
	}

	if len(fields) > 0 {
		return models.ContactRequest{}, &ValidationError{Fields: fields}
	}
	return clean, nil
}
