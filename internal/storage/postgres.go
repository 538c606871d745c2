package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/agency-site/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 10
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 1
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Pool exposes the connection pool, e.g. for running migrations
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// SaveContactMessage inserts a contact message
func (r *PostgresRepository) SaveContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, message, remote_addr, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Message,
		nullString(msg.RemoteAddr),
		nullString(msg.UserAgent),
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}

	return nil
}

const contactColumns = `id::text, name, email, message, remote_addr, user_agent, created_at`

// GetContactMessage retrieves a contact message by ID
func (r *PostgresRepository) GetContactMessage(ctx context.Context, id string) (*models.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages WHERE id::text = $1`

	msg, err := scanContactMessage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}

	return msg, nil
}

// ListContactMessages returns contact messages, newest first
func (r *PostgresRepository) ListContactMessages(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + contactColumns + ` FROM contact_messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ContactMessage
	for rows.Next() {
		msg, err := scanContactMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func scanContactMessage(row pgx.Row) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	var remoteAddr, userAgent sql.NullString

	if err := row.Scan(
		&msg.ID,
		&msg.Name,
		&msg.Email,
		&msg.Message,
		&remoteAddr,
		&userAgent,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}

	msg.RemoteAddr = remoteAddr.String
	msg.UserAgent = userAgent.String
	return &msg, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
