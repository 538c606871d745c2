package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/agency-site/internal/models"
)

const redisKeyPrefix = "agency:selection:"

// RedisConfig holds Redis connection settings for the store
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore implements Store on Redis, one key per visitor
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	slog.Info("redis session store connected", "address", cfg.Address, "db", cfg.DB)

	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(visitorID string) string {
	return redisKeyPrefix + visitorID
}

// Load implements Store
func (s *RedisStore) Load(ctx context.Context, visitorID string) (models.ServiceCode, bool, error) {
	if visitorID == "" {
		return "", false, ErrInvalidVisitor
	}

	val, err := s.client.Get(ctx, redisKey(visitorID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load selection: %w", err)
	}
	return models.ServiceCode(val), true, nil
}

// Save implements Store
func (s *RedisStore) Save(ctx context.Context, visitorID string, code models.ServiceCode) error {
	if visitorID == "" {
		return ErrInvalidVisitor
	}

	if err := s.client.Set(ctx, redisKey(visitorID), string(code), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// Ping implements Store
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
