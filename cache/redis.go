package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OpNop/TINY-API/models"
)

const refreshTokenPrefix = "refresh_tokens:"

// RefreshTokenTTL is how long a refresh token stays valid in the cache.
const RefreshTokenTTL = 24 * time.Hour

// ErrTokenNotFound is returned when a refresh token is missing or expired.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenCache stores refresh-token session payloads with TTL expiry.
type TokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a token cache backed by Redis
func NewTokenCache(addr, password string, db int) (*TokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &TokenCache{client: client}, nil
}

// Set stores a session payload under the given refresh token.
func (c *TokenCache) Set(ctx context.Context, token string, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := c.client.Set(ctx, refreshTokenPrefix+token, payload, RefreshTokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Get loads the session payload for a refresh token.
func (c *TokenCache) Get(ctx context.Context, token string) (*models.Session, error) {
	payload, err := c.client.Get(ctx, refreshTokenPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes a refresh token.
func (c *TokenCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, refreshTokenPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (c *TokenCache) Close() error {
	return c.client.Close()
}
