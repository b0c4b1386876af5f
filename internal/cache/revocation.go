package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelog/travelog/internal/auth"
)

// revokedTokenPrefix is the Redis key prefix for logged-out bearer tokens.
const revokedTokenPrefix = "auth:revoked:"

// revokedTokenKey never stores the raw token.
func revokedTokenKey(token string) string {
	return revokedTokenPrefix + auth.QuickHash(token)
}

// RevokeToken denylists a token until it would have expired anyway.
// Tokens already past expiresAt are ignored.
func (c *Cache) RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, revokedTokenKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether token has been denylisted.
func (c *Cache) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	err := c.client.Get(ctx, revokedTokenKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}
