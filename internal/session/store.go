// Package session provides redis-backed session tokens for the HTTP layer.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/cheerhub/cheerhub/internal/cache"
)

// ErrNotFound is returned when a token is unknown or expired
var ErrNotFound = fmt.Errorf("session not found")

// Store holds opaque session tokens mapping to user ids
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a session store over the shared Redis cache
func NewStore(c *cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

func key(token string) string {
	return "session:" + token
}

// Create issues a fresh opaque token for the user
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.cache.Set(ctx, key(token), strconv.FormatInt(userID, 10), s.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Lookup resolves a token to a user id and slides the expiry forward
func (s *Store) Lookup(ctx context.Context, token string) (int64, error) {
	val, err := s.cache.Get(ctx, key(token))
	if err != nil {
		if cache.IsNil(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("lookup session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value: %w", err)
	}

	// Sliding expiry; a failed refresh is not fatal for the request
	_ = s.cache.Expire(ctx, key(token), s.ttl)

	return userID, nil
}

// Delete revokes a token
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, key(token))
}
