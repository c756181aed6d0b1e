package services

import (
	"context"
	"sync"
	"time"
)

// RefreshFunc obtains a fresh token and its expiry from the upstream API.
type RefreshFunc func(ctx context.Context) (token string, expiresAt time.Time, err error)

// TokenCache memoizes an upstream auth token and refreshes it ahead of its
// expiry. It is constructor-injected into clients so tests can control time
// and force refreshes. Staleness is not correctness-sensitive: a stale read
// costs at most one extra refresh call.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	skew      time.Duration
	refresh   RefreshFunc
	now       func() time.Time
}

// NewTokenCache creates a cache that refreshes skew ahead of token expiry.
func NewTokenCache(refresh RefreshFunc, skew time.Duration) *TokenCache {
	return &TokenCache{
		skew:    skew,
		refresh: refresh,
		now:     time.Now,
	}
}

// Token returns the cached token, refreshing it first if it is missing or
// within skew of expiry.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(c.skew).Before(c.expiresAt) {
		return c.token, nil
	}

	token, expiresAt, err := c.refresh(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	c.expiresAt = expiresAt
	return c.token, nil
}

// Invalidate drops the cached token so the next Token call refreshes.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
