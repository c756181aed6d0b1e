package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenCache_RefreshesWhenEmpty(t *testing.T) {
	calls := 0
	cache := NewTokenCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		return "tok-1", time.Now().Add(time.Hour), nil
	}, 5*time.Minute)

	tok, err := cache.Token(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, 1, calls)

	// second call is served from cache
	tok, err = cache.Token(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, 1, calls)
}

func TestTokenCache_RefreshesAheadOfExpiry(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base

	calls := 0
	cache := NewTokenCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		if calls == 1 {
			return "tok-1", base.Add(time.Hour), nil
		}
		return "tok-2", base.Add(2 * time.Hour), nil
	}, 10*time.Minute)
	cache.now = func() time.Time { return now }

	tok, _ := cache.Token(context.Background())
	assert.Equal(t, "tok-1", tok)

	// 51 minutes in: token expires in 9 minutes, inside the 10 minute skew
	now = base.Add(51 * time.Minute)
	tok, _ = cache.Token(context.Background())
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, 2, calls)
}

func TestTokenCache_RefreshErrorPropagates(t *testing.T) {
	cache := NewTokenCache(func(ctx context.Context) (string, time.Time, error) {
		return "", time.Time{}, errors.New("login failed")
	}, time.Minute)

	_, err := cache.Token(context.Background())
	assert.Error(t, err)
}

func TestTokenCache_InvalidateForcesRefresh(t *testing.T) {
	calls := 0
	cache := NewTokenCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		return "tok", time.Now().Add(time.Hour), nil
	}, time.Minute)

	_, _ = cache.Token(context.Background())
	cache.Invalidate()
	_, _ = cache.Token(context.Background())
	assert.Equal(t, 2, calls)
}
