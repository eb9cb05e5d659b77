package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	blacklist := NewInMemoryTokenBlacklist()
	blacklist.now = func() time.Time { return now }

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.entries)
}

func TestInMemoryTokenBlacklist_ExpiredTokenIsNotStored(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.AddToBlacklist(context.Background(), "jti-1", 0))

	assert.Empty(t, blacklist.entries)
}
