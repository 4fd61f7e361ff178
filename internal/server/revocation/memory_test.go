package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	l := NewMemoryList()
	l.now = func() time.Time { return clock }

	revoked, err := l.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, l.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, l.Revoke(ctx, "", time.Minute))
	require.NoError(t, l.Revoke(ctx, "jti-2", 0))

	revoked, _ = l.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
	revoked, _ = l.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)

	clock = clock.Add(time.Minute)
	revoked, _ = l.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "expired entries are not revoked")
	assert.Empty(t, l.entries)
}

var _ List = (*MemoryList)(nil)
var _ List = (*RedisList)(nil)
