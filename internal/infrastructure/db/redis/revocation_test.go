package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestList(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationList(client), mr
}

func TestRevocationList_RevokeAndExpire(t *testing.T) {
	list, mr := newTestList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("revoked:jti-1"))
	assert.Equal(t, time.Minute, mr.TTL("revoked:jti-1"))

	mr.FastForward(2 * time.Minute)

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry should expire with the token")
}

func TestRevocationList_NonPositiveTTLIsNoop(t *testing.T) {
	list, mr := newTestList(t)

	require.NoError(t, list.Revoke(context.Background(), "jti-2", 0))
	assert.False(t, mr.Exists("revoked:jti-2"))
}

func TestRevocationList_ServerDown(t *testing.T) {
	list, mr := newTestList(t)
	mr.Close()

	_, err := list.IsRevoked(context.Background(), "jti-3")
	assert.Error(t, err)
	assert.Error(t, list.Revoke(context.Background(), "jti-3", time.Minute))
}
