package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRevocationStore(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExists(revokedKeyPrefix + "jti-1").SetVal(0)
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	mock.ExpectSet(revokedKeyPrefix+"jti-1", now.Unix(), time.Hour).SetVal("OK")
	require.NoError(t, store.Revoke(ctx, "jti-1", now.Add(time.Hour), now))

	mock.ExpectExists(revokedKeyPrefix + "jti-1").SetVal(1)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// expired tokens are not stored
	require.NoError(t, store.Revoke(ctx, "jti-2", now.Add(-time.Minute), now))

	mock.ExpectExists(revokedKeyPrefix + "jti-3").SetErr(errors.New("redis down"))
	_, err = store.IsRevoked(ctx, "jti-3")
	assert.EqualError(t, err, "redis down")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationKey(t *testing.T) {
	claims := newTestClaims("user-1", time.Now())
	assert.Equal(t, "jti-user-1", revocationKey("tkn", claims))

	claims.ID = ""
	key := revocationKey("tkn", claims)
	assert.Len(t, key, 64)
	assert.Equal(t, key, revocationKey("tkn", claims))
	assert.NotEqual(t, key, revocationKey("other", claims))
}
