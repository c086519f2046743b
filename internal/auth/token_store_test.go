package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenStore_WithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	err := store.StoreRefreshToken(ctx, "jti", uuid.New(), time.Minute)
	assert.Error(t, err)

	userID, err := store.GetRefreshToken(ctx, "jti")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
	assert.Equal(t, uuid.Nil, userID)

	revoked, err := store.IsAccessTokenRevoked(ctx, "jti")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, store.DeleteRefreshToken(ctx, "jti"))
	assert.NoError(t, store.RevokeAccessToken(ctx, "jti", 0))
}
