package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.ID)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).GenerateToken("u-1", "alice")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_EmptyToken(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestExtractBearer(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer abc.def"))
	token, err := ExtractBearer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractBearer(context.Background())
	assert.ErrorIs(t, err, ErrMissingToken)

	ctx = metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic xyz"))
	_, err = ExtractBearer(ctx)
	assert.Error(t, err)
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{ID: "u-9"})
	c, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-9", c.ID)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("hunter22")
	require.NoError(t, err)

	ok, err := h.Verify("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("x", "not-a-hash")
	assert.Error(t, err)
}
