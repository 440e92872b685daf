package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken("op-1", auth.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims[auth.ClaimSubject])
	assert.Equal(t, "manager", claims[auth.ClaimRole])
	assert.Equal(t, "access", claims[auth.ClaimType])
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")
	_, _, err := svc.GenerateAccessToken("op-1", auth.RoleOperator)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}
