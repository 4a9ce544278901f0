package auth_test

import (
	"testing"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/auth"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/logger"
	timeProvider "github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/time"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(secret string, ttl time.Duration) *auth.TokenManager {
	return auth.NewTokenManager(secret, core.Duration(ttl), timeProvider.NewRealTimeProvider(), logger.NewNoopLogger())
}

func TestTokenRoundTrip(t *testing.T) {
	m := newManager(testSecret, time.Hour)

	token, err := m.GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := m.RequireRole(token, auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := newManager(testSecret, time.Hour).GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = newManager("another-secret-another-secret-xx", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	m := newManager(testSecret, -time.Minute)

	token, err := m.GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{Role: auth.RoleAdmin})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newManager(testSecret, time.Hour).ValidateToken(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRequireRoleForbidden(t *testing.T) {
	m := newManager(testSecret, time.Hour)

	token, err := m.GenerateToken("viewer", "reader")
	require.NoError(t, err)

	_, err = m.RequireRole(token, auth.RoleAdmin)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestEmptySecretDisablesTokens(t *testing.T) {
	m := newManager("", time.Hour)

	_, err := m.GenerateToken("ops", auth.RoleAdmin)
	assert.ErrorIs(t, err, auth.ErrNoSecret)

	signed, err := newManager(testSecret, time.Hour).GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)
	_, err = m.ValidateToken(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
