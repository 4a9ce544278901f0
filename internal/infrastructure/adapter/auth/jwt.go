package auth

import (
	"errors"
	"fmt"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/golang-jwt/jwt/v4"
)

// RoleAdmin grants access to sale management
const RoleAdmin = "admin"

const issuer = "flash-sale"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrForbidden    = errors.New("insufficient role")
	ErrNoSecret     = errors.New("token secret not configured")
)

// Claims represents the admin token claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HMAC-signed admin tokens
type TokenManager struct {
	secretKey    []byte
	ttl          coreport.Duration
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTokenManager creates a new token manager
func NewTokenManager(secretKey string, ttl coreport.Duration, timeProvider coreport.TimeProvider, logger coreport.Logger) *TokenManager {
	return &TokenManager{
		secretKey:    []byte(secretKey),
		ttl:          ttl,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GenerateToken issues a token for subject carrying role
func (m *TokenManager) GenerateToken(subject, role string) (string, error) {
	if len(m.secretKey) == 0 {
		return "", ErrNoSecret
	}
	now := m.timeProvider.Now()
	expiresAt := now.Add(m.ttl.Std())

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	m.logger.Info("Token generated", map[string]any{
		"subject":    subject,
		"role":       role,
		"expires_at": expiresAt,
	})
	return signed, nil
}

// ValidateToken validates a token and returns its claims.
// With no secret configured every token is rejected.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	if len(m.secretKey) == 0 {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			m.logger.Warn("Token expired", map[string]any{"error": err.Error()})
			return nil, ErrExpiredToken
		}
		m.logger.Warn("Invalid token", map[string]any{"error": err.Error()})
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireRole validates the token and checks its role
func (m *TokenManager) RequireRole(tokenString, role string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, ErrForbidden
	}
	return claims, nil
}
