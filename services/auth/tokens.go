package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/services"
)

// TokenType distinguishes short-lived access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the payload carried by every issued token
type Claims struct {
	Role   models.Role `json:"role"`
	UserID string      `json:"user_id"`
	Type   TokenType   `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revocation RevocationStore
	now        func() time.Time
}

// TokenManagerOption customises a TokenManager
type TokenManagerOption func(*TokenManager)

// WithLifetimes overrides the default token lifetimes. Zero keeps the default.
func WithLifetimes(access, refresh time.Duration) TokenManagerOption {
	return func(m *TokenManager) {
		if access > 0 {
			m.accessTTL = access
		}
		if refresh > 0 {
			m.refreshTTL = refresh
		}
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) TokenManagerOption {
	return func(m *TokenManager) {
		m.now = now
	}
}

// NewTokenManager creates a TokenManager signing with secret
func NewTokenManager(secret string, revocation RevocationStore, opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		revocation: revocation,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AccessTTL returns the configured access token lifetime
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// RefreshTTL returns the configured refresh token lifetime
func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// Issue signs a token of the given type for admin. ttl 0 selects the default for the type.
func (m *TokenManager) Issue(admin *models.Admin, kind TokenType, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.accessTTL
		if kind == TokenTypeRefresh {
			ttl = m.refreshTTL
		}
	}

	now := m.now()
	claims := Claims{
		Role:   admin.Role,
		UserID: admin.ID.String(),
		Type:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token in order: revocation, signature and expiry, type, subject.
func (m *TokenManager) Verify(ctx context.Context, token string, expected TokenType) (*Claims, error) {
	if jti := unverifiedID(token); jti != "" && m.revocation != nil {
		revoked, err := m.revocation.IsRevoked(ctx, jti)
		if err != nil {
			return nil, services.WrapInternal("Failed to check token revocation", err)
		}
		if revoked {
			return nil, services.ErrTokenRevoked
		}
	}

	claims, err := m.parse(token)
	if err != nil {
		return nil, services.ErrCouldNotValidate.Wrap(err)
	}
	if claims.Type != expected {
		return nil, services.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}

// Revoke adds a signature-valid, unexpired token to the revocation store
// until it would have expired. Other tokens are ignored.
func (m *TokenManager) Revoke(ctx context.Context, token string) (bool, error) {
	if m.revocation == nil {
		return false, nil
	}
	claims, err := m.parse(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return false, nil
	}
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if ttl <= 0 {
		return false, nil
	}
	if err := m.revocation.Revoke(ctx, claims.ID, ttl); err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}
	return true, nil
}

func (m *TokenManager) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// unverifiedID reads the jti without checking the signature
func unverifiedID(token string) string {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	return claims.ID
}
