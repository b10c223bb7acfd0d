package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/services/auth"
)

// Context key type to avoid collisions
type contextKey string

const (
	// PrincipalKey is the context key for the authenticated admin
	PrincipalKey contextKey = "principal"

	// ClaimsKey is the context key for the verified token claims
	ClaimsKey contextKey = "claims"

	// TokenKey is the context key for the raw bearer token
	TokenKey contextKey = "token"
)

// GetRequestIDFromContext retrieves the request ID set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// WithPrincipal adds the authenticated admin to the context
func WithPrincipal(ctx context.Context, admin *models.Admin) context.Context {
	return context.WithValue(ctx, PrincipalKey, admin)
}

// GetPrincipalFromContext retrieves the authenticated admin, or nil
func GetPrincipalFromContext(ctx context.Context) *models.Admin {
	if admin, ok := ctx.Value(PrincipalKey).(*models.Admin); ok {
		return admin
	}
	return nil
}

// WithClaims adds verified token claims to the context
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaimsFromContext retrieves verified token claims, or nil
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// WithToken adds the raw bearer token to the context
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// GetTokenFromContext retrieves the raw bearer token
func GetTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}
