package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/psf-initiatives/admin-api/services/auth"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// Authenticator resolves an access token to an active admin
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Admin, *auth.Claims, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	authenticator Authenticator
	logger        *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// RequireAuth is a middleware that requires a valid access token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := BearerToken(r)
		if token == "" {
			m.logger.Debug("missing bearer token", zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, services.ErrAuthenticationRequired.Message)
			return
		}

		admin, claims, err := m.authenticator.Authenticate(ctx, token)
		if err != nil {
			var domainErr *services.DomainError
			if errors.As(err, &domainErr) && domainErr.Type == services.ErrorTypeUnauthorized {
				m.logger.Warn("authentication failed",
					zap.String("request_id", requestID),
					zap.String("reason", domainErr.Message))
				_ = utils.WriteUnauthorized(w, domainErr.Message)
				return
			}
			m.logger.Error("authentication error",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		ctx = WithPrincipal(ctx, admin)
		ctx = WithClaims(ctx, claims)
		ctx = WithToken(ctx, token)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("admin_id", admin.ID.String()),
			zap.String("role", admin.Role.String()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows any admin role. It must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin, services.ErrAdminRequired)(next)
}

// RequireSuperadmin allows only superadmins. It must run after RequireAuth.
func (m *AuthMiddleware) RequireSuperadmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleSuperadmin, services.ErrSuperadminRequired)(next)
}

// RequireRole is a middleware that requires the principal's role to satisfy role
func (m *AuthMiddleware) RequireRole(role models.Role, denied *services.DomainError) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			admin := GetPrincipalFromContext(ctx)
			if admin == nil {
				m.logger.Error("principal not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, services.ErrAuthenticationRequired.Message)
				return
			}

			if !admin.Role.Satisfies(role) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("required_role", role.String()),
					zap.String("role", admin.Role.String()))
				_ = utils.WriteForbidden(w, denied.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the Bearer token from the Authorization header.
// The scheme is case-insensitive.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
