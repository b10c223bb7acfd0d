// Package auth implements admin credentials, token issuance and verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/services"
	"go.uber.org/zap"
)

// UserInfo is the public view of an admin
type UserInfo struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	LastLogin *time.Time  `json:"last_login,omitempty"`
}

// NewUserInfo builds the public view of admin
func NewUserInfo(admin *models.Admin) UserInfo {
	return UserInfo{
		ID:        admin.ID.String(),
		Email:     admin.Email,
		FullName:  admin.FullName,
		Role:      admin.Role,
		IsActive:  admin.IsActive,
		CreatedAt: admin.CreatedAt,
		LastLogin: admin.LastLogin,
	}
}

// TokenResponse is returned by every endpoint that hands out a session
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	User         UserInfo `json:"user"`
}

// RegisterInput describes a new admin account
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// FullName joins the first and last names
func (in RegisterInput) FullName() string {
	return strings.TrimSpace(in.FirstName + " " + in.LastName)
}

// Service implements the credential operations
type Service struct {
	admins repositories.AdminRepository
	txMgr  repositories.TransactionManager
	tokens *TokenManager
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(admins repositories.AdminRepository, txMgr repositories.TransactionManager, tokens *TokenManager, logger *zap.Logger) *Service {
	return &Service{
		admins: admins,
		txMgr:  txMgr,
		tokens: tokens,
		logger: logger,
	}
}

// Tokens returns the token manager used by the service
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Login checks credentials and starts a session
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrInvalidCredentials
		}
		return nil, services.FromRepository(err, nil, nil)
	}
	if !CheckPassword(admin.PasswordHash, password) {
		return nil, services.ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, services.ErrAccountDeactivated
	}

	err = services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		return s.admins.UpdateLastLogin(ctx, admin.ID)
	})
	if err != nil {
		return nil, services.FromRepository(err, services.ErrInvalidCredentials, nil)
	}
	now := time.Now().UTC()
	admin.LastLogin = &now

	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID.String()))
	return s.Session(admin, false)
}

// Register creates an admin on behalf of a superadmin
func (s *Service) Register(ctx context.Context, in RegisterInput) (*TokenResponse, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, services.ErrInvalidRole
	}
	admin, err := s.newAdmin(in, role)
	if err != nil {
		return nil, err
	}

	err = services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		if err := s.ensureEmailFree(ctx, admin.Email); err != nil {
			return err
		}
		return s.admins.Create(ctx, admin)
	})
	if err != nil {
		return nil, services.FromRepository(err, nil, services.ErrEmailRegistered)
	}

	s.logger.Info("admin registered",
		zap.String("admin_id", admin.ID.String()),
		zap.String("role", admin.Role.String()),
	)
	return s.Session(admin, false)
}

// BootstrapSuperadmin creates the first superadmin. It fails once any superadmin exists.
func (s *Service) BootstrapSuperadmin(ctx context.Context, in RegisterInput) (*TokenResponse, error) {
	admin, err := s.newAdmin(in, models.RoleSuperadmin)
	if err != nil {
		return nil, err
	}

	err = services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		if err := s.admins.LockBootstrap(ctx); err != nil {
			return err
		}
		exists, err := s.admins.ExistsByRole(ctx, models.RoleSuperadmin)
		if err != nil {
			return err
		}
		if exists {
			return services.ErrSuperadminExists
		}
		if err := s.ensureEmailFree(ctx, admin.Email); err != nil {
			return err
		}
		return s.admins.Create(ctx, admin)
	})
	if err != nil {
		return nil, services.FromRepository(err, nil, services.ErrEmailRegistered)
	}

	s.logger.Info("superadmin bootstrapped", zap.String("admin_id", admin.ID.String()))
	return s.Session(admin, true)
}

// Logout revokes token when it is still usable. Unusable tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	revoked, err := s.tokens.Revoke(ctx, token)
	if err != nil {
		return services.WrapInternal("Failed to revoke token", err)
	}
	if revoked {
		s.logger.Debug("access token revoked")
	}
	return nil
}

// Authenticate resolves an access token to an active admin
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Admin, *Claims, error) {
	claims, err := s.tokens.Verify(ctx, token, TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}
	admin, err := s.resolve(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return admin, claims, nil
}

// Refresh exchanges a refresh token for a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, services.ErrAuthenticationRequired
	}
	claims, err := s.tokens.Verify(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	admin, err := s.resolve(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return s.Session(admin, false)
}

// Session issues a fresh access token, and a refresh token when withRefresh is set
func (s *Service) Session(admin *models.Admin, withRefresh bool) (*TokenResponse, error) {
	access, err := s.tokens.Issue(admin, TokenTypeAccess, 0)
	if err != nil {
		return nil, services.WrapInternal("Failed to issue token", err)
	}
	resp := &TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
		User:        NewUserInfo(admin),
	}
	if withRefresh {
		refresh, err := s.tokens.Issue(admin, TokenTypeRefresh, 0)
		if err != nil {
			return nil, services.WrapInternal("Failed to issue token", err)
		}
		resp.RefreshToken = refresh
	}
	return resp, nil
}

// ListAdmins returns every admin
func (s *Service) ListAdmins(ctx context.Context) ([]UserInfo, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, services.FromRepository(err, nil, nil)
	}
	infos := make([]UserInfo, 0, len(admins))
	for _, admin := range admins {
		infos = append(infos, NewUserInfo(admin))
	}
	return infos, nil
}

// ToggleStatus flips the active flag of another admin
func (s *Service) ToggleStatus(ctx context.Context, actor *models.Admin, id uuid.UUID) (*models.Admin, error) {
	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Admin, error) {
		target, err := s.admins.GetByID(ctx, id)
		if err != nil {
			return nil, services.FromRepository(err, services.ErrAdminNotFound, nil)
		}
		if target.ID == actor.ID {
			return nil, services.ErrSelfDeactivation
		}
		target.IsActive = !target.IsActive
		if err := s.admins.SetActive(ctx, target.ID, target.IsActive); err != nil {
			return nil, services.FromRepository(err, services.ErrAdminNotFound, nil)
		}
		s.logger.Info("admin status changed",
			zap.String("admin_id", target.ID.String()),
			zap.String("actor_id", actor.ID.String()),
			zap.Bool("is_active", target.IsActive),
		)
		return target, nil
	})
}

// DeleteAdmin removes another admin
func (s *Service) DeleteAdmin(ctx context.Context, actor *models.Admin, id uuid.UUID) error {
	return services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		target, err := s.admins.GetByID(ctx, id)
		if err != nil {
			return services.FromRepository(err, services.ErrAdminNotFound, nil)
		}
		if target.ID == actor.ID {
			return services.ErrSelfDeletion
		}
		if err := s.admins.Delete(ctx, target.ID); err != nil {
			return services.FromRepository(err, services.ErrAdminNotFound, nil)
		}
		s.logger.Info("admin deleted",
			zap.String("admin_id", target.ID.String()),
			zap.String("actor_id", actor.ID.String()),
		)
		return nil
	})
}

func (s *Service) newAdmin(in RegisterInput, role models.Role) (*models.Admin, error) {
	if len(in.Password) < MinPasswordLength {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength), nil)
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes), nil)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, services.WrapInternal("Failed to hash password", err)
	}
	return models.NewAdmin(in.Email, in.FullName(), hash, role), nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.admins.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return services.ErrEmailRegistered
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) resolve(ctx context.Context, email string) (*models.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrUserNotFound, nil)
	}
	if !admin.IsActive {
		return nil, services.ErrAccountDeactivated
	}
	return admin, nil
}
