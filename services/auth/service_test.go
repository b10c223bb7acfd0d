package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/repositories/mocks"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *mocks.AdminRepository, *mocks.InlineTransactionManager) {
	t.Helper()
	admins := new(mocks.AdminRepository)
	txMgr := &mocks.InlineTransactionManager{}
	tokens := NewTokenManager(testSecret, NewMemoryRevocationStore())
	return NewService(admins, txMgr, tokens, zap.NewNop()), admins, txMgr
}

func storedAdmin(t *testing.T, email, password string, role models.Role) *models.Admin {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return models.NewAdmin(email, "Test Admin", hash, role)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, admins, txMgr := newTestService(t)
		admin := storedAdmin(t, "a@x.com", "Secret123!", models.RoleSuperadmin)
		admins.On("GetByEmail", mock.Anything, "a@x.com").Return(admin, nil)
		admins.On("UpdateLastLogin", mock.Anything, admin.ID).Return(nil)

		resp, err := svc.Login(ctx, "a@x.com", "Secret123!")
		require.NoError(t, err)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, 1800, resp.ExpiresIn)
		assert.Empty(t, resp.RefreshToken)
		assert.Equal(t, models.RoleSuperadmin, resp.User.Role)
		assert.NotNil(t, resp.User.LastLogin)
		assert.Equal(t, 1, txMgr.Commits)

		claims, err := svc.Tokens().Verify(ctx, resp.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Subject)
		assert.Equal(t, models.RoleSuperadmin, claims.Role)
		admins.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, repositories.ErrNotFound)

		_, err := svc.Login(ctx, "nobody@x.com", "whatever1")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admin := storedAdmin(t, "a@x.com", "Secret123!", models.RoleAdmin)
		admins.On("GetByEmail", mock.Anything, "a@x.com").Return(admin, nil)

		_, err := svc.Login(ctx, "a@x.com", "wrong-password")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		admins.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("deactivated", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admin := storedAdmin(t, "a@x.com", "Secret123!", models.RoleAdmin)
		admin.IsActive = false
		admins.On("GetByEmail", mock.Anything, "a@x.com").Return(admin, nil)

		_, err := svc.Login(ctx, "a@x.com", "Secret123!")
		assert.ErrorIs(t, err, services.ErrAccountDeactivated)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection refused"))

		_, err := svc.Login(ctx, "a@x.com", "Secret123!")
		assert.True(t, services.IsInternalError(err))
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	input := RegisterInput{Email: "new@x.com", Password: "Password1", FirstName: "New", LastName: "Admin"}

	t.Run("defaults to admin role", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("GetByEmail", mock.Anything, "new@x.com").Return(nil, repositories.ErrNotFound)
		admins.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Admin) bool {
			return a.Email == "new@x.com" && a.FullName == "New Admin" && a.Role == models.RoleAdmin &&
				a.IsActive && CheckPassword(a.PasswordHash, "Password1")
		})).Return(nil)

		resp, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, resp.User.Role)
		assert.Equal(t, "New Admin", resp.User.FullName)
		admins.AssertExpectations(t)
	})

	t.Run("password over the bcrypt limit", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		long := input
		long.Password = strings.Repeat("p", MaxPasswordBytes+1)

		_, err := svc.Register(ctx, long)
		require.Error(t, err)
		assert.Equal(t, services.ErrorTypeValidation, services.GetErrorType(err))
		assert.Contains(t, err.Error(), "at most 72 bytes")
		admins.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, admins, txMgr := newTestService(t)
		admins.On("GetByEmail", mock.Anything, "new@x.com").Return(models.NewAdmin("new@x.com", "", "", models.RoleAdmin), nil)

		_, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, services.ErrEmailRegistered)
		assert.Equal(t, 1, txMgr.Rollbacks)
		admins.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("GetByEmail", mock.Anything, "new@x.com").Return(nil, repositories.ErrNotFound)
		admins.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)

		_, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, services.ErrEmailRegistered)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		in := input
		in.Role = "owner"

		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, services.ErrInvalidRole)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		in := input
		in.Password = "short"

		_, err := svc.Register(ctx, in)
		assert.True(t, services.IsValidationError(err))
	})
}

func TestService_BootstrapSuperadmin(t *testing.T) {
	ctx := context.Background()
	input := RegisterInput{Email: "root@x.com", Password: "Password1", FirstName: "Root", LastName: "User"}

	t.Run("first superadmin", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("LockBootstrap", mock.Anything).Return(nil)
		admins.On("ExistsByRole", mock.Anything, models.RoleSuperadmin).Return(false, nil)
		admins.On("GetByEmail", mock.Anything, "root@x.com").Return(nil, repositories.ErrNotFound)
		admins.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Admin) bool {
			return a.Role == models.RoleSuperadmin
		})).Return(nil)

		resp, err := svc.BootstrapSuperadmin(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, models.RoleSuperadmin, resp.User.Role)
		assert.NotEmpty(t, resp.RefreshToken)

		_, err = svc.Tokens().Verify(ctx, resp.RefreshToken, TokenTypeRefresh)
		assert.NoError(t, err)
	})

	t.Run("already bootstrapped", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("LockBootstrap", mock.Anything).Return(nil)
		admins.On("ExistsByRole", mock.Anything, models.RoleSuperadmin).Return(true, nil)

		_, err := svc.BootstrapSuperadmin(ctx, input)
		assert.ErrorIs(t, err, services.ErrSuperadminExists)
		assert.True(t, services.IsForbiddenError(err))
		admins.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_AuthenticateAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, admins, _ := newTestService(t)
	admin := storedAdmin(t, "a@x.com", "Secret123!", models.RoleAdmin)
	admins.On("GetByEmail", mock.Anything, "a@x.com").Return(admin, nil)

	session, err := svc.Session(admin, false)
	require.NoError(t, err)

	got, claims, err := svc.Authenticate(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, admin.ID.String(), claims.UserID)

	require.NoError(t, svc.Logout(ctx, session.AccessToken))
	_, _, err = svc.Authenticate(ctx, session.AccessToken)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)

	require.NoError(t, svc.Logout(ctx, "garbage"))
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestService_AuthenticateDeletedOrDeactivated(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admin := storedAdmin(t, "gone@x.com", "Secret123!", models.RoleAdmin)
		admins.On("GetByEmail", mock.Anything, "gone@x.com").Return(nil, repositories.ErrNotFound)

		session, err := svc.Session(admin, false)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, session.AccessToken)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})

	t.Run("deactivated", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admin := storedAdmin(t, "off@x.com", "Secret123!", models.RoleAdmin)
		session, err := svc.Session(admin, false)
		require.NoError(t, err)

		admin.IsActive = false
		admins.On("GetByEmail", mock.Anything, "off@x.com").Return(admin, nil)

		_, _, err = svc.Authenticate(ctx, session.AccessToken)
		assert.ErrorIs(t, err, services.ErrAccountDeactivated)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	svc, admins, _ := newTestService(t)
	admin := storedAdmin(t, "a@x.com", "Secret123!", models.RoleAdmin)
	admins.On("GetByEmail", mock.Anything, "a@x.com").Return(admin, nil)

	session, err := svc.Session(admin, true)
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Refresh(ctx, session.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, services.ErrAuthenticationRequired)
}

func TestService_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	actor := models.NewAdmin("root@x.com", "Root", "", models.RoleSuperadmin)

	t.Run("toggles other admin", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		target := models.NewAdmin("b@x.com", "B", "", models.RoleAdmin)
		admins.On("GetByID", mock.Anything, target.ID).Return(target, nil)
		admins.On("SetActive", mock.Anything, target.ID, false).Return(nil)

		got, err := svc.ToggleStatus(ctx, actor, target.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		admins.AssertExpectations(t)
	})

	t.Run("self", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("GetByID", mock.Anything, actor.ID).Return(actor, nil)

		_, err := svc.ToggleStatus(ctx, actor, actor.ID)
		assert.ErrorIs(t, err, services.ErrSelfDeactivation)
		admins.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		id := uuid.New()
		admins.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		_, err := svc.ToggleStatus(ctx, actor, id)
		assert.ErrorIs(t, err, services.ErrAdminNotFound)
	})
}

func TestService_DeleteAdmin(t *testing.T) {
	ctx := context.Background()
	actor := models.NewAdmin("root@x.com", "Root", "", models.RoleSuperadmin)

	t.Run("deletes other admin", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		target := models.NewAdmin("b@x.com", "B", "", models.RoleAdmin)
		admins.On("GetByID", mock.Anything, target.ID).Return(target, nil)
		admins.On("Delete", mock.Anything, target.ID).Return(nil)

		require.NoError(t, svc.DeleteAdmin(ctx, actor, target.ID))
		admins.AssertExpectations(t)
	})

	t.Run("self", func(t *testing.T) {
		svc, admins, _ := newTestService(t)
		admins.On("GetByID", mock.Anything, actor.ID).Return(actor, nil)

		err := svc.DeleteAdmin(ctx, actor, actor.ID)
		assert.ErrorIs(t, err, services.ErrSelfDeletion)
		admins.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestService_ListAdmins(t *testing.T) {
	svc, admins, _ := newTestService(t)
	admins.On("List", mock.Anything).Return([]*models.Admin{
		models.NewAdmin("a@x.com", "A", "", models.RoleSuperadmin),
		models.NewAdmin("b@x.com", "B", "", models.RoleAdmin),
	}, nil)

	infos, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a@x.com", infos[0].Email)
}
