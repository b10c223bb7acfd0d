package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/psf-initiatives/admin-api/middleware"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/repositories/mocks"
	"github.com/psf-initiatives/admin-api/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const handlerTestSecret = "handler-test-secret"

type authFixture struct {
	admins  *mocks.AdminRepository
	txMgr   *mocks.InlineTransactionManager
	service *auth.Service
	handler *AuthHandler
	router  chi.Router
}

// newAuthFixture wires the auth routes with the real middleware over mock storage
func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		admins: new(mocks.AdminRepository),
		txMgr:  &mocks.InlineTransactionManager{},
	}
	tokens := auth.NewTokenManager(handlerTestSecret, auth.NewMemoryRevocationStore())
	f.service = auth.NewService(f.admins, f.txMgr, tokens, zap.NewNop())
	f.handler = NewAuthHandler(f.service, true, zap.NewNop())
	guard := middleware.NewAuthMiddleware(f.service, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/login", f.handler.HandleLogin)
	r.Post("/logout", f.handler.HandleLogout)
	r.Post("/create-superadmin", f.handler.HandleCreateSuperadmin)
	r.Post("/refresh", f.handler.HandleRefresh)
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)
		r.Get("/me", f.handler.HandleMe)
		r.Post("/verify-token", f.handler.HandleVerifyToken)
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireSuperadmin)
			r.Post("/register", f.handler.HandleRegister)
			r.Get("/admins", f.handler.HandleListAdmins)
			r.Patch("/admins/{id}/toggle-status", f.handler.HandleToggleStatus)
			r.Delete("/admins/{id}", f.handler.HandleDeleteAdmin)
		})
	})
	f.router = r
	return f
}

func (f *authFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *authFixture) bearer(t *testing.T, admin *models.Admin) string {
	t.Helper()
	token, err := f.service.Tokens().Issue(admin, auth.TokenTypeAccess, 0)
	require.NoError(t, err)
	return "Bearer " + token
}

func hashedAdmin(t *testing.T, email, password string, role models.Role) *models.Admin {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return models.NewAdmin(email, "Test Admin", hash, role)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials return a session", func(t *testing.T) {
		f := newAuthFixture(t)
		admin := hashedAdmin(t, "ops@psf.org", "Secret123!", models.RoleAdmin)
		f.admins.On("GetByEmail", mock.Anything, "ops@psf.org").Return(admin, nil)
		f.admins.On("UpdateLastLogin", mock.Anything, admin.ID).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, LoginRequest{Email: "ops@psf.org", Password: "Secret123!"}))
		w := f.do(req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := decodeEnvelope(t, w)
		assert.Equal(t, 200, env.StatusCode)
		assert.Equal(t, "Login successful", env.Message)

		var session auth.TokenResponse
		require.NoError(t, json.Unmarshal(env.Data, &session))
		assert.Equal(t, "bearer", session.TokenType)
		assert.Equal(t, 1800, session.ExpiresIn)
		assert.Equal(t, "ops@psf.org", session.User.Email)

		claims, err := f.service.Tokens().Verify(req.Context(), session.AccessToken, auth.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "ops@psf.org", claims.Subject)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("wrong password returns 401", func(t *testing.T) {
		f := newAuthFixture(t)
		admin := hashedAdmin(t, "ops@psf.org", "Secret123!", models.RoleAdmin)
		f.admins.On("GetByEmail", mock.Anything, "ops@psf.org").Return(admin, nil)

		w := f.do(httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, LoginRequest{Email: "ops@psf.org", Password: "nope"})))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Incorrect email or password", decodeEnvelope(t, w).Detail)
	})

	t.Run("malformed email fails validation", func(t *testing.T) {
		f := newAuthFixture(t)
		w := f.do(httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, LoginRequest{Email: "not-an-email", Password: "x"})))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.admins.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	body := RegisterRequest{Email: "new@psf.org", Password: "Password1", FirstName: "New", LastName: "Admin"}

	t.Run("duplicate email returns 400", func(t *testing.T) {
		f := newAuthFixture(t)
		super := hashedAdmin(t, "root@psf.org", "Secret123!", models.RoleSuperadmin)
		existing := hashedAdmin(t, "new@psf.org", "Secret123!", models.RoleAdmin)
		f.admins.On("GetByEmail", mock.Anything, "root@psf.org").Return(super, nil)
		f.admins.On("GetByEmail", mock.Anything, "new@psf.org").Return(existing, nil)

		req := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, body))
		req.Header.Set("Authorization", f.bearer(t, super))
		w := f.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email already registered", decodeEnvelope(t, w).Detail)
	})

	t.Run("created by a superadmin", func(t *testing.T) {
		f := newAuthFixture(t)
		super := hashedAdmin(t, "root@psf.org", "Secret123!", models.RoleSuperadmin)
		f.admins.On("GetByEmail", mock.Anything, "root@psf.org").Return(super, nil)
		f.admins.On("GetByEmail", mock.Anything, "new@psf.org").Return(nil, repositories.ErrNotFound)
		f.admins.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Admin) bool {
			return a.FullName == "New Admin" && a.Role == models.RoleAdmin
		})).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, body))
		req.Header.Set("Authorization", f.bearer(t, super))
		w := f.do(req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Admin registered successfully", decodeEnvelope(t, w).Message)
	})

	t.Run("plain admin is forbidden", func(t *testing.T) {
		f := newAuthFixture(t)
		admin := hashedAdmin(t, "ops@psf.org", "Secret123!", models.RoleAdmin)
		f.admins.On("GetByEmail", mock.Anything, "ops@psf.org").Return(admin, nil)

		req := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, body))
		req.Header.Set("Authorization", f.bearer(t, admin))
		w := f.do(req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Superadmin access required", decodeEnvelope(t, w).Detail)
	})
}

func TestAuthHandler_NoHeader(t *testing.T) {
	f := newAuthFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", decodeEnvelope(t, w).Detail)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthHandler_CreateSuperadmin(t *testing.T) {
	body := RegisterRequest{Email: "root@psf.org", Password: "Password1", FirstName: "Root", LastName: "User"}

	t.Run("first superadmin gets tokens and cookie", func(t *testing.T) {
		f := newAuthFixture(t)
		f.admins.On("LockBootstrap", mock.Anything).Return(nil)
		f.admins.On("ExistsByRole", mock.Anything, models.RoleSuperadmin).Return(false, nil)
		f.admins.On("GetByEmail", mock.Anything, "root@psf.org").Return(nil, repositories.ErrNotFound)
		f.admins.On("Create", mock.Anything, mock.Anything).Return(nil)

		w := f.do(httptest.NewRequest(http.MethodPost, "/create-superadmin", jsonBody(t, body)))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var session auth.TokenResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &session))
		assert.NotEmpty(t, session.RefreshToken)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, RefreshCookieName, c.Name)
		assert.Equal(t, session.RefreshToken, c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, 604800, c.MaxAge)
		assert.Equal(t, "/", c.Path)
	})

	t.Run("second bootstrap is forbidden", func(t *testing.T) {
		f := newAuthFixture(t)
		f.admins.On("LockBootstrap", mock.Anything).Return(nil)
		f.admins.On("ExistsByRole", mock.Anything, models.RoleSuperadmin).Return(true, nil)

		w := f.do(httptest.NewRequest(http.MethodPost, "/create-superadmin", jsonBody(t, body)))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Superadmin already exists. Use /register endpoint instead.", decodeEnvelope(t, w).Detail)
		assert.Equal(t, 1, f.txMgr.Rollbacks)
	})
}

func TestAuthHandler_LogoutRevokes(t *testing.T) {
	f := newAuthFixture(t)
	admin := hashedAdmin(t, "ops@psf.org", "Secret123!", models.RoleAdmin)
	f.admins.On("GetByEmail", mock.Anything, "ops@psf.org").Return(admin, nil)
	header := f.bearer(t, admin)

	me := httptest.NewRequest(http.MethodGet, "/me", nil)
	me.Header.Set("Authorization", header)
	require.Equal(t, http.StatusOK, f.do(me).Code)

	logout := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logout.Header.Set("Authorization", header)
	w := f.do(logout)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out", decodeEnvelope(t, w).Message)

	again := httptest.NewRequest(http.MethodGet, "/me", nil)
	again.Header.Set("Authorization", header)
	w = f.do(again)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token has been revoked", decodeEnvelope(t, w).Detail)

	t.Run("logout without a token still succeeds", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodPost, "/logout", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	admin := hashedAdmin(t, "ops@psf.org", "Secret123!", models.RoleAdmin)
	f.admins.On("GetByEmail", mock.Anything, "ops@psf.org").Return(admin, nil)

	refresh, err := f.service.Tokens().Issue(admin, auth.TokenTypeRefresh, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodPost, "/refresh", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		access, err := f.service.Tokens().Issue(admin, auth.TokenTypeAccess, 0)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: access})
		w := f.do(req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", decodeEnvelope(t, w).Detail)
	})
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	f := newAuthFixture(t)
	admin := hashedAdmin(t, "ops@psf.org", "Secret123!", models.RoleAdmin)
	f.admins.On("GetByEmail", mock.Anything, "ops@psf.org").Return(admin, nil)

	req := httptest.NewRequest(http.MethodPost, "/verify-token", nil)
	req.Header.Set("Authorization", f.bearer(t, admin))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Token is valid", env.Message)

	var data struct {
		Valid       bool   `json:"valid"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Valid)
	assert.NotEmpty(t, data.AccessToken)
}

func TestAuthHandler_AdminManagement(t *testing.T) {
	setup := func(t *testing.T) (*authFixture, *models.Admin, string) {
		f := newAuthFixture(t)
		super := hashedAdmin(t, "root@psf.org", "Secret123!", models.RoleSuperadmin)
		f.admins.On("GetByEmail", mock.Anything, "root@psf.org").Return(super, nil)
		return f, super, f.bearer(t, super)
	}

	t.Run("toggle another admin", func(t *testing.T) {
		f, _, header := setup(t)
		other := hashedAdmin(t, "ops@psf.org", "Secret123!", models.RoleAdmin)
		f.admins.On("GetByID", mock.Anything, other.ID).Return(other, nil)
		f.admins.On("SetActive", mock.Anything, other.ID, false).Return(nil)

		req := httptest.NewRequest(http.MethodPatch, "/admins/"+other.ID.String()+"/toggle-status", nil)
		req.Header.Set("Authorization", header)
		w := f.do(req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := decodeEnvelope(t, w)
		assert.Equal(t, "Admin deactivated successfully", env.Message)

		var data struct {
			Admin struct {
				ID       string `json:"id"`
				IsActive bool   `json:"is_active"`
			} `json:"admin"`
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, other.ID.String(), data.Admin.ID)
		assert.False(t, data.Admin.IsActive)
		assert.NotEmpty(t, data.AccessToken)
	})

	t.Run("toggle self is rejected", func(t *testing.T) {
		f, super, header := setup(t)
		f.admins.On("GetByID", mock.Anything, super.ID).Return(super, nil)

		req := httptest.NewRequest(http.MethodPatch, "/admins/"+super.ID.String()+"/toggle-status", nil)
		req.Header.Set("Authorization", header)
		w := f.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Cannot deactivate your own account", decodeEnvelope(t, w).Detail)
	})

	t.Run("delete self is rejected", func(t *testing.T) {
		f, super, header := setup(t)
		f.admins.On("GetByID", mock.Anything, super.ID).Return(super, nil)

		req := httptest.NewRequest(http.MethodDelete, "/admins/"+super.ID.String(), nil)
		req.Header.Set("Authorization", header)
		w := f.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Cannot delete your own account", decodeEnvelope(t, w).Detail)
	})

	t.Run("bad id format", func(t *testing.T) {
		f, _, header := setup(t)
		req := httptest.NewRequest(http.MethodDelete, "/admins/not-a-uuid", nil)
		req.Header.Set("Authorization", header)
		w := f.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid admin ID format", decodeEnvelope(t, w).Detail)
	})

	t.Run("list admins", func(t *testing.T) {
		f, super, header := setup(t)
		f.admins.On("List", mock.Anything).Return([]*models.Admin{super}, nil)

		req := httptest.NewRequest(http.MethodGet, "/admins", nil)
		req.Header.Set("Authorization", header)
		w := f.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			Admins []auth.UserInfo `json:"admins"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
		require.Len(t, data.Admins, 1)
		assert.Equal(t, "root@psf.org", data.Admins[0].Email)
	})
}
