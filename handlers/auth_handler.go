package handlers

import (
	"net/http"
	"time"

	"github.com/psf-initiatives/admin-api/middleware"
	"github.com/psf-initiatives/admin-api/services/auth"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// RefreshCookieName is the cookie carrying the refresh token
const RefreshCookieName = "refresh_token"

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register and /auth/create-superadmin
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Role      string `json:"role,omitempty"`
}

func (req RegisterRequest) input() auth.RegisterInput {
	return auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}
}

// verifiedToken is the reply of POST /auth/verify-token
type verifiedToken struct {
	*auth.TokenResponse
	Valid bool `json:"valid"`
}

// adminList is the reply of GET /auth/admins
type adminList struct {
	Admins []auth.UserInfo `json:"admins"`
	*auth.TokenResponse
}

// adminStatus is the reply of PATCH /auth/admins/{id}/toggle-status
type adminStatus struct {
	Admin struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		IsActive bool   `json:"is_active"`
	} `json:"admin"`
	*auth.TokenResponse
}

// AuthHandler handles authentication and admin management requests
type AuthHandler struct {
	service      *auth.Service
	cookieSecure bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *auth.Service, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("login failed",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Login successful", resp)
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.Register(r.Context(), req.input())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, "Admin registered successfully", resp)
}

// HandleCreateSuperadmin handles POST /auth/create-superadmin
func (h *AuthHandler) HandleCreateSuperadmin(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.BootstrapSuperadmin(r.Context(), req.input())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.setRefreshCookie(w, resp.RefreshToken)
	_ = utils.WriteCreated(w, "Superadmin created successfully", resp)
}

// HandleLogout handles POST /auth/logout. A missing or unusable token still logs out.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	h.clearRefreshCookie(w)
	_ = utils.WriteOK(w, "Successfully logged out", nil)
}

// HandleRefresh handles POST /auth/refresh using the refresh_token cookie
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		token = cookie.Value
	}

	resp, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, "Token refreshed successfully", resp)
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.freshSession(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, "User information retrieved successfully", resp)
}

// HandleVerifyToken handles POST /auth/verify-token
func (h *AuthHandler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.freshSession(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, "Token is valid", verifiedToken{TokenResponse: resp, Valid: true})
}

// HandleValidateToken handles POST /auth/validate-token
func (h *AuthHandler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.freshSession(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, "Token validated successfully", resp)
}

// HandleListAdmins handles GET /auth/admins
func (h *AuthHandler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.ListAdmins(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	resp, ok := h.freshSession(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, "Admins retrieved successfully", adminList{Admins: admins, TokenResponse: resp})
}

// HandleToggleStatus handles PATCH /auth/admins/{id}/toggle-status
func (h *AuthHandler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "admin")
	if !ok {
		return
	}

	target, err := h.service.ToggleStatus(r.Context(), middleware.GetPrincipalFromContext(r.Context()), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	resp, ok := h.freshSession(w, r)
	if !ok {
		return
	}

	out := adminStatus{TokenResponse: resp}
	out.Admin.ID = target.ID.String()
	out.Admin.Email = target.Email
	out.Admin.IsActive = target.IsActive

	msg := "Admin deactivated successfully"
	if target.IsActive {
		msg = "Admin activated successfully"
	}
	_ = utils.WriteOK(w, msg, out)
}

// HandleDeleteAdmin handles DELETE /auth/admins/{id}
func (h *AuthHandler) HandleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "admin")
	if !ok {
		return
	}

	if err := h.service.DeleteAdmin(r.Context(), middleware.GetPrincipalFromContext(r.Context()), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	resp, ok := h.freshSession(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, "Admin deleted successfully", resp)
}

// freshSession issues a new access token for the authenticated principal
func (h *AuthHandler) freshSession(w http.ResponseWriter, r *http.Request) (*auth.TokenResponse, bool) {
	admin := middleware.GetPrincipalFromContext(r.Context())
	if admin == nil {
		_ = utils.WriteUnauthorized(w, "")
		return nil, false
	}
	resp, err := h.service.Session(admin, false)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return nil, false
	}
	return resp, true
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	if token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.service.Tokens().RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
