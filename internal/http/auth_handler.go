package httpapi

import (
	"errors"
	"net/http"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/service"

	"go.uber.org/zap"
)

// AuthHandler 注册 / 登录
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register 用户注册。admin 角色不开放自助注册。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	role := domain.Role(payload.Role)
	if role == domain.RoleAdmin {
		writeJSON(w, http.StatusForbidden, Fail("admin accounts cannot self-register"))
		return
	}

	user, err := h.authService.Register(ctx, service.RegisterRequest{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     role,
		FullName: payload.FullName,
		Phone:    payload.Phone,
	})
	if err != nil {
		h.logger.Error("Register failed", zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Ok(userView(user)))
}

// Login 用户登录，返回 JWT 和用户信息。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	resp, err := h.authService.Login(ctx, service.LoginRequest{
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) || errors.Is(err, service.ErrNotApproved) {
			writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"token": resp.Token,
		"user":  userView(resp.User),
	}))
}
