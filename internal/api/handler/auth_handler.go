package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"max=100"`
	Username string `json:"username" validate:"max=50"`
	Password string `json:"password" validate:"max=72"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userSummary struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"full_name"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type registerResponse struct {
	envelope
	UserID int64 `json:"userId"`
}

type loginResponse struct {
	envelope
	Token string      `json:"token"`
	User  userSummary `json:"user"`
}

type profileResponse struct {
	envelope
	User userSummary `json:"user"`
}

// Register creates a new customer account.
//
// @Summary      Register a customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.authService.Register(c.Request().Context(), req.FullName, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		envelope: ok("Registrasi berhasil! Silakan login."),
		UserID:   id,
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	summary := toUserSummary(user)
	summary.CreatedAt = nil
	return c.JSON(http.StatusOK, loginResponse{
		envelope: ok("Login berhasil!"),
		Token:    token,
		User:     summary,
	})
}

// Profile returns the account behind the bearer token.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		envelope: ok(""),
		User:     toUserSummary(user),
	})
}

func toUserSummary(u *domain.User) userSummary {
	created := u.CreatedAt
	return userSummary{
		ID:        u.ID,
		FullName:  u.FullName,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: &created,
	}
}
