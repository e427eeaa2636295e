package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evseev/postboard/internal/middleware"
	"github.com/evseev/postboard/internal/service"
)

// Authenticator is the slice of the auth service the handler needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	Logout(ctx context.Context, userID uint64) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(a Authenticator) *AuthHandler { return &AuthHandler{Auth: a} }

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies credentials and returns the access token. Any
// credential failure maps to the same 401 body; the cause is only
// logged server-side.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Logger().Infof("login rejected: %v", err)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		AccessToken: res.Tokens.AccessToken,
		TokenType:   "bearer",
	})
}

// Logout deletes the current user's session. Requires the access
// gate; idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Logout(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusOK)
}

// CurrentUser returns the identity resolved by the access gate. The
// route path keeps the legacy spelling for client compatibility.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}
	return c.JSON(http.StatusOK, userResp{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}
