package middleware // middleware provides reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evseev/postboard/internal/model"
)

// TokenValidator resolves a presented access token to an identity.
// *service.AuthService satisfies it; tests substitute stubs.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (model.User, error)
}

// contextUserKey is where the access gate stashes the resolved
// identity for handlers.
const contextUserKey = "current_user"

// AccessGate returns an Echo middleware that guards protected routes.
// It extracts the bearer token from the Authorization header, asks
// the validator to resolve it and stores the identity in the request
// context. Every failure — missing header, bad signature, expired or
// superseded token, inactive user — collapses to a plain 401; decode
// details never reach the client.
func AccessGate(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
			}
			token := strings.TrimPrefix(header, "Bearer ")

			u, err := v.Validate(c.Request().Context(), token)
			if err != nil {
				c.Logger().Debugf("access gate: %v", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
			}

			c.Set(contextUserKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the identity the access gate resolved for this
// request. The boolean is false on routes the gate does not wrap.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(contextUserKey).(model.User)
	return u, ok
}
