package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tuneup/studio/internal/api/handler"
	"github.com/tuneup/studio/internal/core/service"
)

// Authenticator verifies a bearer token, including revocation.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.TokenClaims, error)
}

// Auth validates the session token and injects the caller into context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(handler.CtxUID, claims.UID)
			c.Set(handler.CtxEmail, claims.Email)
			c.Set(handler.CtxToken, parts[1])

			return next(c)
		}
	}
}
