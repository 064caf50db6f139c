package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/barracks/account-service/internal/api/metrics"
	"github.com/barracks/account-service/internal/core/ports"
)

// Context keys set by the Auth middleware.
const (
	ContextKeyUser  = "auth_user"
	ContextKeyToken = "auth_token"
)

// Auth resolves the bearer token through the issuer and injects the
// authenticated identity into the request context. Every failure surfaces
// as the same 401; the client cannot distinguish a malformed header from a
// revoked token.
func Auth(issuer ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			user, err := issuer.Validate(c.Request().Context(), parts[1])
			if err != nil {
				metrics.TokenRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyToken, parts[1])

			return next(c)
		}
	}
}
