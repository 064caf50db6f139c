package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barracks/account-service/internal/api/metrics"
	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/policy"
)

// RequireAction gates a route on the central authorization policy. It must
// run after Auth. When the route carries a target in the :id param it is
// passed to the policy by ID alone, so a denial happens before any lookup
// and reveals nothing about whether the target exists. The 403 body is the
// same for every denial.
func RequireAction(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextKeyUser).(*domain.User)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			var target *domain.User
			if id := c.Param("id"); id != "" {
				target = &domain.User{ID: id}
			}

			if policy.Decide(user, target, action) != policy.Allow {
				metrics.AuthzDenialsTotal.WithLabelValues(c.Path()).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
			}
			return next(c)
		}
	}
}
