package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barracks/account-service/internal/api/middleware"
	"github.com/barracks/account-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Its
// presence proves the middleware ran; a handler reached without it is a
// routing mistake and fails closed with a 401.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextKeyUser).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// ctxToken returns the raw bearer value for the current request, if any.
func ctxToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextKeyToken).(string)
	return token
}
