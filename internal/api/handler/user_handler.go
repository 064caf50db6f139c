package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barracks/account-service/internal/api/metrics"
	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated identity's own profile.
//
// @Summary      Own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Router       /user [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetProfile(c.Request().Context(), user, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// List returns every profile. Elevated roles only.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.userService.ListUsers(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Update modifies a profile. Owners may change their own allow-listed
// fields; role changes additionally require an elevated acting role.
//
// @Summary      Update a profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Target user ID"
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /user/{id}/update [post]
func (h *UserHandler) Update(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.ProfileUpdateInput{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), user, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Impersonate issues a token for the target identity. Elevated roles only.
//
// @Summary      Impersonate a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Target user ID"
// @Success      200  {object}  authResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/impersonate/{id} [post]
func (h *UserHandler) Impersonate(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	token, target, err := h.userService.Impersonate(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("impersonation").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token.Value, User: target})
}

// ProfilePicture stores a picture reference on the caller's own profile.
//
// @Summary      Set profile picture
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profilePictureRequest  true  "Picture reference"
// @Success      200   {object}  domain.User
// @Router       /profile-picture [post]
func (h *UserHandler) ProfilePicture(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req profilePictureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.userService.SetProfilePicture(c.Request().Context(), user, req.Filename, req.ProfileURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAccount removes the caller's own identity and every session bound
// to it.
//
// @Summary      Delete own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /delete-account [post]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted successfully"})
}
