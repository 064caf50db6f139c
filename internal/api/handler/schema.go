package handler

import "github.com/barracks/account-service/internal/core/domain"

// --- Request / Response types ---

type registerRequest struct {
	Email                string `json:"email"                 validate:"required,email"`
	Name                 string `json:"name"                  validate:"required"`
	Phone                string `json:"phone"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// updateProfileRequest carries the allow-listed profile fields. Role is
// accepted in the payload but only applied when the caller passes the
// update-role policy check.
type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Role  *string `json:"role" validate:"omitempty,oneof=user staff admin"`
}

type profilePictureRequest struct {
	Filename   string `json:"filename"`
	ProfileURL string `json:"profile_url"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
