package payload

import "github.com/teerapatl/aqualog-api/internal/model"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleSimpleRequest is the client-supplied Google profile used by the
// non-redirect OAuth endpoint.
type GoogleSimpleRequest struct {
	ID    string `json:"id"    validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"required"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type CheckEmailResponse struct {
	Exists bool        `json:"exists"`
	User   *model.User `json:"user,omitempty"`
}
