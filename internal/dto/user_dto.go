package dto

import (
	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/google/uuid"
)

type SignUpRequest struct {
	UserName        string         `json:"userName"`
	LastName        string         `json:"lastName"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	ConfirmPassword string         `json:"confirmPassword"`
	Age             int            `json:"age"`
	Gender          string         `json:"gender"`
	Address         models.Address `json:"address"`
	Phone           string         `json:"phone"`
	Role            string         `json:"role,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         int    `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// UpdateUserRequest carries a partial profile update. Pointer fields
// distinguish "omitted" from zero values, so age 0 or an empty string is
// still an explicit update when present in the body.
type UpdateUserRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	UserName *string         `json:"userName"`
	LastName *string         `json:"lastName"`
	Age      *int            `json:"age"`
	Gender   *string         `json:"gender"`
	Phone    *string         `json:"phone"`
	Address  *models.Address `json:"address"`
}

// UserSummary is the projection returned by the user listing endpoint.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"userName"`
	Email    string    `json:"email"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
