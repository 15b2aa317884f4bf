package handlers

import (
	"errors"
	"strings"

	"github.com/emanmohamed354/backend-diabetic/internal/dto"
	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	if err := h.authService.SignUp(c.UserContext(), &req); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Passwords do not match"})
		case errors.Is(err, services.ErrUserExists):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "User already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"msg": "User created successfully"})
}

func (h *UserHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	token, err := h.authService.SignIn(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Account Not Found"})
		case errors.Is(err, services.ErrPasswordIncorrect):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Password Incorrect"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"msg": "success", "token": token})
}

// ChangePassword reads the session token from the raw "token" header kept
// for client compatibility; a standard Authorization bearer works too.
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	token := sessionToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "No token provided, authorization denied"})
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	if err := h.authService.ChangePassword(c.UserContext(), token, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Invalid or expired token"})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
		case errors.Is(err, services.ErrPasswordIncorrect):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Current password is incorrect"})
		case errors.Is(err, services.ErrPasswordMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "New passwords do not match"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{"msg": "Password changed successfully"})
}

func (h *UserHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		case errors.Is(err, services.ErrMailSend):
			// The OTP is already persisted; a reset with the code still works.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error sending email"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	return c.JSON(fiber.Map{"message": "OTP sent successfully"})
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.authService.ResetPassword(c.UserContext(), &req); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		case errors.Is(err, services.ErrInvalidOTP):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid or expired OTP"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}

func (h *UserHandler) UpdateUserData(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	token, user, err := h.authService.UpdateProfile(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
		case errors.Is(err, services.ErrPasswordIncorrect):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{
		"msg":   "User updated successfully",
		"token": token,
		"user":  user,
	})
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		if errors.Is(err, services.ErrNoUsers) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No users found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{"users": users})
}

func sessionToken(c *fiber.Ctx) string {
	if token := c.Get("token"); token != "" {
		return token
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
