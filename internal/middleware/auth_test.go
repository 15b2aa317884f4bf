package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emanmohamed354/backend-diabetic/internal/config"
	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(cfg *config.Config) (*fiber.App, *uuid.UUID) {
	var seen uuid.UUID
	app := fiber.New()
	app.Get("/protected", JWTProtected(cfg), func(c *fiber.Ctx) error {
		id, err := DoctorID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		seen = id
		return c.SendStatus(fiber.StatusOK)
	})
	return app, &seen
}

func TestJWTProtected_AcceptsIssuedToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app, seen := newProtectedApp(cfg)

	user := &models.User{ID: uuid.New(), Email: "a@x.com", UserName: "Sara", Role: "user"}
	token, err := services.NewTokenService(cfg.JWTSecret, time.Hour).Issue(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, user.ID, *seen)
}

func TestJWTProtected_RejectsMissingAndForgedTokens(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app, _ := newProtectedApp(cfg)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	forged, err := services.NewTokenService("other-secret", time.Hour).
		Issue(&models.User{ID: uuid.New(), Email: "a@x.com"})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+forged)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtected_RejectsExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app, _ := newProtectedApp(cfg)

	expired, err := services.NewTokenService(cfg.JWTSecret, -time.Minute).
		Issue(&models.User{ID: uuid.New(), Email: "a@x.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+expired)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
