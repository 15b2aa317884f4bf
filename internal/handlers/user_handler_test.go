package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emanmohamed354/backend-diabetic/internal/dto"
	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserStore struct {
	users map[uuid.UUID]*models.User
}

func (m *memoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryUserStore) Create(_ context.Context, user *models.User) error {
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memoryUserStore) Update(_ context.Context, user *models.User, fields map[string]interface{}) error {
	u, ok := m.users[user.ID]
	if !ok {
		return nil
	}
	if hash, ok := fields["password"].(string); ok {
		u.Password = hash
	}
	return nil
}

func (m *memoryUserStore) List(_ context.Context) ([]dto.UserSummary, error) {
	var out []dto.UserSummary
	for _, u := range m.users {
		out = append(out, dto.UserSummary{ID: u.ID, UserName: u.UserName, Email: u.Email})
	}
	return out, nil
}

type noopNotifier struct{}

func (noopNotifier) SendPasswordResetOTP(context.Context, string, int) error { return nil }

func newUserTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := &memoryUserStore{users: map[uuid.UUID]*models.User{}}
	tokens := services.NewTokenService("test-secret", time.Hour)
	authService := services.NewAuthService(store, tokens, noopNotifier{})
	handler := NewUserHandler(authService)

	app := fiber.New()
	users := app.Group("/users")
	users.Post("/signUp", handler.SignUp)
	users.Post("/signIn", handler.SignIn)
	users.Get("/show", handler.GetUsers)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestUserRoutes_SignUpSignInScenario(t *testing.T) {
	app := newUserTestApp(t)

	signUp := fiber.Map{
		"userName": "Sara", "lastName": "Hassan",
		"email": "a@x.com", "password": "Secret1", "confirmPassword": "Secret1",
		"age": 34, "gender": "female", "phone": "+20100",
		"address": fiber.Map{"street": "s", "city": "c", "state": "st", "country": "EG"},
	}

	resp := postJSON(t, app, "/users/signUp", signUp)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User created successfully", decodeBody(t, resp)["msg"])

	// Duplicate email
	resp = postJSON(t, app, "/users/signUp", signUp)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", decodeBody(t, resp)["msg"])

	// Sign in with the right password
	resp = postJSON(t, app, "/users/signIn", fiber.Map{"email": "a@x.com", "password": "Secret1"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "success", body["msg"])
	assert.NotEmpty(t, body["token"])

	// Wrong password
	resp = postJSON(t, app, "/users/signIn", fiber.Map{"email": "a@x.com", "password": "nope"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password Incorrect", decodeBody(t, resp)["msg"])

	// Unknown account
	resp = postJSON(t, app, "/users/signIn", fiber.Map{"email": "b@x.com", "password": "Secret1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Account Not Found", decodeBody(t, resp)["msg"])
}

func TestUserRoutes_MismatchedPasswords(t *testing.T) {
	app := newUserTestApp(t)

	resp := postJSON(t, app, "/users/signUp", fiber.Map{
		"email": "a@x.com", "password": "one", "confirmPassword": "two",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Passwords do not match", decodeBody(t, resp)["msg"])
}

func TestUserRoutes_ShowEmpty(t *testing.T) {
	app := newUserTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/users/show", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No users found", decodeBody(t, resp)["message"])
}
