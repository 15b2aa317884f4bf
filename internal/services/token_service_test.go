package services

import (
	"testing"
	"time"

	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		UserName: "Sara",
		LastName: "Hassan",
		Email:    "sara@example.com",
		Age:      34,
		Gender:   "female",
		Phone:    "+201001234567",
		Address: models.Address{
			Street:  "12 Nile St",
			City:    "Cairo",
			State:   "Cairo",
			Country: "Egypt",
		},
		Role: "user",
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", time.Hour)
	user := testUser()

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.UserName, claims.UserName)
	assert.Equal(t, user.LastName, claims.LastName)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.Age, claims.Age)
	assert.Equal(t, user.Gender, claims.Gender)
	assert.Equal(t, user.Phone, claims.Phone)
	assert.Equal(t, user.Address, claims.Address)
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", -time.Second)
	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenService("right-secret", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenService("wrong-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("secret", time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("", time.Hour).Issue(testUser())
	assert.Error(t, err)
}
