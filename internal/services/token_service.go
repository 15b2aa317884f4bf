package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the full identity claim set embedded in a session token. It is
// re-derived from the current user record on every issuance, so a token
// always reflects the profile as of when it was signed.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string         `json:"userId"`
	Email    string         `json:"email"`
	UserName string         `json:"userName"`
	LastName string         `json:"lastName"`
	Role     string         `json:"role"`
	Age      int            `json:"age"`
	Gender   string         `json:"gender"`
	Phone    string         `json:"phone"`
	Address  models.Address `json:"address"`
}

// TokenService signs and verifies stateless session tokens. There is no
// revocation store; a token is trusted until its expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token over the user's current profile.
func (s *TokenService) Issue(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("signing secret is not configured")
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   user.ID.String(),
		Email:    user.Email,
		UserName: user.UserName,
		LastName: user.LastName,
		Role:     user.Role,
		Age:      user.Age,
		Gender:   user.Gender,
		Phone:    user.Phone,
		Address:  user.Address,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its claims. Malformed, forged, and
// expired tokens all come back as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
