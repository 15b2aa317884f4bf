package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emanmohamed354/backend-diabetic/internal/dto"
	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/google/uuid"
)

var (
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrUserExists        = errors.New("user already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInvalidOTP        = errors.New("invalid or expired OTP")
	ErrNoUsers           = errors.New("no users found")
	ErrMailSend          = errors.New("error sending email")
)

// UserStore is the credential store the auth flows run against. Find
// methods return (nil, nil) when no record matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User, fields map[string]interface{}) error
	List(ctx context.Context) ([]dto.UserSummary, error)
}

type AuthService struct {
	users    UserStore
	tokens   *TokenService
	notifier Notifier
}

func NewAuthService(users UserStore, tokens *TokenService, notifier Notifier) *AuthService {
	return &AuthService{users: users, tokens: tokens, notifier: notifier}
}

// SignUp registers a new account with a hashed password. No token is
// issued; the caller signs in separately.
func (s *AuthService) SignUp(ctx context.Context, req *dto.SignUpRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	email := normalizeEmail(req.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return err
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	user := models.User{
		ID:       uuid.New(),
		UserName: req.UserName,
		LastName: req.LastName,
		Email:    email,
		Password: hash,
		Age:      req.Age,
		Gender:   req.Gender,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     role,
	}
	return s.users.Create(ctx, &user)
}

// SignIn verifies credentials and issues a session token over the full
// profile claim set.
func (s *AuthService) SignIn(ctx context.Context, req *dto.SignInRequest) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrAccountNotFound
	}
	if !CheckPassword(req.Password, user.Password) {
		return "", ErrPasswordIncorrect
	}
	return s.tokens.Issue(user)
}

// ChangePassword authenticates via the presented session token, verifies
// the current password, and stores the new hash. Any pending reset OTP is
// cleared; no new token is issued.
func (s *AuthService) ChangePassword(ctx context.Context, tokenString string, req *dto.ChangePasswordRequest) error {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fmt.Errorf("%w: bad userId claim", ErrInvalidToken)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !CheckPassword(req.CurrentPassword, user.Password) {
		return ErrPasswordIncorrect
	}
	if req.NewPassword != req.ConfirmNewPassword {
		return ErrPasswordMismatch
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, user, map[string]interface{}{
		"password":           hash,
		"reset_password_otp": nil,
		"otp_expiry":         nil,
	})
}

// ForgotPassword persists a fresh OTP on the account and then attempts the
// mail send. The OTP survives a failed send, so a retried reset with the
// code still works even when the mail never arrived.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, expiry, err := GenerateOTP()
	if err != nil {
		return err
	}
	err = s.users.Update(ctx, user, map[string]interface{}{
		"reset_password_otp": code,
		"otp_expiry":         expiry,
	})
	if err != nil {
		return err
	}

	if err := s.notifier.SendPasswordResetOTP(ctx, user.Email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrMailSend, err)
	}
	return nil
}

// ResetPassword consumes a pending OTP. The password update and the OTP
// clear land in a single store update.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.ResetPasswordOTP == nil || user.OTPExpiry == nil ||
		*user.ResetPasswordOTP != req.OTP || !user.OTPExpiry.After(time.Now()) {
		return ErrInvalidOTP
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, user, map[string]interface{}{
		"password":           hash,
		"reset_password_otp": nil,
		"otp_expiry":         nil,
	})
}

// UpdateProfile applies the fields present in the request after a password
// check, then reloads the record and issues a fresh token over it.
func (s *AuthService) UpdateProfile(ctx context.Context, req *dto.UpdateUserRequest) (string, *models.User, error) {
	email := normalizeEmail(req.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}
	if !CheckPassword(req.Password, user.Password) {
		return "", nil, ErrPasswordIncorrect
	}

	fields := map[string]interface{}{}
	if req.UserName != nil {
		fields["user_name"] = *req.UserName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address_street"] = req.Address.Street
		fields["address_city"] = req.Address.City
		fields["address_state"] = req.Address.State
		fields["address_country"] = req.Address.Country
	}
	if err := s.users.Update(ctx, user, fields); err != nil {
		return "", nil, err
	}

	updated, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if updated == nil {
		return "", nil, ErrUserNotFound
	}

	token, err := s.tokens.Issue(updated)
	if err != nil {
		return "", nil, err
	}
	return token, updated, nil
}

// ListUsers returns the id/userName/email projection of every account.
// An empty store is reported as ErrNoUsers, not an empty slice.
func (s *AuthService) ListUsers(ctx context.Context) ([]dto.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
