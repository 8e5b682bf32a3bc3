package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"helpconnect/internal/config"
	"helpconnect/internal/models"
	"helpconnect/internal/password"
	"helpconnect/internal/repository"
	"helpconnect/internal/session"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrAuth)

type RegisterInput struct {
	Username        string `json:"username" validate:"required,max=64"`
	Email           string `json:"email" validate:"required,max=120"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	UserType        string `json:"userType" validate:"oneof=disabled volunteer"`
	Skills          string `json:"skills" validate:"max=200"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// Session is what a client keeps after logging in.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, plainPassword string) (*models.User, *Session, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, input ChangePasswordInput) error
}

type authService struct {
	userRepo repository.UserRepository
	sessions session.Store
	tokens   *session.TokenCodec
	validate *validator.Validate
	ttl      time.Duration
	now      clock
}

func NewAuthService(userRepo repository.UserRepository, sessions session.Store, tokens *session.TokenCodec, validate *validator.Validate, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		validate: validate,
		ttl:      cfg.Session.TTL,
		now:      utcNow,
	}
}

func hashPassword(plain string) (string, error) {
	hash, err := password.Hash(plain)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", validationf("password must be at most 72 bytes")
		}
		logrus.WithError(err).Error("password hashing failed")
		return "", fmt.Errorf("%w: hash password", ErrOperationFailed)
	}
	return hash, nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Skills = strings.TrimSpace(input.Skills)
	input.UserType = strings.TrimSpace(input.UserType)
	if input.UserType == "" {
		input.UserType = models.UserTypeDisabled
	}

	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		UserType:     input.UserType,
		Skills:       input.Skills,
		Rating:       models.DefaultRating,
		CreatedAt:    s.now(),
	}

	// uniqueness is left to the store's constraints
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError("register user", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"username":  user.Username,
		"user_type": user.UserType,
	}).Info("user registered")

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, plainPassword string) (*models.User, *Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, storeError("login", err)
	}

	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, nil, errInvalidCredentials
	}

	if err := s.userRepo.SetOnline(ctx, user.ID, true); err != nil {
		return nil, nil, storeError("login", err)
	}
	user.IsOnline = true

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		s.resetOnline(ctx, user.ID)
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to create session")
		return nil, nil, fmt.Errorf("%w: create session", ErrOperationFailed)
	}

	expiresAt := s.now().Add(s.ttl)
	token, err := s.tokens.Issue(sessionID, user.ID, expiresAt)
	if err != nil {
		_ = s.sessions.Delete(ctx, sessionID)
		s.resetOnline(ctx, user.ID)
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to issue session token")
		return nil, nil, fmt.Errorf("%w: issue session token", ErrOperationFailed)
	}

	logrus.WithField("user_id", user.ID).Info("user logged in")

	return user, &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// resetOnline undoes the online flag of a login that did not produce a session.
func (s *authService) resetOnline(ctx context.Context, userID int64) {
	if err := s.userRepo.SetOnline(ctx, userID, false); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to reset online state")
	}
}

// Logout destroys the session behind token. Logging out an anonymous or
// already expired session is a no-op.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}

	userID, ok, err := s.sessions.Resolve(ctx, claims.SessionID)
	if err != nil {
		logrus.WithError(err).Error("failed to resolve session")
		return fmt.Errorf("%w: resolve session", ErrOperationFailed)
	}
	if !ok {
		return nil
	}

	if err := s.userRepo.SetOnline(ctx, userID, false); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError("logout", err)
	}

	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		logrus.WithError(err).Error("failed to delete session")
		return fmt.Errorf("%w: delete session", ErrOperationFailed)
	}

	logrus.WithField("user_id", userID).Info("user logged out")
	return nil
}

// CurrentUser returns nil without an error for anonymous callers.
func (s *authService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil
	}

	userID, ok, err := s.sessions.Resolve(ctx, claims.SessionID)
	if err != nil {
		logrus.WithError(err).Error("failed to resolve session")
		return nil, fmt.Errorf("%w: resolve session", ErrOperationFailed)
	}
	if !ok || userID != claims.UserID {
		return nil, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, storeError("current user", err)
	}

	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, input ChangePasswordInput) error {
	if err := validateStruct(s.validate, input); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return storeError("change password", err)
	}

	if !password.Verify(input.CurrentPassword, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", ErrAuth)
	}

	hash, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return storeError("change password", err)
	}

	logrus.WithField("user_id", userID).Info("password changed")
	return nil
}
