// Package service contains the business logic layer: one service per
// resource, each validating inputs, orchestrating repository calls, and
// returning domain errors. Services know nothing about HTTP or GraphQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/conduit/internal/apperror"
	"github.com/sakif/conduit/internal/auth"
	"github.com/sakif/conduit/internal/model"
	"github.com/sakif/conduit/internal/repository"
)

// UserService handles registration, login, and account management.
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// UpdateUserParams are the optional fields of an account update. Nil
// means "leave unchanged"; a password change re-hashes.
type UpdateUserParams struct {
	Username *string
	Email    *string
	Bio      *string
	Image    *string
	Password *string
}

// Register creates an account with a hashed password and returns the
// authenticated payload including a fresh token. Uniqueness violations
// surface as validation errors on the conflicting field.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.AuthUser, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "can't be blank")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "can't be blank")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "can't be blank")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "could not be hashed")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.authJSON(user)
}

// Login validates credentials and returns the authenticated payload. A
// missing user and a wrong password report the same validation error, so
// callers cannot probe which emails are registered.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.AuthUser, error) {
	if email == "" {
		return nil, apperror.ValidationFailed("email", "can't be blank")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "can't be blank")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("email or password", "is invalid")
		}
		return nil, fmt.Errorf("looking up user for login: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.ValidationFailed("email or password", "is invalid")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.authJSON(user)
}

// Current returns the viewer's own account payload with a fresh token.
func (s *UserService) Current(ctx context.Context, viewerID string) (*model.AuthUser, error) {
	user, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.authJSON(user)
}

// Update applies a partial update to the viewer's account. Only fields
// present in params change.
func (s *UserService) Update(ctx context.Context, viewerID string, params UpdateUserParams) (*model.AuthUser, error) {
	user, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if params.Username != nil {
		username := strings.TrimSpace(*params.Username)
		if username == "" {
			return nil, apperror.ValidationFailed("username", "can't be blank")
		}
		user.Username = username
	}
	if params.Email != nil {
		email := strings.TrimSpace(*params.Email)
		if email == "" {
			return nil, apperror.ValidationFailed("email", "can't be blank")
		}
		user.Email = email
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.Image != nil {
		user.Image = *params.Image
	}
	if params.Password != nil {
		hash, err := s.passwords.Hash(*params.Password)
		if err != nil {
			return nil, apperror.ValidationFailed("password", "could not be hashed")
		}
		user.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.String("userID", user.ID))

	return s.authJSON(user)
}

// ListAll returns every user. The API exposes this unauthenticated and
// unpaginated, preserving the original contract.
func (s *UserService) ListAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *UserService) authJSON(user *model.User) (*model.AuthUser, error) {
	token, err := s.tokens.Generate(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}
	return user.AuthJSON(token), nil
}
