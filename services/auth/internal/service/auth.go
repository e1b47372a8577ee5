package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkg_hash "github.com/Skotchmaster/microshop/pkg/hash"
	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/pkg/mykafka"
	"github.com/Skotchmaster/microshop/pkg/tokens"
	"github.com/Skotchmaster/microshop/services/auth/internal/models"
	"github.com/Skotchmaster/microshop/services/auth/internal/repo"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

const bearerPrefix = "Bearer "

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Events    mykafka.Publisher
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("User already exists: %w", ErrConflict)
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}

	mykafka.Emit(ctx, s.Events, user.Username, mykafka.NewEvent("user_registered", user))
	return user, nil
}

// Login returns a signed access token for username.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", fmt.Errorf("User not found: %w", ErrNotFound)
		}
		l.Error("login_error", "reason", "cannot load user", "error", err)
		return "", err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return "", fmt.Errorf("Wrong password: %w", ErrUnauthorized)
	}

	token, _, err := tokens.NewAccessToken(user.Username, user.TokenVersion, s.TokenTTL, s.JWTSecret)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return "", err
	}
	return token, nil
}

// Validate accepts the raw Authorization value, with or without a
// "Bearer " prefix, and returns the current state of its subject.
func (s *AuthService) Validate(ctx context.Context, authorization string) (*models.User, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(authorization), bearerPrefix))
	if raw == "" {
		return nil, fmt.Errorf("Missing token: %w", ErrUnauthorized)
	}

	claims, err := tokens.AccessClaimsFromToken(raw, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("Token is invalid: %w", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, fmt.Errorf("User doesn't exist: %w", ErrNotFound)
		}
		return nil, err
	}
	if user.TokenVersion != claims.Version {
		return nil, fmt.Errorf("Token has been revoked: %w", ErrUnauthorized)
	}
	return user, nil
}

// Logout revokes every token issued to the token's subject.
func (s *AuthService) Logout(ctx context.Context, authorization string) error {
	user, err := s.Validate(ctx, authorization)
	if err != nil {
		return err
	}
	if err := s.Repo.BumpTokenVersion(ctx, user.Username); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return fmt.Errorf("User doesn't exist: %w", ErrNotFound)
		}
		return err
	}

	mykafka.Emit(ctx, s.Events, user.Username, mykafka.NewEvent("user_logged_out", map[string]any{"username": user.Username}))
	return nil
}

func (s *AuthService) Promote(ctx context.Context, username string) error {
	if err := s.Repo.SetAdmin(ctx, username, true); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return fmt.Errorf("User doesn't exist: %w", ErrNotFound)
		}
		return err
	}
	return nil
}

// Message strips the sentinel suffix from an error built by this package.
func Message(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[:i]
	}
	return msg
}
